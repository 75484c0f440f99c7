package timeline

import (
	"fmt"
	"time"

	"gantt-golang/internal/constants"
	"gantt-golang/internal/match"
	"gantt-golang/internal/service/calendar"
	"gantt-golang/internal/storage"
)

type Mode string

const (
	ModeExecution Mode = "ejecucion"
	ModePlanning  Mode = "planificacion"
)

const unknown = "desconocido"

// Group es una fila del Gantt: la OT como fila padre y cada proceso de su
// ruta como fila hija.
type Group struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	ParentID  string `json:"parent_id,omitempty"`
	TreeLevel int    `json:"nivel"`
}

// Item es un bloque dibujable/analizable del Gantt. Percent va sin recorte
// (puede pasar de 100); DisplayPercent es el valor recortado para pintar.
type Item struct {
	ID             string    `json:"id"`
	GroupID        string    `json:"group_id"`
	Start          time.Time `json:"inicio"`
	End            time.Time `json:"fin"`
	Quantity       float64   `json:"cantidad"`
	Color          string    `json:"color"`
	Tooltip        string    `json:"tooltip"`
	Percent        float64   `json:"porcentaje"`
	DisplayPercent float64   `json:"porcentaje_display"`
	FirstSegment   bool      `json:"primer_tramo"`
}

type Builder struct {
	window *calendar.Window
}

func NewBuilder(w *calendar.Window) *Builder {
	return &Builder{window: w}
}

// BuildGroups arma las filas del Gantt: OTs en el orden de entrada, procesos
// en orden canónico de ruta dentro de cada OT. Este orden es contrato de
// pantalla y también el orden de iteración de la comparación de snapshots.
func (b *Builder) BuildGroups(orders []*storage.WorkOrder) []Group {
	var groups []Group
	for _, o := range orders {
		parentID := fmt.Sprintf("ot-%d", o.ID)
		groups = append(groups, Group{
			ID:      parentID,
			Content: fmt.Sprintf("%s — %s", o.Code, o.Description),
		})

		steps := append([]*storage.ProcessStep(nil), o.Steps...)
		storage.SortSteps(steps)
		for _, p := range steps {
			groups = append(groups, Group{
				ID:        fmt.Sprintf("proc-%d", p.ID),
				Content:   fmt.Sprintf("%d. %s", p.Stage, p.ProcessName),
				ParentID:  parentID,
				TreeLevel: 1,
			})
		}
	}
	return groups
}

// BuildItems expande cada bloque programado por el calendario laboral y lo
// enriquece con color, tooltip y porcentaje. Una referencia rota (proceso u
// OT que no está en los datos entregados) degrada a "desconocido" en el
// tooltip pero el bloque se emite igual: nunca se bota información del Gantt.
func (b *Builder) BuildItems(intervals []*storage.ScheduleInterval, mode Mode, orders []*storage.WorkOrder, assignments []*storage.Assignment) ([]Item, error) {
	const op = "timeline.BuildItems"

	var allSteps []*storage.ProcessStep
	for _, o := range orders {
		allSteps = append(allSteps, o.Steps...)
	}
	stepByID := match.Index(allSteps, func(p *storage.ProcessStep) int64 { return p.ID })
	orderByID := match.Index(orders, func(o *storage.WorkOrder) int64 { return o.ID })
	assignByStep := match.Index(assignments, func(a *storage.Assignment) int64 { return a.ProcessStepID })

	var items []Item
	for _, iv := range intervals {
		subs, err := b.window.ExpandMultiDay(*iv)
		if err != nil {
			return nil, fmt.Errorf("%s: bloque %s: %w", op, iv.ID, err)
		}

		step := stepByID[iv.ProcessStepID]
		var order *storage.WorkOrder
		if step != nil {
			order = orderByID[step.WorkOrderID]
		}
		assign := assignByStep[iv.ProcessStepID]

		color := b.colorFor(step, mode)
		tooltip := buildTooltip(order, step, assign)

		var percent float64
		if step != nil {
			percent = step.Percent()
		}
		display := percent
		if display > 100 {
			display = 100
		}

		for _, sub := range subs {
			items = append(items, Item{
				ID:             sub.ID,
				GroupID:        fmt.Sprintf("proc-%d", iv.ProcessStepID),
				Start:          sub.Start,
				End:            sub.End,
				Quantity:       sub.Quantity,
				Color:          color,
				Tooltip:        tooltip,
				Percent:        percent,
				DisplayPercent: display,
				FirstSegment:   sub.FirstSegment,
			})
		}
	}
	return items, nil
}

func (b *Builder) colorFor(step *storage.ProcessStep, mode Mode) string {
	if step == nil {
		return constants.DefaultColor
	}
	if mode == ModePlanning {
		if c, ok := constants.StageColors[step.ProcessCode]; ok {
			return c
		}
		return constants.DefaultColor
	}
	if c, ok := constants.StateColors[step.State()]; ok {
		return c
	}
	return constants.DefaultColor
}

func buildTooltip(order *storage.WorkOrder, step *storage.ProcessStep, assign *storage.Assignment) string {
	otCode, otDesc := unknown, unknown
	if order != nil {
		otCode, otDesc = order.Code, order.Description
	}

	procName, machineCode := unknown, unknown
	var percent float64
	if step != nil {
		procName = step.ProcessName
		if step.MachineCode != nil {
			machineCode = *step.MachineCode
		} else {
			machineCode = "sin asignar"
		}
		percent = step.Percent()
	}

	operator := unknown
	if assign != nil {
		operator = assign.Operator.Name
	}

	return fmt.Sprintf("OT %s — %s | %s | máquina: %s | operador: %s | avance: %.1f%%",
		otCode, otDesc, procName, machineCode, operator, percent)
}
