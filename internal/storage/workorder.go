package storage

import (
	"cmp"
	"slices"
)

// Estados de un proceso de ruta. Los valores viajan tal cual al frontend.
type ProcessState string

const (
	StatePending    ProcessState = "PENDIENTE"
	StateInProgress ProcessState = "EN_PROCESO"
	StateCompleted  ProcessState = "COMPLETADO"
	StateStopped    ProcessState = "DETENIDO"
)

// DeriveState es la única fuente de verdad del estado de un proceso.
// Un DETENIDO marcado por el operador gana sobre lo derivado por cantidades.
func DeriveState(completed, total float64, stopped bool) ProcessState {
	if stopped {
		return StateStopped
	}
	switch {
	case completed <= 0:
		return StatePending
	case total > 0 && completed >= total:
		return StateCompleted
	default:
		return StateInProgress
	}
}

type WorkOrder struct {
	ID               int64          `json:"id"`
	Code             string         `json:"codigo_ot"`
	Description      string         `json:"descripcion"`
	Priority         int            `json:"prioridad"`
	QuantityTotal    float64        `json:"cantidad_total"`
	QuantityAdvanced float64        `json:"cantidad_avance"`
	UnitWeight       float64        `json:"peso_unitario"`
	UnitValue        float64        `json:"valor_unitario"`
	Steps            []*ProcessStep `json:"procesos"`
}

// PercentAdvanced no se recorta en 100: un avance sobre el total se reporta
// tal cual, el recorte es asunto de la capa de presentación.
func (o *WorkOrder) PercentAdvanced() float64 {
	if o.QuantityTotal <= 0 {
		return 0
	}
	return o.QuantityAdvanced / o.QuantityTotal * 100
}

type ProcessStep struct {
	ID            int64   `json:"id"`
	WorkOrderID   int64   `json:"ot_id"`
	WorkOrderCode string  `json:"codigo_ot"`
	Stage         int     `json:"etapa"`
	ProcessCode   string  `json:"codigo_proceso"`
	ProcessName   string  `json:"nombre_proceso"`
	MachineID     *int64  `json:"maquina_id"`
	MachineCode   *string `json:"codigo_maquina"`
	Rate          float64 `json:"estandar"` // unidades/hora, 0 = sin definir
	QuantityTotal float64 `json:"cantidad_total"`
	QuantityDone  float64 `json:"cantidad_buena"`
	Stopped       bool    `json:"detenido"`
}

// SortSteps deja la ruta en orden canónico: por etapa, empates por id.
// Este mismo orden se usa en el Gantt y al comparar snapshots.
func SortSteps(steps []*ProcessStep) {
	slices.SortFunc(steps, func(a, b *ProcessStep) int {
		if c := cmp.Compare(a.Stage, b.Stage); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func (p *ProcessStep) State() ProcessState {
	return DeriveState(p.QuantityDone, p.QuantityTotal, p.Stopped)
}

func (p *ProcessStep) Percent() float64 {
	if p.QuantityTotal <= 0 {
		return 0
	}
	return p.QuantityDone / p.QuantityTotal * 100
}
