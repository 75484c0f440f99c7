// Package snapshot compara el programa entre dos puntos en el tiempo:
// estado vivo contra planificación base, o dos fotos históricas.
package snapshot

import (
	"time"

	"gantt-golang/internal/match"
	"gantt-golang/internal/storage"
)

type Delta struct {
	Before float64 `json:"antes"`
	After  float64 `json:"despues"`
	Diff   float64 `json:"diferencia"`
}

func delta(before, after float64) Delta {
	return Delta{Before: before, After: after, Diff: after - before}
}

type ProcessStepDelta struct {
	ProcessCode  string               `json:"codigo_proceso"`
	Stage        int                  `json:"etapa"`
	NotFound     bool                 `json:"no_encontrado"`
	Completed    Delta                `json:"cantidad_buena"`
	StateChanged bool                 `json:"cambio_estado"`
	StateBefore  storage.ProcessState `json:"estado_antes,omitempty"`
	StateAfter   storage.ProcessState `json:"estado_despues,omitempty"`
}

type WorkOrderDelta struct {
	Code      string             `json:"codigo_ot"`
	NotFound  bool               `json:"no_encontrada"`
	Quantity  Delta              `json:"cantidad_avance"`
	Percent   Delta              `json:"porcentaje_avance"`
	Processes []ProcessStepDelta `json:"procesos,omitempty"`
}

// Los ids internos no son estables entre un export y una consulta viva, así
// que los procesos se cruzan por clave de negocio: tipo de proceso + etapa.
type stepKey struct {
	Code  string
	Stage int
}

func keyOf(p *storage.ProcessStep) stepKey {
	return stepKey{Code: p.ProcessCode, Stage: p.Stage}
}

// DiffProcessStep compara un proceso contra su par. Sin par → NotFound y
// nada más. StateChanged es true ante cualquier cambio de estado, sin
// importar la dirección; los estados literales van para pantalla.
func DiffProcessStep(before, after *storage.ProcessStep) ProcessStepDelta {
	d := ProcessStepDelta{ProcessCode: before.ProcessCode, Stage: before.Stage}
	if after == nil {
		d.NotFound = true
		return d
	}

	d.Completed = delta(before.QuantityDone, after.QuantityDone)
	d.StateBefore = before.State()
	d.StateAfter = after.State()
	d.StateChanged = d.StateBefore != d.StateAfter
	return d
}

// DiffWorkOrder compara dos OT emparejadas por código. Sin par → NotFound y
// no se emite ningún otro campo. Los procesos se recorren en orden canónico
// de ruta, el mismo del Gantt.
func DiffWorkOrder(before, after *storage.WorkOrder) WorkOrderDelta {
	d := WorkOrderDelta{Code: before.Code}
	if after == nil {
		d.NotFound = true
		return d
	}

	d.Quantity = delta(before.QuantityAdvanced, after.QuantityAdvanced)
	d.Percent = delta(before.PercentAdvanced(), after.PercentAdvanced())

	afterSteps := match.Index(after.Steps, keyOf)
	beforeSteps := append([]*storage.ProcessStep(nil), before.Steps...)
	storage.SortSteps(beforeSteps)

	for _, p := range beforeSteps {
		d.Processes = append(d.Processes, DiffProcessStep(p, afterSteps[keyOf(p)]))
	}
	return d
}

// DiffAll compara dos colecciones de OT por código. Las OT que solo existen
// en after salen en la lista aparte de nuevas; jamás se botan ni se fuerzan
// a la estructura de delta, que asume ancla en before.
func DiffAll(before, after []*storage.WorkOrder) ([]WorkOrderDelta, []*storage.WorkOrder) {
	code := func(o *storage.WorkOrder) string { return o.Code }
	afterByCode := match.Index(after, code)
	beforeByCode := match.Index(before, code)

	deltas := make([]WorkOrderDelta, 0, len(before))
	for _, o := range before {
		deltas = append(deltas, DiffWorkOrder(o, afterByCode[o.Code]))
	}

	nuevas := match.Missing(after, beforeByCode, code)
	return deltas, nuevas
}

type PeriodEvolution struct {
	From                 time.Time `json:"desde"`
	To                   time.Time `json:"hasta"`
	Swapped              bool      `json:"orden_invertido"`
	AdvancedDelta        float64   `json:"delta_avance"`
	PercentPointDelta    float64   `json:"delta_puntos_porcentaje"`
	ValueDelta           float64   `json:"delta_valor"`
	CompletedTransitions int       `json:"ot_completadas"`
}

// AggregatePeriod resume la evolución entre dos fotos. Si llegan al revés
// (a posterior a b) se intercambian en vez de producir un reporte negativo
// sin sentido, y queda marcado en Swapped.
func AggregatePeriod(a, b *storage.Snapshot) PeriodEvolution {
	swapped := false
	if a.Date.After(b.Date) {
		a, b = b, a
		swapped = true
	}

	ev := PeriodEvolution{
		From:              a.Date,
		To:                b.Date,
		Swapped:           swapped,
		AdvancedDelta:     b.TotalAdvanced - a.TotalAdvanced,
		PercentPointDelta: b.PercentAdvanced - a.PercentAdvanced,
		ValueDelta:        b.ValueProduced - a.ValueProduced,
	}

	orderCompleted := func(o *storage.WorkOrder) bool {
		return storage.DeriveState(o.QuantityAdvanced, o.QuantityTotal, false) == storage.StateCompleted
	}
	afterByCode := match.Index(b.WorkOrders, func(o *storage.WorkOrder) string { return o.Code })
	for _, o := range a.WorkOrders {
		pair, ok := afterByCode[o.Code]
		if ok && !orderCompleted(o) && orderCompleted(pair) {
			ev.CompletedTransitions++
		}
	}
	return ev
}
