package snapshot

import (
	"time"

	"github.com/google/uuid"

	"gantt-golang/internal/storage"
)

// Build materializa la foto del programa con sus métricas agregadas.
// Eficiencia = cantidad buena acumulada de todos los procesos sobre su total
// programado, en porcentaje y sin recorte.
func Build(date time.Time, orders []*storage.WorkOrder, notes string, imported bool) *storage.Snapshot {
	s := &storage.Snapshot{
		ID:              uuid.NewString(),
		Date:            date,
		TotalWorkOrders: len(orders),
		StateCounts:     make(map[storage.ProcessState]int),
		Notes:           notes,
		ImportPerformed: imported,
		WorkOrders:      orders,
	}

	var totalQty, stepDone, stepTotal float64
	for _, o := range orders {
		s.TotalAdvanced += o.QuantityAdvanced
		s.ValueProduced += o.QuantityAdvanced * o.UnitValue
		s.WeightProduced += o.QuantityAdvanced * o.UnitWeight
		totalQty += o.QuantityTotal

		for _, p := range o.Steps {
			s.StateCounts[p.State()]++
			stepDone += p.QuantityDone
			stepTotal += p.QuantityTotal
		}
	}

	if totalQty > 0 {
		s.PercentAdvanced = s.TotalAdvanced / totalQty * 100
	}
	if stepTotal > 0 {
		s.Efficiency = stepDone / stepTotal * 100
	}
	return s
}
