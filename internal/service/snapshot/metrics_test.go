package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gantt-golang/internal/storage"
)

func TestBuildMetrics(t *testing.T) {
	ot1 := &storage.WorkOrder{
		Code: "OT-100", QuantityTotal: 1000, QuantityAdvanced: 400,
		UnitValue: 10, UnitWeight: 2,
		Steps: []*storage.ProcessStep{
			{ProcessCode: "URD", Stage: 1, QuantityTotal: 1000, QuantityDone: 1000},
			{ProcessCode: "TEJ", Stage: 2, QuantityTotal: 1000, QuantityDone: 400},
		},
	}
	ot2 := &storage.WorkOrder{
		Code: "OT-101", QuantityTotal: 500, QuantityAdvanced: 0,
		UnitValue: 20, UnitWeight: 1,
		Steps: []*storage.ProcessStep{
			{ProcessCode: "URD", Stage: 1, QuantityTotal: 500, QuantityDone: 0, Stopped: true},
		},
	}

	date := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	s := Build(date, []*storage.WorkOrder{ot1, ot2}, "cierre normal", true)

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, date, s.Date)
	assert.Equal(t, 2, s.TotalWorkOrders)
	assert.Equal(t, 400.0, s.TotalAdvanced)
	assert.InDelta(t, 400.0/1500.0*100, s.PercentAdvanced, 0.001)
	assert.Equal(t, 4000.0, s.ValueProduced)
	assert.Equal(t, 800.0, s.WeightProduced)
	assert.InDelta(t, 1400.0/2500.0*100, s.Efficiency, 0.001)

	assert.Equal(t, 1, s.StateCounts[storage.StateCompleted])
	assert.Equal(t, 1, s.StateCounts[storage.StateInProgress])
	assert.Equal(t, 1, s.StateCounts[storage.StateStopped])
	assert.True(t, s.ImportPerformed)
	assert.Equal(t, "cierre normal", s.Notes)
}

func TestBuildEmptyProgram(t *testing.T) {
	s := Build(time.Now(), nil, "", false)

	assert.Equal(t, 0, s.TotalWorkOrders)
	assert.Equal(t, 0.0, s.PercentAdvanced)
	assert.Equal(t, 0.0, s.Efficiency)
}
