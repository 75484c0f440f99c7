package timeline

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gantt-golang/internal/constants"
	"gantt-golang/internal/service/calendar"
	"gantt-golang/internal/storage"
)

func machineCode(c string) *string { return &c }

func testOrders() []*storage.WorkOrder {
	ot := &storage.WorkOrder{
		ID:               1,
		Code:             "OT-100",
		Description:      "Frazada 1.5 plazas",
		QuantityTotal:    1000,
		QuantityAdvanced: 450,
	}
	ot.Steps = []*storage.ProcessStep{
		{ID: 21, WorkOrderID: 1, WorkOrderCode: "OT-100", Stage: 2, ProcessCode: "TEJ", ProcessName: "Tejido",
			MachineCode: machineCode("TELAR-01"), QuantityTotal: 1000, QuantityDone: 450},
		{ID: 20, WorkOrderID: 1, WorkOrderCode: "OT-100", Stage: 1, ProcessCode: "URD", ProcessName: "Urdido",
			QuantityTotal: 1000, QuantityDone: 1000},
		{ID: 22, WorkOrderID: 1, WorkOrderCode: "OT-100", Stage: 2, ProcessCode: "REV", ProcessName: "Revisado",
			QuantityTotal: 1000, QuantityDone: 0},
	}
	return []*storage.WorkOrder{ot}
}

func TestBuildGroupsOrdering(t *testing.T) {
	b := NewBuilder(calendar.MustDefault())
	groups := b.BuildGroups(testOrders())

	require.Len(t, groups, 4)
	assert.Equal(t, "ot-1", groups[0].ID)
	assert.Empty(t, groups[0].ParentID)

	// procesos por etapa, empate de etapa 2 resuelto por id (21 antes que 22)
	assert.Equal(t, "proc-20", groups[1].ID)
	assert.Equal(t, "proc-21", groups[2].ID)
	assert.Equal(t, "proc-22", groups[3].ID)

	for _, g := range groups[1:] {
		assert.Equal(t, "ot-1", g.ParentID)
		assert.Equal(t, 1, g.TreeLevel)
	}
}

func TestBuildItemsExecutionColors(t *testing.T) {
	b := NewBuilder(calendar.MustDefault())
	start := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	intervals := []*storage.ScheduleInterval{
		{ID: "i-20", ProcessStepID: 20, Start: start, End: start.Add(4 * time.Hour), Quantity: 400},
		{ID: "i-21", ProcessStepID: 21, Start: start, End: start.Add(4 * time.Hour), Quantity: 400},
		{ID: "i-22", ProcessStepID: 22, Start: start, End: start.Add(4 * time.Hour), Quantity: 400},
	}

	items, err := b.BuildItems(intervals, ModeExecution, testOrders(), nil)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, constants.StateColors[storage.StateCompleted], items[0].Color)
	assert.Equal(t, constants.StateColors[storage.StateInProgress], items[1].Color)
	assert.Equal(t, constants.StateColors[storage.StatePending], items[2].Color)
}

func TestBuildItemsPlanningColors(t *testing.T) {
	b := NewBuilder(calendar.MustDefault())
	start := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	intervals := []*storage.ScheduleInterval{
		{ID: "i-20", ProcessStepID: 20, Start: start, End: start.Add(time.Hour), Quantity: 100},
	}

	items, err := b.BuildItems(intervals, ModePlanning, testOrders(), nil)
	require.NoError(t, err)
	assert.Equal(t, constants.StageColors["URD"], items[0].Color)
}

func TestBuildItemsUnknownReferenceStillEmitted(t *testing.T) {
	b := NewBuilder(calendar.MustDefault())
	start := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	// proceso 999 no existe en los datos entregados
	intervals := []*storage.ScheduleInterval{
		{ID: "i-x", ProcessStepID: 999, Start: start, End: start.Add(time.Hour), Quantity: 50},
	}

	items, err := b.BuildItems(intervals, ModeExecution, testOrders(), nil)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, constants.DefaultColor, items[0].Color)
	assert.Contains(t, items[0].Tooltip, "desconocido")
	assert.Equal(t, "proc-999", items[0].GroupID)
}

func TestBuildItemsOverHundredPercentSurfaced(t *testing.T) {
	b := NewBuilder(calendar.MustDefault())
	orders := testOrders()
	orders[0].Steps[1].QuantityDone = 1100 // etapa 1, 110%

	start := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	intervals := []*storage.ScheduleInterval{
		{ID: "i-20", ProcessStepID: 20, Start: start, End: start.Add(time.Hour), Quantity: 100},
	}

	items, err := b.BuildItems(intervals, ModeExecution, orders, nil)
	require.NoError(t, err)

	assert.InDelta(t, 110.0, items[0].Percent, 0.001)
	assert.Equal(t, 100.0, items[0].DisplayPercent)
}

func TestBuildItemsMultiDayExpansion(t *testing.T) {
	b := NewBuilder(calendar.MustDefault())
	start := time.Date(2026, time.March, 10, 14, 45, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 11, 10, 45, 0, 0, time.UTC)

	intervals := []*storage.ScheduleInterval{
		{ID: "i-21", ProcessStepID: 21, Start: start, End: end, Quantity: 600},
	}

	items, err := b.BuildItems(intervals, ModeExecution, testOrders(), nil)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "i-21-0", items[0].ID)
	assert.True(t, items[0].FirstSegment)
	assert.Equal(t, "i-21-1", items[1].ID)
	assert.False(t, items[1].FirstSegment)
	assert.InDelta(t, 600.0, items[0].Quantity+items[1].Quantity, 1e-9)
}

func TestBuildItemsTooltipOperator(t *testing.T) {
	b := NewBuilder(calendar.MustDefault())
	start := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	intervals := []*storage.ScheduleInterval{
		{ID: "i-21", ProcessStepID: 21, Start: start, End: start.Add(time.Hour), Quantity: 100},
	}
	assigns := []*storage.Assignment{
		{ProcessStepID: 21, Operator: storage.Operator{ID: 4, Name: "R. Soto", NationalID: "12.345.678-9"}, Start: start, End: start.Add(8 * time.Hour)},
	}

	items, err := b.BuildItems(intervals, ModeExecution, testOrders(), assigns)
	require.NoError(t, err)

	tip := items[0].Tooltip
	assert.True(t, strings.Contains(tip, "OT-100"))
	assert.True(t, strings.Contains(tip, "TELAR-01"))
	assert.True(t, strings.Contains(tip, "R. Soto"))
	assert.True(t, strings.Contains(tip, "45.0%"))
}
