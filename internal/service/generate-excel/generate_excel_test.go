package generate_excel

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gantt-golang/internal/storage"
)

type MockReportStorage struct {
	mock.Mock
}

func (m *MockReportStorage) GetSnapshotByDate(ctx context.Context, programID int64, date time.Time) (*storage.Snapshot, error) {
	args := m.Called(ctx, programID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Snapshot), args.Error(1)
}

func TestGenerateEvolutionExcel(t *testing.T) {
	desde := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	hasta := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

	snapA := &storage.Snapshot{
		Date: desde, TotalAdvanced: 200, PercentAdvanced: 20,
		WorkOrders: []*storage.WorkOrder{
			{Code: "OT-100", QuantityTotal: 1000, QuantityAdvanced: 200},
		},
	}
	snapB := &storage.Snapshot{
		Date: hasta, TotalAdvanced: 450, PercentAdvanced: 45,
		WorkOrders: []*storage.WorkOrder{
			{Code: "OT-100", QuantityTotal: 1000, QuantityAdvanced: 450},
			{Code: "OT-200", QuantityTotal: 300, QuantityAdvanced: 30},
		},
	}

	st := new(MockReportStorage)
	st.On("GetSnapshotByDate", mock.Anything, int64(1), desde).Return(snapA, nil)
	st.On("GetSnapshotByDate", mock.Anything, int64(1), hasta).Return(snapB, nil)

	data, err := NewReportService(st).GenerateEvolutionExcel(context.Background(), 1, desde, hasta)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetCellValue("Evolución", "A8")
	require.NoError(t, err)
	assert.Equal(t, "OT-100", got)

	diff, err := f.GetCellValue("Evolución", "D8")
	require.NoError(t, err)
	assert.Equal(t, "250", diff)

	nueva, err := f.GetCellValue("Evolución", "A9")
	require.NoError(t, err)
	assert.Equal(t, "OT-200", nueva)
}
