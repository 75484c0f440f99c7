package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gantt-golang/internal/service/standards"
	"gantt-golang/internal/storage"
)

type MockStandardStorage struct {
	mock.Mock
}

func (m *MockStandardStorage) GetCompatibleMachines(ctx context.Context, processID int64, subjectType string, subjectID int64) ([]*storage.Machine, error) {
	args := m.Called(ctx, processID, subjectType, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.Machine), args.Error(1)
}

func (m *MockStandardStorage) GetStandards(ctx context.Context, processID int64, subjectType string, subjectID int64) ([]*storage.Standard, error) {
	args := m.Called(ctx, processID, subjectType, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.Standard), args.Error(1)
}

func (m *MockStandardStorage) SaveStandard(ctx context.Context, routeID, machineID int64, rate float64, isPrincipal bool) error {
	args := m.Called(ctx, routeID, machineID, rate, isPrincipal)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestUpdateStandard_Success(t *testing.T) {
	st := new(MockStandardStorage)
	st.On("SaveStandard", mock.Anything, int64(5), int64(1), 130.0, true).Return(nil)

	handler := UpdateStandard(testLogger(), standards.NewResolver(st))

	body := `{"ruta_id":5,"proceso_id":10,"maquina_id":1,"estandar":130,"es_principal":true}`
	req := httptest.NewRequest(http.MethodPut, "/api/standards/update", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	st.AssertExpectations(t)
}

func TestUpdateStandard_NegativeRateRejected(t *testing.T) {
	st := new(MockStandardStorage)
	handler := UpdateStandard(testLogger(), standards.NewResolver(st))

	body := `{"ruta_id":5,"proceso_id":10,"maquina_id":1,"estandar":-3}`
	req := httptest.NewRequest(http.MethodPut, "/api/standards/update", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "estandar")

	st.AssertNotCalled(t, "SaveStandard", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStandard_BadJSON(t *testing.T) {
	st := new(MockStandardStorage)
	handler := UpdateStandard(testLogger(), standards.NewResolver(st))

	req := httptest.NewRequest(http.MethodPut, "/api/standards/update", strings.NewReader("{no es json"))
	rec := httptest.NewRecorder()

	handler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
