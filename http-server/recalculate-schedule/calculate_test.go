package recalculate_schedule

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"prod-scheduler/http-server/schedule/get"
	"prod-scheduler/internal/service/allocate"
	"prod-scheduler/internal/storage"
)

type MockCalculator struct {
	mock.Mock
}

func (m *MockCalculator) Recalculate(ctx context.Context) (storage.SchedulePlan, []allocate.Skip, error) {
	args := m.Called(ctx)
	var plan storage.SchedulePlan
	if args.Get(0) != nil {
		plan = args.Get(0).(storage.SchedulePlan)
	}
	return plan, nil, args.Error(2)
}

func TestRecalculateSchedule_Success(t *testing.T) {
	mockCalc := new(MockCalculator)
	mockCalc.On("Recalculate", mock.Anything).Return(storage.SchedulePlan{
		"2026-05-05": {{Product: "Apples", Allocated: 50, Capacity: 100}},
		"2026-05-04": {{Product: "Apples", Allocated: 100, Capacity: 100}},
	}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/schedule/recalculate", nil)
	rr := httptest.NewRecorder()
	RecalculateSchedule(slog.Default(), mockCalc).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp get.Response
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	require.Len(t, resp.Days, 2)
	assert.Equal(t, "2026-05-04", resp.Days[0].Date)
	assert.Empty(t, resp.Skipped)

	mockCalc.AssertExpectations(t)
}

func TestRecalculateSchedule_Unsatisfiable(t *testing.T) {
	mockCalc := new(MockCalculator)
	mockCalc.On("Recalculate", mock.Anything).
		Return(nil, nil, fmt.Errorf("allocate.Allocate: order 7: %w", allocate.ErrCapacityUnsatisfiable))

	req := httptest.NewRequest(http.MethodPost, "/api/schedule/recalculate", nil)
	rr := httptest.NewRecorder()
	RecalculateSchedule(slog.Default(), mockCalc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestRecalculateSchedule_InvalidDays(t *testing.T) {
	mockCalc := new(MockCalculator)

	req := httptest.NewRequest(http.MethodPost, "/api/schedule/recalculate?days=x", nil)
	rr := httptest.NewRecorder()
	RecalculateSchedule(slog.Default(), mockCalc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockCalc.AssertNotCalled(t, "Recalculate", mock.Anything)
}
