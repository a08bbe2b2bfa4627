package generate_excel

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateExcel(ctx context.Context, days int) ([]byte, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func TestGenerateReportExcel(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("GenerateExcel", mock.Anything, 14).Return([]byte("xlsx"), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/report/excel?days=14", nil)
	rr := httptest.NewRecorder()
	GenerateReportExcel(slog.Default(), gen).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "Schedule_")
	assert.Equal(t, "xlsx", rr.Body.String())
	gen.AssertExpectations(t)
}

func TestGenerateReportExcel_DefaultDays(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("GenerateExcel", mock.Anything, 7).Return(nil, assert.AnError)

	req := httptest.NewRequest(http.MethodGet, "/api/report/excel", nil)
	rr := httptest.NewRecorder()
	GenerateReportExcel(slog.Default(), gen).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	gen.AssertExpectations(t)
}
