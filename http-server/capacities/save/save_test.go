package save

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

	"prod-scheduler/internal/service/planner"
	"prod-scheduler/internal/storage"
)

type MockCapacitySaver struct {
	mock.Mock
}

func (m *MockCapacitySaver) AddCapacity(ctx context.Context, capacity storage.ProductCapacity) error {
	args := m.Called(ctx, capacity)
	return args.Error(0)
}

func TestSaveCapacity_Success(t *testing.T) {
	saver := new(MockCapacitySaver)
	saver.On("AddCapacity", mock.Anything, mock.MatchedBy(func(c storage.ProductCapacity) bool {
		return c.Name == "Apples" &&
			c.DailyLimit == 100 &&
			len(c.Materials) == 1 &&
			c.Materials[0].Material == "Boxes" &&
			c.Materials[0].UnitsPerProduct.String() == "0.1"
	})).Return(nil)

	handler := SaveCapacity(slog.Default(), saver)

	reqBody := `{
		"name": "Apples",
		"daily_limit": 100,
		"materials": [{"material": "Boxes", "units_per_product": 0.1}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/capacities", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp Response
	err := render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp)
	assert.NoError(t, err)
	assert.Equal(t, "Apples", resp.Product)
	assert.Empty(t, resp.Error)

	saver.AssertExpectations(t)
}

func TestSaveCapacity_InvalidJSON(t *testing.T) {
	saver := new(MockCapacitySaver)
	handler := SaveCapacity(slog.Default(), saver)

	req := httptest.NewRequest(http.MethodPost, "/api/capacities", strings.NewReader(`{`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	saver.AssertNotCalled(t, "AddCapacity", mock.Anything, mock.Anything)
}

func TestSaveCapacity_Errors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid limit", fmt.Errorf("op: %w", storage.ErrInvalidCapacity), http.StatusBadRequest},
		{"duplicate", fmt.Errorf("op: %w", planner.ErrDuplicateProduct), http.StatusConflict},
		{"storage failure", assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			saver := new(MockCapacitySaver)
			saver.On("AddCapacity", mock.Anything, mock.Anything).Return(tc.err)

			req := httptest.NewRequest(http.MethodPost, "/api/capacities", strings.NewReader(`{"name":"X","daily_limit":0}`))
			rr := httptest.NewRecorder()
			SaveCapacity(slog.Default(), saver).ServeHTTP(rr, req)

			assert.Equal(t, tc.status, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.err.Error())
		})
	}
}
