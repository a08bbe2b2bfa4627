package save

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"prod-scheduler/internal/storage"
)

type MockOrderCreator struct {
	mock.Mock
}

func (m *MockOrderCreator) AddOrder(ctx context.Context, product string, quantity int) (storage.Order, error) {
	args := m.Called(ctx, product, quantity)
	return args.Get(0).(storage.Order), args.Error(1)
}

func TestSaveOrder_Success(t *testing.T) {
	created := storage.Order{
		ID:        1746349200000,
		Product:   "Apples",
		Quantity:  150,
		Status:    storage.StatusPending,
		CreatedAt: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC),
	}

	creator := new(MockOrderCreator)
	creator.On("AddOrder", mock.Anything, "Apples", 150).Return(created, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"product":"Apples","quantity":150}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	SaveOrder(slog.Default(), creator).ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var resp Response
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	require.NotNil(t, resp.Order)
	assert.Equal(t, created.ID, resp.Order.ID)
	assert.Equal(t, storage.StatusPending, resp.Order.Status)
	assert.True(t, created.CreatedAt.Equal(resp.Order.CreatedAt))

	creator.AssertExpectations(t)
}

func TestSaveOrder_InvalidJSON(t *testing.T) {
	creator := new(MockOrderCreator)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"product":`))
	rr := httptest.NewRecorder()
	SaveOrder(slog.Default(), creator).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	creator.AssertNotCalled(t, "AddOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveOrder_InvalidOrder(t *testing.T) {
	creator := new(MockOrderCreator)
	creator.On("AddOrder", mock.Anything, "Apples", 0).
		Return(storage.Order{}, fmt.Errorf("planner.AddOrder: %w", storage.ErrInvalidOrder))

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"product":"Apples","quantity":0}`))
	rr := httptest.NewRecorder()
	SaveOrder(slog.Default(), creator).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp Response
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Nil(t, resp.Order)
	assert.Equal(t, "400", resp.Status)
	assert.Contains(t, resp.Error, storage.ErrInvalidOrder.Error())
}
