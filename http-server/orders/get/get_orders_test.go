package get

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"prod-scheduler/internal/storage"
)

type MockOrdersProvider struct {
	mock.Mock
}

func (m *MockOrdersProvider) Orders(ctx context.Context) ([]storage.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.Order), args.Error(1)
}

func TestGetOrders_FilterByStatus(t *testing.T) {
	provider := new(MockOrdersProvider)
	provider.On("Orders", mock.Anything).Return([]storage.Order{
		{ID: 1, Product: "Apples", Quantity: 10, Status: storage.StatusPending},
		{ID: 2, Product: "Apples", Quantity: 20, Status: storage.StatusCompleted},
		{ID: 3, Product: "Pears", Quantity: 30, Status: storage.StatusPending},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/orders?status=pending", nil)
	rr := httptest.NewRecorder()
	GetOrders(slog.Default(), provider).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var orders []storage.Order
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &orders))
	require.Len(t, orders, 2)
	assert.Equal(t, int64(1), orders[0].ID)
	assert.Equal(t, int64(3), orders[1].ID)
}

func TestGetOrders_EmptyListIsArray(t *testing.T) {
	provider := new(MockOrdersProvider)
	provider.On("Orders", mock.Anything).Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rr := httptest.NewRecorder()
	GetOrders(slog.Default(), provider).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestGetOrders_InvalidStatus(t *testing.T) {
	provider := new(MockOrdersProvider)

	req := httptest.NewRequest(http.MethodGet, "/api/orders?status=cancelled", nil)
	rr := httptest.NewRecorder()
	GetOrders(slog.Default(), provider).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	provider.AssertNotCalled(t, "Orders", mock.Anything)
}

func TestGetOrders_ProviderError(t *testing.T) {
	provider := new(MockOrdersProvider)
	provider.On("Orders", mock.Anything).Return(nil, assert.AnError)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rr := httptest.NewRecorder()
	GetOrders(slog.Default(), provider).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Internal error")
}
