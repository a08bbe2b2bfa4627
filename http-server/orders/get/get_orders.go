package get

import (
	"context"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"time"

	"prod-scheduler/internal/storage"
)

type OrdersProvider interface {
	Orders(ctx context.Context) ([]storage.Order, error)
}

// GetOrders отдаёт все заказы, ?status=pending|completed фильтрует по статусу.
func GetOrders(log *slog.Logger, provider OrdersProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.orders.GetOrders"

		status := storage.OrderStatus(r.URL.Query().Get("status"))
		if status != "" && status != storage.StatusPending && status != storage.StatusCompleted {
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		orders, err := provider.Orders(ctx)
		if err != nil {
			log.Error("Ошибка получения заказов", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		result := make([]storage.Order, 0, len(orders))
		for _, o := range orders {
			if status == "" || o.Status == status {
				result = append(result, o)
			}
		}

		render.JSON(w, r, result)
	}
}
