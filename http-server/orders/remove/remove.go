package remove

import (
	"context"
	"errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"prod-scheduler/internal/service/planner"
)

type OrderRemover interface {
	DeleteOrder(ctx context.Context, id int64) error
}

func RemoveOrder(log *slog.Logger, remover OrderRemover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.RemoveOrder"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := remover.DeleteOrder(ctx, id); err != nil {
			if errors.Is(err, planner.ErrOrderNotFound) {
				http.Error(w, "order not found", http.StatusNotFound)
				return
			}
			log.Error("Ошибка удаления заказа", slog.String("op", op), slog.Int64("id", id), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]interface{}{
			"status":   strconv.Itoa(http.StatusOK),
			"order_id": id,
		})
	}
}
