package complete

import (
	"context"
	"errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"prod-scheduler/internal/service/consumption"
	"prod-scheduler/internal/service/planner"
	"prod-scheduler/internal/storage"
)

type OrderCompleter interface {
	CompleteOrder(ctx context.Context, id int64) (consumption.Completion, error)
}

type Response struct {
	Order     storage.Order           `json:"order"`
	Usage     []storage.MaterialUsage `json:"usage"`
	Unmatched []storage.MaterialUsage `json:"unmatched,omitempty"`
	Status    string                  `json:"status"`
}

func CompleteOrder(log *slog.Logger, completer OrderCompleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.CompleteOrder"

		idStr := chi.URLParam(r, "id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		done, err := completer.CompleteOrder(ctx, id)
		if err != nil {
			switch {
			case errors.Is(err, planner.ErrOrderNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			case errors.Is(err, consumption.ErrAlreadyCompleted):
				http.Error(w, "order already completed", http.StatusConflict)
			default:
				log.Error("Ошибка закрытия заказа", slog.String("op", op), slog.Int64("id", id), slog.String("error", err.Error()))
				http.Error(w, "Internal error", http.StatusInternalServerError)
			}
			return
		}

		log.Info("Заказ выполнен", slog.Int64("id", id), slog.Int("materials", len(done.Usage)))

		render.JSON(w, r, Response{
			Order:     done.Order,
			Usage:     done.Usage,
			Unmatched: done.Unmatched,
			Status:    strconv.Itoa(http.StatusOK),
		})
	}
}
