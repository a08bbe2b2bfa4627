package save

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"prod-scheduler/internal/service/allocate"
	"prod-scheduler/internal/storage"
)

type OrderCreator interface {
	AddOrder(ctx context.Context, product string, quantity int) (storage.Order, error)
}

type Request struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

type Response struct {
	Order  *storage.Order `json:"order,omitempty"`
	Status string         `json:"status"`
	Error  string         `json:"error,omitempty"`
}

func SaveOrder(log *slog.Logger, creator OrderCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.SaveOrder"

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		order, err := creator.AddOrder(ctx, req.Product, req.Quantity)
		if err != nil {
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, storage.ErrInvalidOrder):
				status = http.StatusBadRequest
			case errors.Is(err, allocate.ErrCapacityUnsatisfiable), errors.Is(err, allocate.ErrUnknownProduct):
				status = http.StatusUnprocessableEntity
			}

			log.Error("Ошибка создания заказа", slog.String("op", op), slog.String("error", err.Error()))
			render.Status(r, status)
			render.JSON(w, r, Response{Status: strconv.Itoa(status), Error: err.Error()})
			return
		}

		log.Info("Заказ создан", slog.Int64("id", order.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{
			Order:  &order,
			Status: strconv.Itoa(http.StatusCreated),
		})
	}
}
