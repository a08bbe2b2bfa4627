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
	"prod-scheduler/internal/service/planner"
	"prod-scheduler/internal/storage"
)

type CapacitySaver interface {
	AddCapacity(ctx context.Context, capacity storage.ProductCapacity) error
}

type Response struct {
	Product string `json:"product,omitempty"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

func SaveCapacity(log *slog.Logger, saver CapacitySaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.capacities.SaveCapacity"

		var req storage.ProductCapacity
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err := saver.AddCapacity(ctx, req)
		if err != nil {
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, storage.ErrInvalidCapacity):
				status = http.StatusBadRequest
			case errors.Is(err, planner.ErrDuplicateProduct):
				status = http.StatusConflict
			case errors.Is(err, allocate.ErrCapacityUnsatisfiable), errors.Is(err, allocate.ErrUnknownProduct):
				status = http.StatusUnprocessableEntity
			}

			log.Error("Ошибка сохранения мощности изделия", slog.String("op", op), slog.String("error", err.Error()))
			render.Status(r, status)
			render.JSON(w, r, Response{Status: strconv.Itoa(status), Error: err.Error()})
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{
			Product: req.Name,
			Status:  strconv.Itoa(http.StatusCreated),
		})
	}
}
