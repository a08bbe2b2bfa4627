package get

import (
	"context"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"time"

	"prod-scheduler/internal/storage"
)

type CapacitiesProvider interface {
	Capacities(ctx context.Context) ([]storage.ProductCapacity, error)
}

func GetCapacities(log *slog.Logger, provider CapacitiesProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.capacities.GetCapacities"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		capacities, err := provider.Capacities(ctx)
		if err != nil {
			log.Error("failed to get capacities", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		if capacities == nil {
			capacities = []storage.ProductCapacity{}
		}

		render.JSON(w, r, capacities)
	}
}
