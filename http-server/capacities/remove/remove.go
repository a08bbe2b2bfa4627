package remove

import (
	"context"
	"errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"prod-scheduler/internal/service/planner"
)

type CapacityRemover interface {
	RemoveCapacity(ctx context.Context, name string) error
}

func RemoveCapacity(log *slog.Logger, remover CapacityRemover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.capacities.RemoveCapacity"

		// chi матчит по RawPath, если он есть, тогда параметр ещё закодирован
		name := chi.URLParam(r, "name")
		var err error
		if r.URL.RawPath != "" {
			name, err = url.PathUnescape(name)
		}
		if err != nil || name == "" {
			http.Error(w, "product name is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err = remover.RemoveCapacity(ctx, name)
		if err != nil {
			if errors.Is(err, planner.ErrProductNotFound) {
				http.Error(w, "product not found", http.StatusNotFound)
				return
			}
			log.Error("Ошибка удаления изделия", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		log.Info("Изделие удалено", slog.String("product", name))

		render.JSON(w, r, map[string]interface{}{
			"status":  strconv.Itoa(http.StatusOK),
			"product": name,
		})
	}
}
