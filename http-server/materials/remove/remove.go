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

type MaterialRemover interface {
	RemoveMaterial(ctx context.Context, name string) error
}

func RemoveMaterial(log *slog.Logger, remover MaterialRemover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.materials.RemoveMaterial"

		// chi матчит по RawPath, если он есть, тогда параметр ещё закодирован
		name := chi.URLParam(r, "name")
		var err error
		if r.URL.RawPath != "" {
			name, err = url.PathUnescape(name)
		}
		if err != nil || name == "" {
			http.Error(w, "material name is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err = remover.RemoveMaterial(ctx, name)
		if err != nil {
			if errors.Is(err, planner.ErrMaterialNotFound) {
				http.Error(w, "material not found", http.StatusNotFound)
				return
			}
			log.Error("Ошибка удаления материала", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]interface{}{
			"status":   strconv.Itoa(http.StatusOK),
			"material": name,
		})
	}
}
