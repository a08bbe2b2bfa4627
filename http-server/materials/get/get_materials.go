package get

import (
	"context"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"time"

	"prod-scheduler/internal/storage"
)

type MaterialsProvider interface {
	Materials(ctx context.Context) ([]storage.MaterialStock, error)
}

func GetMaterials(log *slog.Logger, provider MaterialsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.materials.GetMaterials"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		materials, err := provider.Materials(ctx)
		if err != nil {
			log.Error("Ошибка получения материалов", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		if materials == nil {
			materials = []storage.MaterialStock{}
		}

		render.JSON(w, r, materials)
	}
}
