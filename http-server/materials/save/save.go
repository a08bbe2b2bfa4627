package save

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"prod-scheduler/internal/service/planner"
	"prod-scheduler/internal/storage"
)

type MaterialSaver interface {
	AddMaterial(ctx context.Context, material storage.MaterialStock) error
}

type Response struct {
	Material string `json:"material,omitempty"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

func SaveMaterial(log *slog.Logger, saver MaterialSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.materials.SaveMaterial"

		var req storage.MaterialStock
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			http.Error(w, "material name is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err := saver.AddMaterial(ctx, req)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, planner.ErrDuplicateMaterial) {
				status = http.StatusConflict
			}

			log.Error("Ошибка сохранения материала", slog.String("op", op), slog.String("error", err.Error()))
			render.Status(r, status)
			render.JSON(w, r, Response{Status: strconv.Itoa(status), Error: err.Error()})
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{
			Material: req.Name,
			Status:   strconv.Itoa(http.StatusCreated),
		})
	}
}
