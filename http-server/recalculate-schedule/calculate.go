package recalculate_schedule

import (
	"context"
	"errors"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"time"

	"prod-scheduler/http-server/schedule/get"
	"prod-scheduler/internal/service/allocate"
	"prod-scheduler/internal/storage"
)

type ScheduleCalculator interface {
	Recalculate(ctx context.Context) (storage.SchedulePlan, []allocate.Skip, error)
}

func RecalculateSchedule(log *slog.Logger, calc ScheduleCalculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.schedule.RecalculateSchedule"

		days, err := get.ParseDays(r)
		if err != nil {
			http.Error(w, "invalid days", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		plan, skipped, err := calc.Recalculate(ctx)
		if err != nil {
			if errors.Is(err, allocate.ErrCapacityUnsatisfiable) || errors.Is(err, allocate.ErrUnknownProduct) {
				log.Warn("Пересчёт плана невозможен", slog.String("op", op), slog.String("error", err.Error()))
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
			log.Error("Failed to recalculate schedule", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		log.Info("План пересчитан", slog.Int("days", len(plan)), slog.Int("skipped", len(skipped)))

		render.JSON(w, r, get.NewResponse(plan, skipped, days))
	}
}
