package get

import (
	"context"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"prod-scheduler/internal/service/allocate"
	"prod-scheduler/internal/storage"
)

// DefaultDays — сколько дней показывает экран плана.
const DefaultDays = 7

type ScheduleProvider interface {
	Schedule(ctx context.Context) (storage.SchedulePlan, []allocate.Skip, error)
}

type Response struct {
	Days    []storage.ScheduleDay `json:"days"`
	Skipped []allocate.Skip       `json:"skipped"`
}

// ParseDays читает ?days=N; 0 — весь план.
func ParseDays(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return DefaultDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		return 0, strconv.ErrSyntax
	}
	return days, nil
}

func NewResponse(plan storage.SchedulePlan, skipped []allocate.Skip, days int) Response {
	if skipped == nil {
		skipped = []allocate.Skip{}
	}
	return Response{Days: plan.Window(days), Skipped: skipped}
}

func GetSchedule(log *slog.Logger, provider ScheduleProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.schedule.GetSchedule"

		days, err := ParseDays(r)
		if err != nil {
			http.Error(w, "invalid days", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		plan, skipped, err := provider.Schedule(ctx)
		if err != nil {
			log.Error("Ошибка получения плана", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, NewResponse(plan, skipped, days))
	}
}
