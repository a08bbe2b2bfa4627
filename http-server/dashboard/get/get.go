package get

import (
	"context"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"time"

	"prod-scheduler/internal/service/planner"
)

type DashboardProvider interface {
	Dashboard(ctx context.Context) (planner.Dashboard, error)
}

func GetDashboard(log *slog.Logger, provider DashboardProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.dashboard.GetDashboard"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		d, err := provider.Dashboard(ctx)
		if err != nil {
			log.Error("Ошибка получения дашборда", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, d)
	}
}
