package main

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	getcapacities "prod-scheduler/http-server/capacities/get"
	removecapacity "prod-scheduler/http-server/capacities/remove"
	savecapacity "prod-scheduler/http-server/capacities/save"
	getdashboard "prod-scheduler/http-server/dashboard/get"
	generate_excel "prod-scheduler/http-server/generate-report/generate-excel"
	getmaterials "prod-scheduler/http-server/materials/get"
	removematerial "prod-scheduler/http-server/materials/remove"
	savematerial "prod-scheduler/http-server/materials/save"
	"prod-scheduler/http-server/orders/complete"
	getorders "prod-scheduler/http-server/orders/get"
	removeorder "prod-scheduler/http-server/orders/remove"
	saveorder "prod-scheduler/http-server/orders/save"
	recalculate_schedule "prod-scheduler/http-server/recalculate-schedule"
	getschedule "prod-scheduler/http-server/schedule/get"
	"prod-scheduler/internal/config"
	generate_excel2 "prod-scheduler/internal/service/generate-excel"
	"prod-scheduler/internal/service/planner"
)

func routes(cfg config.Config, log *slog.Logger, scheduler *planner.Planner, genService *generate_excel2.GenerateExcelService) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins, // фронтенд
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	//ip пользователя
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Мощности изделий
	router.Get("/api/capacities", getcapacities.GetCapacities(log, scheduler))
	router.Post("/api/capacities", savecapacity.SaveCapacity(log, scheduler))
	router.Delete("/api/capacities/{name}", removecapacity.RemoveCapacity(log, scheduler))

	// Склад материалов
	router.Get("/api/materials", getmaterials.GetMaterials(log, scheduler))
	router.Post("/api/materials", savematerial.SaveMaterial(log, scheduler))
	router.Delete("/api/materials/{name}", removematerial.RemoveMaterial(log, scheduler))

	// Заказы
	router.Get("/api/orders", getorders.GetOrders(log, scheduler))
	router.Post("/api/orders", saveorder.SaveOrder(log, scheduler))
	router.Post("/api/orders/{id}/complete", complete.CompleteOrder(log, scheduler))
	router.Delete("/api/orders/{id}", removeorder.RemoveOrder(log, scheduler))

	// План
	router.Get("/api/schedule", getschedule.GetSchedule(log, scheduler))
	router.Post("/api/schedule/recalculate", recalculate_schedule.RecalculateSchedule(log, scheduler))
	router.Get("/api/dashboard", getdashboard.GetDashboard(log, scheduler))

	router.Get("/api/report/excel", generate_excel.GenerateReportExcel(log, genService))

	// Статика, vue. Без сборки фронта работает только API.
	frontendDir := cfg.FrontendDir
	if _, err := os.Stat(frontendDir); os.IsNotExist(err) {
		log.Warn("Папка фронтенда не найдена", "path", frontendDir)
		return router
	}

	fileServer := http.StripPrefix("/", http.FileServer(http.Dir(frontendDir)))

	router.Handle("/assets/*", fileServer)
	router.Handle("/js/*", fileServer)
	router.Handle("/css/*", fileServer)
	router.Handle("/img/*", fileServer)

	//SPA fallback: любой другой путь → index.html
	router.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(frontendDir, r.URL.Path)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
		http.ServeFile(w, r, filepath.Join(frontendDir, "index.html"))
	})

	return router
}
