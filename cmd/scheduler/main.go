package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"prod-scheduler/internal/config"
	"prod-scheduler/internal/service/allocate"
	generate_excel "prod-scheduler/internal/service/generate-excel"
	"prod-scheduler/internal/service/planner"
	"prod-scheduler/internal/storage"
	"prod-scheduler/internal/storage/memory"
	"prod-scheduler/internal/storage/mysql"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

const (
	driverMySQL  = "mysql"
	driverMemory = "memory"
)

func main() {
	cfg := config.MustConfig()

	log := setupLogger(cfg.Env)

	kv, closeKV, err := openStorage(*cfg, log)
	if err != nil {
		log.Error("failed to open storage", slog.String("driver", cfg.StorageDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeKV()

	scheduler := planner.New(kv, log,
		planner.WithAllocateOptions(
			allocate.WithHorizon(cfg.Scheduler.HorizonDays),
			allocate.WithStrict(cfg.Scheduler.Strict),
		),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = scheduler.Load(ctx)
	cancel()
	if err != nil {
		log.Error("failed to load state", slog.String("error", err.Error()))
		os.Exit(1)
	}

	genService := generate_excel.NewGenerateService(scheduler)

	log.Info("server started", slog.String("address", cfg.Address), slog.String("storage", cfg.StorageDriver))

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      routes(*cfg, log, scheduler, genService),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	if err := srv.ListenAndServe(); err != nil {
		log.Error("failed start server", slog.String("error", err.Error()))
	}

	log.Error("server stopped")
}

// openStorage выбирает хранилище состояния по storage_driver.
func openStorage(cfg config.Config, log *slog.Logger) (storage.KeyValue, func(), error) {
	switch cfg.StorageDriver {
	case driverMemory:
		log.Warn("состояние хранится в памяти и пропадёт после рестарта")
		return memory.New(), func() {}, nil
	case driverMySQL:
		db, err := mysql.New(cfg)
		if err != nil {
			return nil, nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}

		return db, func() {
			if err := db.Close(); err != nil {
				log.Error("failed to close db", slog.String("error", err.Error()))
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

type dualHandler struct {
	coreHandler  slog.Handler
	errorHandler slog.Handler
}

func (h *dualHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.coreHandler.Enabled(ctx, lvl) || h.errorHandler.Enabled(ctx, lvl)
}

func (h *dualHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error

	// Всегда пишем в основной вывод (stdout)
	if h.coreHandler.Enabled(ctx, r.Level) {
		err = h.coreHandler.Handle(ctx, r)
		if err != nil {
			return err
		}
	}

	// ошибки дублируем в файл, сбой записи в файл не валит основной лог
	if r.Level >= slog.LevelError && h.errorHandler.Enabled(ctx, r.Level) {
		_ = h.errorHandler.Handle(ctx, r.Clone())
	}

	return err
}

func (h *dualHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithAttrs(attrs),
		errorHandler: h.errorHandler.WithAttrs(attrs),
	}
}

func (h *dualHandler) WithGroup(name string) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithGroup(name),
		errorHandler: h.errorHandler.WithGroup(name),
	}
}

func setupLogger(env string) *slog.Logger {
	level := slog.LevelDebug
	if env == envProd {
		level = slog.LevelInfo
	}

	// 1. Основной handler — stdout
	var coreHandler slog.Handler
	switch env {
	case envDev:
		coreHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	case envLocal, envProd:
		coreHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	default:
		coreHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	// 2. Файловый handler — только ошибки
	errorFile, err := os.OpenFile("errors.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		slog.Warn("Cannot open error log file", "error", err)
		return slog.New(coreHandler)
	}

	errorHandler := slog.NewTextHandler(errorFile, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	return slog.New(&dualHandler{
		coreHandler:  coreHandler,
		errorHandler: errorHandler,
	})
}
