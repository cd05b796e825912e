package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	analysis "github.com/mindcare/backend/internal/analysis/support"
	"github.com/mindcare/backend/internal/config"
	"github.com/mindcare/backend/internal/handler"
	"github.com/mindcare/backend/internal/logging"
	"github.com/mindcare/backend/internal/model/resource"
	"github.com/mindcare/backend/internal/scheduler"
	"github.com/mindcare/backend/internal/service/ai"
	"github.com/mindcare/backend/internal/service/support"
	"github.com/mindcare/backend/internal/service/wellness"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	supportOpts := []support.Option{support.WithLogger(logger.Named("support"))}
	if cfg.Support.LLMEnabled {
		if cfg.AI.Enabled() {
			composer, err := ai.NewService(ctx, cfg.AI, logger.Named("ai"))
			if err != nil {
				logger.Warn("failed to initialize AI composer, using canned fallbacks", zap.Error(err))
			} else {
				supportOpts = append(supportOpts, support.WithComposer(composer))
				logger.Info("AI composer enabled for fallback replies", zap.String("model", cfg.AI.Model))
			}
		} else {
			logger.Warn("SUPPORT_LLM_ENABLED set but Ark credentials are missing")
		}
	}

	selector := analysis.NewSelector(cfg.Support.Strategy)
	supportSvc := support.NewService(selector, supportOpts...)
	wellnessSvc := wellness.NewService(cfg.Schedule.Location, wellness.WithLogger(logger.Named("wellness")))

	sched, err := scheduler.New(cfg.Schedule.RolloverCron, cfg.Schedule.Location, wellnessSvc.ResetDailyDoses, logger.Named("scheduler"))
	if err != nil {
		logger.Fatal("failed to create scheduler", zap.Error(err))
	}
	sched.Start()
	logger.Info("daily rollover scheduled", zap.Time("next", sched.Next()))

	router := handler.NewRouter(cfg.Server, logger, handler.Services{
		Support:   supportSvc,
		Wellness:  wellnessSvc,
		Resources: resource.NewMemoryStore(resource.Seed()),
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("MindCare backend listening",
		zap.String("addr", srv.Addr),
		zap.String("fallback", string(selector.Strategy())),
	)
	if err := runServer(ctx, srv); err != nil {
		logger.Error("server error", zap.Error(err))
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sched.Stop(stopCtx); err != nil {
		logger.Warn("scheduler did not stop cleanly", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
