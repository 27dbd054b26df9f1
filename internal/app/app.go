package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/staffpulse/backend/internal/adapter/carrier/twilio"
	"github.com/staffpulse/backend/internal/adapter/postgres"
	alertrepo "github.com/staffpulse/backend/internal/adapter/postgres/alert"
	checkinrepo "github.com/staffpulse/backend/internal/adapter/postgres/checkin"
	deliveryrepo "github.com/staffpulse/backend/internal/adapter/postgres/delivery"
	employeerepo "github.com/staffpulse/backend/internal/adapter/postgres/employee"
	insightrepo "github.com/staffpulse/backend/internal/adapter/postgres/insight"
	"github.com/staffpulse/backend/internal/config"
	"github.com/staffpulse/backend/internal/service/checkin"
	"github.com/staffpulse/backend/internal/service/dispatch"
	"github.com/staffpulse/backend/internal/service/insight"
	"github.com/staffpulse/backend/internal/service/synthesizer"
	"github.com/staffpulse/backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, wires the
// repositories, services, and HTTP transport together, starts the server,
// and blocks until ctx is canceled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	employees := employeerepo.New(pool)
	checkins := checkinrepo.New(pool)
	insights := insightrepo.New(pool)
	alerts := alertrepo.New(pool)
	deliveries := deliveryrepo.New(pool)
	txManager := postgres.NewTxManager(pool)

	carrier, err := twilio.NewClient(cfg.Twilio)
	if err != nil {
		return fmt.Errorf("init messaging carrier: %w", err)
	}
	validator := twilio.NewValidator(cfg.Twilio.AuthToken)

	llmClient, err := synthesizer.NewClient(cfg.LLM)
	if err != nil {
		return fmt.Errorf("init llm client: %w", err)
	}
	synthSvc := synthesizer.NewService(llmClient, cfg.LLM.Timeout, logger)

	analyzer := checkin.NewAnalyzer(checkins, insights, alerts,
		cfg.Insights.AnalysisWorkers, cfg.Insights.AnalysisQueueSize, logger)
	// Detached from the server context so queued analyses drain during the
	// shutdown window instead of being dropped on the first signal.
	analyzer.Start(context.WithoutCancel(ctx))

	checkinSvc := checkin.NewService(employees, checkins, deliveries, analyzer, logger)
	dispatchSvc := dispatch.NewService(carrier, deliveries, employees,
		cfg.Dispatch.MaxConcurrency, cfg.Dispatch.AttemptTimeout, logger)
	insightSvc := insight.NewService(checkins, employees, insights, alerts,
		synthSvc, txManager, cfg.Insights.WindowDays, logger)

	router := rest.NewRouter(rest.RouterDeps{
		Webhook:  rest.NewWebhookHandler(checkinSvc, validator, cfg.Twilio.WebhookBaseURL, logger),
		Insights: rest.NewInsightHandler(insightSvc, logger),
		Alerts:   rest.NewAlertHandler(alerts, logger),
		Dispatch: rest.NewDispatchHandler(dispatchSvc, deliveries, logger),
		Health:   rest.NewHealthHandler(pool, BuildVersion()),
	}, cfg.CORS, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", slog.String("error", err.Error()))
	}
	if err := analyzer.Shutdown(shutdownCtx); err != nil {
		logger.Error("analyzer shutdown", slog.String("error", err.Error()))
	}

	logger.Info("application stopped")
	return nil
}
