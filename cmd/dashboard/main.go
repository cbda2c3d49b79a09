package main

import (
	"YouthHealth/api"
	"YouthHealth/config"
	"YouthHealth/dashboard"
	"YouthHealth/models"
	"YouthHealth/realtime"
	"YouthHealth/session"
	"YouthHealth/stores"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const summaryInterval = time.Minute

func main() {
	config.LoadEnv()

	cfg, err := config.LoadAgentConfig()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}
	logger := config.NewLogger(cfg.LogLevel, os.Getenv("ENV"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions, err := session.Open(cfg.SessionPath)
	if err != nil {
		logger.Fatalf("failed to open session store: %v", err)
	}
	defer sessions.Close()

	client, err := api.NewClient(cfg.APIURL, logger)
	if err != nil {
		logger.Fatalf("failed to create API client: %v", err)
	}

	userStore := stores.NewUserStore(client, sessions, logger)
	if err := userStore.Restore(); err != nil {
		logger.WithError(err).Warn("ignoring stored session")
	}
	if err := signIn(ctx, userStore, cfg); err != nil {
		logger.Fatalf("failed to sign in: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	board := dashboard.New(
		stores.NewAdminStore(client, logger),
		stores.NewAnalyticsStore(client, logger),
		dashboard.Options{
			RealtimeURL:    cfg.RealtimeURL,
			CoalesceWindow: cfg.CoalesceWindow,
			ResyncSchedule: cfg.ResyncSchedule,
			Notifier:       realtime.LogNotifier{Logger: logger},
			Metrics:        realtime.NewMetrics(registry),
			Logger:         logger,
		},
	)

	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		metricsSrv = &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			logger.WithField("addr", cfg.MetricsAddr).Info("Serving metrics")
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.WithError(err).Error("metrics server stopped")
			}
		}()
	}

	if err := board.Mount(ctx, userStore.Token()); err != nil {
		logger.Fatalf("failed to mount dashboard: %v", err)
	}

	ticker := time.NewTicker(summaryInterval)
	defer ticker.Stop()
	logSummary(logger, board)
	for {
		select {
		case <-ctx.Done():
			if err := board.Unmount(); err != nil {
				logger.WithError(err).Warn("dashboard unmount failed")
			}
			if metricsSrv != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				_ = metricsSrv.Shutdown(shutdownCtx)
				cancel()
			}
			logger.Info("Dashboard agent exited")
			return
		case <-ticker.C:
			logSummary(logger, board)
		}
	}
}

// signIn reuses a stored token when the server still accepts it and falls
// back to the configured credentials otherwise.
func signIn(ctx context.Context, users *stores.UserStore, cfg *config.AgentConfig) error {
	if users.IsAuthenticated() {
		err := users.FetchProfile(ctx)
		if err == nil {
			return nil
		}
		if !api.IsStatus(err, http.StatusUnauthorized) {
			return err
		}
	}
	if cfg.Email == "" || cfg.Password == "" {
		return errors.New("no valid session and DASHBOARD_EMAIL/DASHBOARD_PASSWORD are not set")
	}
	if err := users.Login(ctx, models.Credentials{Email: cfg.Email, Password: cfg.Password}); err != nil {
		return err
	}
	if !users.IsAuthenticated() {
		return stores.ErrNotLoggedIn
	}
	return nil
}

func logSummary(logger *logrus.Logger, board *dashboard.Dashboard) {
	for _, line := range board.Summary() {
		logger.Info(line)
	}
	for _, row := range board.ConsultationRows() {
		logger.WithFields(logrus.Fields{
			"id":       row.ID,
			"when":     row.ScheduledAt,
			"status":   row.Status,
			"priority": row.Priority,
			"duration": row.Duration,
		}).Debug(row.Title)
	}
	for _, row := range board.DoctorRows() {
		logger.WithFields(logrus.Fields{
			"availability": row.Availability,
			"rating":       row.Rating,
			"load":         row.Consultations,
		}).Debug(row.Name)
	}
	for _, row := range board.ActivityRows() {
		logger.WithField("when", row.When).Debug(row.Description)
	}
}
