package main

import (
	"YouthHealth/cache"
	"YouthHealth/config"
	"YouthHealth/database"
	"YouthHealth/events"
	"YouthHealth/middlewares"
	"YouthHealth/models"
	"YouthHealth/repositories"
	"YouthHealth/routes"
	"YouthHealth/services"
	"YouthHealth/utils"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	config.LoadEnv()

	cfg, err := config.LoadAppConfig()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}
	logger := config.NewLogger(cfg.LogLevel, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(ctx, cfg.DBURL, database.Options{
		Debug:         cfg.Env == "development",
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		Logger:        logger,
	})
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}

	if err := database.InitializeRedis(cfg.Redis, logger); err != nil {
		logger.Fatalf("failed to initialize Redis client: %v", err)
	}
	redisCache, err := cache.NewCache(database.RedisClient, logger)
	if err != nil {
		logger.Fatalf("failed to initialize cache: %v", err)
	}

	tokens, err := utils.NewTokenMaker(cfg.TokenKey)
	if err != nil {
		logger.Fatalf("failed to initialize token maker: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	hub := events.NewHub(tokens, events.HubOptions{
		PingInterval:   cfg.PingInterval,
		PingTimeout:    cfg.PingTimeout,
		AllowedOrigins: cfg.AllowedOrigins,
		Roles:          []string{models.RoleAdmin, models.RoleDoctor},
	}, logger, registry)

	var wg sync.WaitGroup

	// With Kafka configured every instance publishes to the topic and relays
	// it back to its own hub, so dashboards see events from all instances.
	var publisher events.Publisher = hub
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			logger.Fatalf("failed to initialize Kafka publisher: %v", err)
		}
		defer producer.Close()
		publisher = producer

		relay := events.NewKafkaRelay(cfg.KafkaBrokers, cfg.KafkaTopic, hub, logger)
		defer relay.Close()
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := relay.Run(ctx); err != nil {
				logger.WithError(err).Error("event relay stopped")
			}
		}()
	}

	deps := services.Deps{Publisher: publisher, Logger: logger}
	userRepo := repositories.NewUserRepository(db, redisCache)
	doctorRepo := repositories.NewDoctorRepository(db, redisCache)
	consultationRepo := repositories.NewConsultationRepository(db, redisCache)
	activityRepo := repositories.NewActivityRepository(db, redisCache)
	statsRepo := repositories.NewStatsRepository(db, redisCache)
	messageRepo := repositories.NewMessageRepository(db)

	handler := routes.SetupRoutes(routes.Services{
		Auth:          services.NewAuthService(userRepo, activityRepo, tokens, deps),
		Consultations: services.NewConsultationService(consultationRepo, userRepo, doctorRepo, activityRepo, deps),
		Doctors:       services.NewDoctorService(doctorRepo, deps),
		Users:         services.NewUserService(userRepo, activityRepo, deps),
		Analytics:     services.NewAnalyticsService(statsRepo, activityRepo, userRepo, deps),
		Messages:      services.NewMessageService(messageRepo, userRepo, deps),
		Contact:       services.NewContactService(utils.NewMailer(cfg.SMTP)),
	}, routes.Options{
		Tokens:         tokens,
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit: middlewares.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit,
			Burst:             cfg.RateBurst,
		},
		Gatherer: registry,
		Realtime: hub,
	})

	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every 5m", func() { database.MonitorRedisPool(database.RedisClient, logger) }); err != nil {
		logger.Fatalf("failed to schedule pool monitor: %v", err)
	}
	scheduler.Start()

	// WriteTimeout stays zero: the socket endpoint holds connections open.
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
		IdleTimeout:       60 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.WithField("addr", cfg.Addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listenAndServe(): %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	logger.Info("Shutting down server...")
	<-scheduler.Stop().Done()
	_ = hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown failed: %+v", err)
	}

	wg.Wait()
	logger.Info("Server exited gracefully")
}
