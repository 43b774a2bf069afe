package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/inkmatch/trust-core/internal/api"
	"github.com/inkmatch/trust-core/internal/core/service"
	"github.com/inkmatch/trust-core/internal/infrastructure/blocklist"
	"github.com/inkmatch/trust-core/internal/infrastructure/config"
	mongodb "github.com/inkmatch/trust-core/internal/infrastructure/db/mongo"
	redisdb "github.com/inkmatch/trust-core/internal/infrastructure/db/redis"
	"github.com/inkmatch/trust-core/internal/infrastructure/dns"
	"github.com/inkmatch/trust-core/internal/infrastructure/scheduler"
	"github.com/inkmatch/trust-core/pkg/logger"
)

const mxTimeout = 3 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Repositories ---
	identityRepo := mongodb.NewIdentityRepository(db)
	indexRepo := mongodb.NewIdentityIndexRepository(db)
	relationshipRepo := mongodb.NewRelationshipRepository(db)
	eventRepo := mongodb.NewSecurityEventRepository(db)
	alertRepo := mongodb.NewAlertRepository(db)

	if err := indexRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("identity index setup failed")
	}
	if err := eventRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("event log index setup failed")
	}

	counters := redisdb.NewChangeCounterStore(rdb)
	blocklistStore := redisdb.NewBlocklistStore(rdb)

	// --- Domain blocklist: seeds now, dynamic list at startup and daily ---
	domains := blocklist.New(blocklistStore, logger.Component("blocklist"))
	if err := domains.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("initial blocklist refresh failed, running on seed list")
	}

	// --- Services ---
	recorder := service.NewSecurityLog(eventRepo, logger.Component("securitylog"))
	identitySvc := service.NewIdentityService(
		identityRepo,
		indexRepo,
		counters,
		domains,
		dns.NewMXResolver(mxTimeout),
		recorder,
		logger.Component("identity"),
	)
	authzSvc := service.NewAuthorizationService(relationshipRepo, logger.Component("authz"))
	intakeSvc := service.NewObjectIntake(recorder, logger.Component("intake"))

	detector := service.NewAnomalyDetector(eventRepo, alertRepo, service.DetectorConfig{
		Window:                cfg.Detector.Window,
		FetchBound:            cfg.Detector.FetchBound,
		FrequencyThreshold:    cfg.Detector.FrequencyThreshold,
		UnauthorizedThreshold: cfg.Detector.UnauthorizedThreshold,
	}, logger.Component("detector"))

	// --- Scheduled jobs ---
	jobs := scheduler.New(logger.Component("scheduler"))
	jobs.Add(scheduler.Job{
		Name:     "anomaly-detector",
		Interval: cfg.Detector.Interval,
		Run:      detector.Run,
	})
	jobs.Add(scheduler.Job{
		Name:     "blocklist-refresh",
		Interval: cfg.Blocklist.RefreshInterval,
		Run:      domains.Refresh,
	})
	jobs.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(api.Deps{
		Identity:      identitySvc,
		Authorization: authzSvc,
		Recorder:      recorder,
		Intake:        intakeSvc,
		Alerts:        alertRepo,
		Mongo:         db,
		Redis:         rdb,
		JWTSecret:     cfg.JWTSecret,
		Log:           logger.Component("api"),
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("trust core listening")

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	jobs.Wait()
}
