// main wires configuration, storage, messaging and HTTP into a running
// numina server. Business logic lives in the internal service packages.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	archhandler "numina/internal/archetype/handler"
	archmetrics "numina/internal/archetype/metrics"
	archservice "numina/internal/archetype/service"
	archstore "numina/internal/archetype/store"
	"numina/internal/auth"
	calchandler "numina/internal/calculation/handler"
	calcservice "numina/internal/calculation/service"
	calcstore "numina/internal/calculation/store"
	"numina/internal/generation"
	"numina/internal/platform/audit"
	auditkafka "numina/internal/platform/audit/kafka"
	"numina/internal/platform/config"
	"numina/internal/platform/httpserver"
	"numina/internal/platform/logger"
	"numina/internal/platform/postgres"
	redisplatform "numina/internal/platform/redis"
	httptransport "numina/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connection failed", "error", err.Error())
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Audit events go to Kafka when brokers are configured, otherwise to an
	// in-memory store so dev deployments still record them.
	var publisher audit.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := auditkafka.New(ctx, cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			log.Error("kafka connection failed", "error", err.Error())
			os.Exit(1)
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	} else {
		publisher = audit.NewStorePublisher(audit.NewInMemoryStore())
	}

	// Archetype repository: Postgres is the source of truth, Redis holds the
	// fallback snapshot, the service keeps the hot cache in memory.
	archOpts := []archservice.Option{
		archservice.WithMetrics(archmetrics.New()),
		archservice.WithAuditPublisher(publisher),
	}
	var remote archservice.RemoteStore
	if db != nil {
		remote = archstore.NewPostgres(db)
	} else {
		log.Warn("no database configured, archetypes are in-memory only")
		remote = archstore.NewInMemory()
	}
	if redisClient != nil {
		archOpts = append(archOpts, archservice.WithFallback(archstore.NewRedisFallback(redisClient.Client)))
	}
	archetypes := archservice.New(remote, log, archOpts...)

	if !archetypes.Load(ctx, false) {
		log.Warn("archetype cache is empty at startup, lookups will miss until authored or reloaded")
	}

	var calcStore calcservice.Store
	if db != nil {
		calcStore = calcstore.NewPostgres(db)
	} else {
		calcStore = calcstore.NewInMemory()
	}
	calculations := calcservice.NewService(log, calcStore, archetypes,
		calcservice.WithAuditPublisher(publisher))

	var generationClient generation.Client
	if cfg.Generation.BaseURL != "" {
		generationClient = generation.NewOpenAIClient(log,
			cfg.Generation.BaseURL, cfg.Generation.APIKey, cfg.Generation.Model,
			generation.WithTimeout(cfg.Generation.Timeout))
	} else {
		log.Warn("no generation backend configured, using mock client")
		generationClient = &generation.MockClient{}
	}
	var generationOpts []generation.Option
	if redisClient != nil {
		generationOpts = append(generationOpts, generation.WithCache(
			generation.NewRedisContentCache(redisClient.Client)))
	}
	generator := generation.NewService(log, generationClient, generationOpts...)

	jwtValidator := auth.NewValidator(cfg.JWTSigningKey)

	router := httptransport.NewRouter(httptransport.Dependencies{
		Logger: log,
		DB:     db,
		Redis:  redisClient,
		Handlers: []httptransport.Registrar{
			archhandler.New(archetypes, log, jwtValidator, cfg.AdminToken),
			calchandler.New(calculations, generator, log, jwtValidator),
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting numina server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
}
