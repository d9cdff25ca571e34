package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/tripwise/prompt-svc/config"
	"github.com/tripwise/prompt-svc/internal/api/handlers"
	"github.com/tripwise/prompt-svc/internal/api/middleware"
	"github.com/tripwise/prompt-svc/internal/api/routes"
	"github.com/tripwise/prompt-svc/internal/cache"
	"github.com/tripwise/prompt-svc/internal/logger"
	"github.com/tripwise/prompt-svc/internal/providers/llm"
	mongorepo "github.com/tripwise/prompt-svc/internal/repositories/mongo"
	pgrepo "github.com/tripwise/prompt-svc/internal/repositories/postgres"
	"github.com/tripwise/prompt-svc/internal/services"
	"github.com/tripwise/prompt-svc/internal/workers"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}
	log := logger.New(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init PostgreSQL
	db, err := config.InitPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	if err := pgrepo.Migrate(ctx, db); err != nil {
		log.Fatalf("PostgreSQL migrate error: %v", err)
	}
	log.Info("PostgreSQL connected")

	// Init Redis (optional weather cache)
	var weatherCache cache.Cache = cache.Noop{}
	if cfg.Redis.Addr != "" {
		rdb, err := config.InitRedis(cfg.Redis)
		if err != nil {
			log.Fatalf("Redis init error: %v", err)
		}
		defer rdb.Close()
		weatherCache = cache.NewRedisCache(rdb, cfg.Redis.Prefix)
		log.Info("Redis connected")
	}

	// Init MongoDB (optional completion log)
	var clientOpts []llm.ClientOption
	if cfg.LLM.Timeout > 0 {
		clientOpts = append(clientOpts, llm.WithTimeout(cfg.LLM.Timeout))
	}
	if cfg.Mongo.URI != "" {
		mc, mdb, err := config.InitMongo(ctx, cfg.Mongo)
		if err != nil {
			log.Fatalf("MongoDB init error: %v", err)
		}
		defer func() { _ = mc.Disconnect(context.Background()) }()
		if err := config.EnsureMongoIndexes(ctx, mdb); err != nil {
			log.WithError(err).Warn("mongo indexes not ensured")
		}
		recorder := services.NewCompletionLog(mongorepo.NewCompletionRepo(mdb), cfg.Mongo.CompletionLogTTL, log)
		clientOpts = append(clientOpts, llm.WithRecorder(recorder))
		log.Info("MongoDB connected")
	}

	provider, err := config.InitLLM(ctx, cfg)
	if err != nil {
		log.Fatalf("llm init error: %v", err)
	}
	client := llm.NewClient(provider, clientOpts...)
	defer client.Close()
	log.WithField("provider", client.ProviderName()).Info("llm provider ready")

	tripRepo := pgrepo.NewTripRepo(db)
	tripSvc := services.NewTripService(tripRepo, pgrepo.NewMessageRepo(db), client, log)
	promptSvc := services.NewPromptService(client, weatherCache, cfg.Weather.CacheTTL, log)
	profileSvc := services.NewProfileService(pgrepo.NewProfileRepo(db))

	if cfg.Sweep.Schedule != "" {
		c := cron.New()
		sweep := &workers.IntegritySweep{Trips: tripRepo, Logger: log, Timeout: cfg.Sweep.Timeout}
		if _, err := sweep.Schedule(ctx, c, cfg.Sweep.Schedule); err != nil {
			log.Fatalf("sweep schedule error: %v", err)
		}
		c.Start()
		defer c.Stop()
	}

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	routes.RegisterRoutes(r, routes.Deps{
		Trip:      handlers.NewTripHandler(tripSvc),
		Prompt:    handlers.NewPromptHandler(promptSvc),
		Profile:   handlers.NewProfileHandler(profileSvc),
		WS:        handlers.NewWSHandler(tripSvc, log),
		JWTSecret: cfg.Auth.JWTSecret,
	})

	srv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: r}
	go func() {
		log.WithField("port", cfg.Server.Port).Info("prompt service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}
