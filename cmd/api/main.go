package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/theshushant/gyaan-buddy-combined-sub001/api/swagger"
	"github.com/theshushant/gyaan-buddy-combined-sub001/internal/handler"
	"github.com/theshushant/gyaan-buddy-combined-sub001/internal/repository"
	"github.com/theshushant/gyaan-buddy-combined-sub001/internal/service"
	"github.com/theshushant/gyaan-buddy-combined-sub001/pkg/cache"
	"github.com/theshushant/gyaan-buddy-combined-sub001/pkg/config"
	"github.com/theshushant/gyaan-buddy-combined-sub001/pkg/database"
	"github.com/theshushant/gyaan-buddy-combined-sub001/pkg/logger"
)

// @title Gyaan Buddy Entity API
// @version 1.0.0
// @description Validation, normalisation and storage of Gyaan Buddy school entities
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(migrateCtx, db); err != nil {
		cancel()
		logr.Fatal("failed to migrate schema", zap.Error(err))
	}
	cancel()

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, continuing without cache", zap.Error(err))
			redisClient = nil
		}
	}

	records := repository.NewRecordRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, "gyaan:")
	defer cacheRepo.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, redisClient != nil)
	entities := service.NewEntityService(records, cacheSvc, metrics, validator.New(), logr, cfg.Cache.TTL)
	exports := service.NewExportService(entities, service.ExportConfig{
		Enabled: cfg.Exports.Enabled,
		MaxRows: cfg.Exports.MaxRows,
	}, logr)
	tokens := service.NewTokenService(service.TokenConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		Leeway: cfg.JWT.Leeway,
	})

	probes := map[string]handler.Pinger{"postgres": records}
	if redisClient != nil {
		probes["redis"] = cacheRepo
	}

	router := handler.NewRouter(handler.RouterDeps{
		Config:   cfg,
		Logger:   logr,
		Metrics:  metrics,
		Tokens:   tokens,
		Entities: handler.NewEntityHandler(entities, exports),
		Probes:   handler.NewMetricsHandler(metrics, probes),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logr.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
