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
	"go.uber.org/zap"

	_ "github.com/noah-isme/course-allocation-api/api/swagger"
	"github.com/noah-isme/course-allocation-api/internal/handler"
	"github.com/noah-isme/course-allocation-api/internal/repository"
	"github.com/noah-isme/course-allocation-api/internal/service"
	"github.com/noah-isme/course-allocation-api/pkg/cache"
	"github.com/noah-isme/course-allocation-api/pkg/config"
	"github.com/noah-isme/course-allocation-api/pkg/database"
	"github.com/noah-isme/course-allocation-api/pkg/jobs"
	"github.com/noah-isme/course-allocation-api/pkg/logger"
)

// @title Course Allocation API
// @version 1.0.0
// @description Student course enrollment requests, lecturer decisions and seat capacity.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 10 * time.Second

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		migrator, err := database.NewMigrator(db, logr)
		if err != nil {
			return err
		}
		if err := migrator.Up(ctx); err != nil {
			return err
		}
	}

	metrics := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Allocation.CacheEnabled {
		redisClient, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, allocation cache disabled", zap.Error(err))
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, "course-allocation:", logr)
			defer cacheRepo.Close() //nolint:errcheck
			cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Allocation.CacheTTL, logr, true)
		}
	}

	allocationOpts := []service.AllocationServiceOption{
		service.WithAllocationCache(cacheSvc),
		service.WithAllocationMetrics(metrics),
	}
	if cacheSvc != nil {
		invalidations := jobs.New("cache-invalidation", cacheSvc.Apply, jobs.Config{
			Workers:    2,
			BufferSize: 256,
			MaxRetries: 3,
			RetryDelay: 500 * time.Millisecond,
			Logger:     logr,
		})
		invalidations.Start(ctx)
		defer invalidations.Stop()
		allocationOpts = append(allocationOpts, service.WithInvalidationQueue(invalidations))
	}

	allocationSvc := service.NewAllocationService(
		repository.NewAllocationRepository(db),
		repository.NewCourseRepository(db, cfg.Allocation.LockTimeout),
		repository.NewStudentRepository(db),
		repository.NewLecturerRepository(db),
		repository.NewSemesterRepository(db),
		repository.NewAuditRepository(),
		db,
		validator.New(),
		logr,
		allocationOpts...,
	)
	tokens := service.NewTokenService(service.TokenConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(cfg, logr, routerDeps{
		allocations: handler.NewAllocationHandler(allocationSvc),
		system:      handler.NewMetricsHandler(metrics, db),
		tokens:      tokens,
		metrics:     metrics,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
