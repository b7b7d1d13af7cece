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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/teaching-load-api/api/swagger"
	"github.com/noah-isme/teaching-load-api/internal/handler"
	"github.com/noah-isme/teaching-load-api/internal/middleware"
	"github.com/noah-isme/teaching-load-api/internal/repository"
	"github.com/noah-isme/teaching-load-api/internal/service"
	"github.com/noah-isme/teaching-load-api/pkg/cache"
	"github.com/noah-isme/teaching-load-api/pkg/config"
	"github.com/noah-isme/teaching-load-api/pkg/database"
	"github.com/noah-isme/teaching-load-api/pkg/lock"
	"github.com/noah-isme/teaching-load-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/teaching-load-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/teaching-load-api/pkg/middleware/requestid"
)

// @title Teaching Load API
// @version 0.1.0
// @description Instructor workload capacity and course assignment engine
// @BasePath /api/v1
// @schemes http
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db.DB, logr); err != nil {
			logr.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, continuing without cache", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	instructorRepo := repository.NewInstructorRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	preferenceRepo := repository.NewPreferenceRepository(db)
	complaintRepo := repository.NewComplaintRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled && redisClient != nil)

	auditSvc := service.NewAuditService(auditRepo, cfg.Audit, logr)
	auditSvc.Start(ctx)
	defer auditSvc.Stop()

	resolver := service.NewCapacityResolver(instructorRepo, assignmentRepo, service.WorkloadPolicyFromConfig(cfg.Workload))
	checker := service.NewConflictValidator(courseRepo, assignmentRepo, resolver)
	store := service.NewAssignmentStore(assignmentRepo, checker, newLocker(cfg.Engine, redisClient, logr), cacheSvc, auditSvc, metrics, validate, logr, service.AssignmentStoreConfig{
		WriteRetries: cfg.Engine.WriteRetries,
	})
	scheduler := service.NewAssignmentScheduler(store, courseRepo, preferenceRepo, resolver, metrics, validate, logr)
	query := service.NewAssignmentQueryService(assignmentRepo, instructorRepo, resolver, cacheSvc, validate, logr)
	lifecycle := service.NewCourseLifecycleService(courseRepo, auditSvc, metrics, validate, logr)
	preferences := service.NewPreferenceService(preferenceRepo, instructorRepo, auditSvc, validate, logr)
	complaints := service.NewComplaintService(complaintRepo, assignmentRepo, auditSvc, validate, logr)
	tokens := service.NewTokenVerifier(cfg.JWT)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	deps := map[string]handler.Pinger{"postgres": db}
	if redisClient != nil {
		deps["redis"] = cacheRepo
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Assignments: handler.NewAssignmentHandler(scheduler, store, query),
		Courses:     handler.NewCourseHandler(lifecycle),
		Preferences: handler.NewPreferenceHandler(preferences),
		Complaints:  handler.NewComplaintHandler(complaints),
		Instructors: handler.NewInstructorHandler(query),
		Metrics:     handler.NewMetricsHandler(metrics, deps),
	}, middleware.JWT(tokens))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newLocker(cfg config.EngineConfig, client *redis.Client, logr *zap.Logger) lock.Locker {
	if cfg.LockBackend == config.LockBackendRedis && client != nil {
		return lock.NewRedisLocker(client, cfg.LockTTL, cfg.LockWait, logr)
	}
	if cfg.LockBackend == config.LockBackendRedis {
		logr.Warn("redis lock backend requested without redis, using in-process locks")
	}
	return lock.NewMemoryLocker(cfg.LockWait)
}
