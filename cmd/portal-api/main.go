package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/univ-portal-api/api/swagger"
	"github.com/noah-isme/univ-portal-api/internal/handler"
	"github.com/noah-isme/univ-portal-api/internal/middleware"
	"github.com/noah-isme/univ-portal-api/internal/repository"
	"github.com/noah-isme/univ-portal-api/internal/service"
	"github.com/noah-isme/univ-portal-api/internal/store"
	"github.com/noah-isme/univ-portal-api/pkg/cache"
	"github.com/noah-isme/univ-portal-api/pkg/config"
	"github.com/noah-isme/univ-portal-api/pkg/database"
	"github.com/noah-isme/univ-portal-api/pkg/jobs"
	"github.com/noah-isme/univ-portal-api/pkg/logger"
	reqidmiddleware "github.com/noah-isme/univ-portal-api/pkg/middleware/requestid"
)

// @title University Portal API
// @version 1.0.0
// @description Teacher allocation, exam slot scheduling and course planning
// @BasePath /api/v1
// @schemes http

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st := store.New()
	checks := map[string]handler.ReadinessCheck{}
	notifiers := service.MultiNotifier{service.NewLogNotifier(logr)}

	var db *sqlx.DB
	if cfg.Catalog.LoadFromDB || cfg.Notifications.AuditEnabled {
		db, err = database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer db.Close()
		checks["postgres"] = db.PingContext
	}
	if cfg.Catalog.LoadFromDB {
		catalog := service.NewCatalogService(st, repository.NewTeacherRepository(db), repository.NewSubjectRepository(db), logr)
		if _, err := catalog.Hydrate(ctx); err != nil {
			logr.Fatal("failed to hydrate catalog", zap.Error(err))
		}
	}
	queueCfg := jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		BufferSize: cfg.Notifications.BufferSize,
		MaxRetries: cfg.Notifications.MaxRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
		Logger:     logr,
	}
	var sinks []*service.AsyncNotifier
	if cfg.Notifications.AuditEnabled {
		audit := service.NewAsyncNotifier("audit", service.NewAuditNotifier(repository.NewOutcomeRepository(db), logr), queueCfg)
		sinks = append(sinks, audit)
	}

	if cfg.Notifications.Enabled {
		var rdb *redis.Client
		rdb, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect redis", zap.Error(err))
		}
		defer rdb.Close()
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		publish := service.NewAsyncNotifier("redis", service.NewRedisNotifier(rdb, cfg.Notifications.Channel, logr), queueCfg)
		sinks = append(sinks, publish)
	}
	for _, sink := range sinks {
		sink.Start(ctx)
		defer sink.Stop()
		notifiers = append(notifiers, sink)
	}

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}
	validate := validator.New()

	teachers := service.NewTeacherService(st, notifiers, metrics, validate, logr)
	subjects := service.NewSubjectService(st, notifiers, metrics, validate, logr)
	allocations := service.NewAllocationService(st, service.AllocationOptions{
		ExclusiveSubjects: cfg.Allocation.ExclusiveSubjects,
	}, notifiers, metrics, validate, logr)
	schedule := service.NewExamScheduleService(st, service.ExamScheduleOptions{
		RejectOverlap: cfg.Slots.RejectOverlap,
	}, notifiers, metrics, validate, logr)
	plans := service.NewCoursePlanService(st, notifiers, metrics, validate, logr)
	exports := service.NewExportService(st, nil, nil, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metrics))
	r.Use(cors.New(corsConfig(cfg.CORS)))

	handler.RegisterOps(r, handler.NewMetricsHandler(metrics, checks), cfg.Metrics.Enabled)
	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Teachers:    handler.NewTeacherHandler(teachers, allocations),
		Subjects:    handler.NewSubjectHandler(subjects, allocations),
		ExamSlots:   handler.NewExamSlotHandler(schedule, exports),
		Exams:       handler.NewExamHandler(schedule),
		CoursePlans: handler.NewCoursePlanHandler(plans, exports),
	})

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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:        cfg.MaxAge,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowedOrigins
	}
	return c
}
