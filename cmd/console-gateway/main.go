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

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-adp-console/api/swagger"
	"github.com/noah-isme/sma-adp-console/internal/form"
	"github.com/noah-isme/sma-adp-console/internal/handler"
	"github.com/noah-isme/sma-adp-console/internal/middleware"
	"github.com/noah-isme/sma-adp-console/internal/models"
	"github.com/noah-isme/sma-adp-console/internal/repository"
	"github.com/noah-isme/sma-adp-console/internal/service"
	"github.com/noah-isme/sma-adp-console/pkg/cache"
	"github.com/noah-isme/sma-adp-console/pkg/config"
	"github.com/noah-isme/sma-adp-console/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-adp-console/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-adp-console/pkg/middleware/requestid"
)

// @title SMA ADP Console
// @version 1.0.0
// @description Admin console gateway over the school records API
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

	metrics := service.NewMetricsService()
	checks := map[string]handler.Pinger{}

	var cacheRepo service.CacheRepository
	if cfg.CacheEnabled() {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			repo := repository.NewCacheRepository(client, logr)
			defer repo.Close() //nolint:errcheck
			cacheRepo = repo
			checks["cache"] = repo
		}
	}
	listCache := service.NewCacheService(cacheRepo, metrics, service.CacheConfig{
		Name: "list", TTL: cfg.Console.ListCacheTTL, Enabled: cfg.Console.ListCache,
	}, logr)
	dashboardCache := service.NewCacheService(cacheRepo, metrics, service.CacheConfig{
		Name: "dashboard", TTL: cfg.Dashboard.CacheTTL, Enabled: cfg.Dashboard.Cache,
	}, logr)

	backend := repository.NewBackendClient(cfg.Backend, logr)
	checks["backend"] = backend

	students := repository.NewResourceClient[models.Student](backend, models.ResourceStudents)
	classes := repository.NewResourceClient[models.Class](backend, models.ResourceClasses)
	departments := repository.NewResourceClient[models.Department](backend, models.ResourceDepartments)
	courses := repository.NewResourceClient[models.Course](backend, models.ResourceCourses)

	virtuals := service.NewVirtualFieldComputer(nil)
	pagination := service.NewPaginationCalculator(cfg.Console.PageWindowSize)
	listConfig := func(confirm string) service.ResourceListConfig {
		return service.ResourceListConfig{
			PageSize:       cfg.Console.DefaultPageSize,
			ConfirmMessage: confirm,
			CacheTTL:       cfg.Console.ListCacheTTL,
		}
	}

	consoles := handler.NewConsoleHandler(
		service.NewResourceConsole(service.ResourceConsoleParams[models.Student]{
			Resource: models.ResourceStudents, Store: students, Decorate: virtuals.Student,
			Schema: service.StudentSchema, Values: service.StudentValues, Columns: service.StudentColumns(),
			Pagination: pagination, Cache: listCache, Metrics: metrics, Logger: logr,
			Config: listConfig("Are you sure you want to delete this student?"),
		}),
		service.NewResourceConsole(service.ResourceConsoleParams[models.Class]{
			Resource: models.ResourceClasses, Store: classes, Decorate: virtuals.Class,
			Schema: service.ClassSchema, Values: service.ClassValues, Columns: service.ClassColumns(),
			Pagination: pagination, Cache: listCache, Metrics: metrics, Logger: logr,
			Config: listConfig("Are you sure you want to delete this class? All students in this class will need to be reassigned."),
		}),
		service.NewResourceConsole(service.ResourceConsoleParams[models.Department]{
			Resource: models.ResourceDepartments, Store: departments, Decorate: virtuals.Department,
			Schema: func() form.Spec { return service.DepartmentSchema(time.Now().Year()) },
			Values: service.DepartmentValues, Columns: service.DepartmentColumns(),
			Pagination: pagination, Cache: listCache, Metrics: metrics, Logger: logr,
			Config: listConfig("Are you sure you want to delete this department? This will affect all related classes and courses."),
		}),
		service.NewResourceConsole(service.ResourceConsoleParams[models.Course]{
			Resource: models.ResourceCourses, Store: courses, Decorate: virtuals.Course,
			Schema: service.CourseSchema, Values: service.CourseValues, Columns: service.CourseColumns(),
			Pagination: pagination, Cache: listCache, Metrics: metrics, Logger: logr,
			Config: listConfig("Are you sure you want to delete this course? This will affect all enrolled students."),
		}),
	)

	dashboard := handler.NewDashboardHandler(service.NewDashboardService(service.DashboardServiceParams{
		StudentStats:    students,
		ClassStats:      classes,
		DepartmentStats: departments,
		CourseStats:     courses,
		Students:        students,
		Classes:         classes,
		Virtuals:        virtuals,
		Cache:           dashboardCache,
		Metrics:         metrics,
		Logger:          logr,
		Config: service.DashboardServiceConfig{
			RecentLimit: cfg.Dashboard.RecentLimit,
			CacheTTL:    cfg.Dashboard.CacheTTL,
		},
	}))
	observability := handler.NewMetricsHandler(metrics, checks)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", observability.Health)
	r.GET("/ready", observability.Ready)
	r.GET("/metrics", observability.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix, middleware.WithResponseMeta())
	console := api.Group("/console")
	console.GET("/dashboard", dashboard.Summary)
	console.GET("/metrics", observability.Summary)
	consoles.Register(console)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "backend", cfg.Backend.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
