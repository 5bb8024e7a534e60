package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/nursery-checkin-api/api/swagger"
	"github.com/noah-isme/nursery-checkin-api/internal/handler"
	"github.com/noah-isme/nursery-checkin-api/internal/middleware"
	"github.com/noah-isme/nursery-checkin-api/internal/models"
	"github.com/noah-isme/nursery-checkin-api/internal/repository"
	"github.com/noah-isme/nursery-checkin-api/internal/service"
	"github.com/noah-isme/nursery-checkin-api/pkg/cache"
	"github.com/noah-isme/nursery-checkin-api/pkg/config"
	"github.com/noah-isme/nursery-checkin-api/pkg/database"
	"github.com/noah-isme/nursery-checkin-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/nursery-checkin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/nursery-checkin-api/pkg/middleware/requestid"
)

// @title Nursery Check-in API
// @version 1.0.0
// @description QR-based attendance core: scan check-in/out, group placement, section staffing compliance
// @BasePath /
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	// Redis is optional. Without it roster reads fall through to postgres.
	var cacheRepo service.CacheRepository
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, roster cache disabled", "error", err)
	} else {
		defer redisClient.Close()
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Roster.CacheTTL, logr, cfg.Roster.CacheEnabled)

	childRepo := repository.NewChildRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	scanRepo := repository.NewScanEventRepository(db)
	attendanceRepo := repository.NewDailyAttendanceRepository(db)
	educatorRepo := repository.NewEducatorRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	scanSvc := service.NewScanService(childRepo, scanRepo, attendanceRepo, auditRepo, metricsSvc, cfg.Checkin, nil, logr)
	groupSvc := service.NewGroupService(groupRepo, childRepo, auditRepo, cacheSvc, nil, logr)
	complianceSvc := service.NewComplianceService(groupRepo, cfg.Sections.Policies, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, scanRepo, nil, logr)
	childSvc := service.NewChildService(childRepo, auditRepo, cfg.Checkin.CodePrefix, nil, logr)
	educatorSvc := service.NewEducatorService(educatorRepo, logr)

	scanHandler := handler.NewScanHandler(scanSvc)
	groupHandler := handler.NewGroupHandler(groupSvc)
	complianceHandler := handler.NewComplianceHandler(complianceSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	childHandler := handler.NewChildHandler(childSvc)
	educatorHandler := handler.NewEducatorHandler(educatorSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(cfg.JWT.Secret))

	staffOnly := middleware.RequireRoles(models.RoleAdmin, models.RoleEducator)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	api.POST("/scans", staffOnly, scanHandler.Process)
	api.GET("/scans/suggestion", staffOnly, scanHandler.Suggest)

	api.GET("/children", childHandler.List)
	api.GET("/children/:id", childHandler.Get)
	api.POST("/children", adminOnly, childHandler.Create)
	api.PATCH("/children/:id/status", adminOnly, childHandler.ChangeStatus)
	api.POST("/children/:id/group", staffOnly, groupHandler.Assign)
	api.DELETE("/children/:id/group", staffOnly, groupHandler.Unassign)

	api.GET("/groups", groupHandler.List)
	api.GET("/groups/:id/roster", groupHandler.Roster)
	api.GET("/groups/:id/eligibility", groupHandler.Eligibility)

	api.GET("/sections/compliance", complianceHandler.All)
	api.GET("/sections/:id/compliance", complianceHandler.Section)

	api.GET("/attendance/daily", attendanceHandler.Register)
	api.GET("/attendance/daily/export", staffOnly, attendanceHandler.Export)
	api.GET("/attendance/summary", attendanceHandler.Summary)
	api.GET("/attendance/children/:id/history", attendanceHandler.History)

	api.GET("/educators", educatorHandler.List)
	api.GET("/educators/:id", educatorHandler.Get)

	api.GET("/metrics/snapshot", adminOnly, metricsHandler.Snapshot)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
