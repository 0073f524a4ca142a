package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/edupanel/edupanel-go/api/swagger"
	"github.com/edupanel/edupanel-go/internal/handler"
	"github.com/edupanel/edupanel-go/internal/middleware"
	"github.com/edupanel/edupanel-go/internal/models"
	"github.com/edupanel/edupanel-go/internal/repository"
	"github.com/edupanel/edupanel-go/internal/service"
	"github.com/edupanel/edupanel-go/pkg/cache"
	"github.com/edupanel/edupanel-go/pkg/config"
	"github.com/edupanel/edupanel-go/pkg/database"
	"github.com/edupanel/edupanel-go/pkg/logger"
	corsmiddleware "github.com/edupanel/edupanel-go/pkg/middleware/cors"
	reqidmiddleware "github.com/edupanel/edupanel-go/pkg/middleware/requestid"
	"github.com/edupanel/edupanel-go/pkg/storage"
)

// @title EduPanel API
// @version 1.0.0
// @description Backend for the EduPanel school administration portal
// @BasePath /api
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
	defer db.Close() //nolint:errcheck

	var cacheRepo *repository.CacheRepository
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, list caching disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	uploads, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare uploads directory", "error", err)
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	classRepo := repository.NewClassRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	sectionSvc := service.NewSectionService(sectionRepo, cacheRepo, cfg.Cache.TTL, validate, logr)
	classSvc := service.NewClassService(classRepo, sectionRepo, cacheRepo, cfg.Cache.TTL, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, userRepo, classRepo, validate, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, classRepo, validate, logr)
	notificationSvc := service.NewNotificationService(notificationRepo, classRepo, studentRepo, validate, logr)
	importSvc := service.NewImportService(studentRepo, userRepo, classRepo, uploads, logr)
	exportSvc := service.NewExportService(studentRepo, classRepo, logr)
	metricsSvc := service.NewMetricsService()

	authHandler := handler.NewAuthHandler(authSvc)
	sectionHandler := handler.NewSectionHandler(sectionSvc)
	classHandler := handler.NewClassHandler(classSvc)
	studentHandler := handler.NewStudentHandler(studentSvc, importSvc, exportSvc, metricsSvc, uploads)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc, uploads)
	notificationHandler := handler.NewNotificationHandler(notificationSvc, uploads)
	profileHandler := handler.NewProfileHandler(studentSvc, uploads)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.MaxMultipartMemory = cfg.Uploads.MaxFileSizeBytes

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.Static("/uploads", uploads.Dir())

	api := r.Group("/api")
	api.POST("/login", authHandler.Login)
	api.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "API is reachable"})
	})

	authed := api.Group("")
	authed.Use(middleware.JWTAuth(authSvc))
	{
		authed.GET("/student/profile/:userId", profileHandler.Get)
		authed.PUT("/student/profile/:userId", profileHandler.Update)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.JWTAuth(authSvc), middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/sections", sectionHandler.List)
		admin.POST("/sections", sectionHandler.Create)
		admin.DELETE("/sections/:id", sectionHandler.Delete)

		admin.GET("/classes", classHandler.List)
		admin.POST("/classes", classHandler.Create)
		admin.DELETE("/classes/:id", classHandler.Delete)

		admin.GET("/students", studentHandler.List)
		admin.GET("/students/class/:classId", studentHandler.ListByClass)
		admin.POST("/students", studentHandler.Create)
		admin.PUT("/students/:id", studentHandler.Update)
		admin.DELETE("/students/:id", studentHandler.Delete)
		admin.POST("/students/bulk-upload", studentHandler.BulkUpload)
		admin.POST("/students/bulk-upload-zip", studentHandler.BulkUploadZip)
		admin.GET("/students/export/:classId", studentHandler.Export)

		admin.GET("/assignments", assignmentHandler.List)
		admin.POST("/assignments", assignmentHandler.Create)
		admin.PUT("/assignments/:id", assignmentHandler.Update)
		admin.DELETE("/assignments/:id", assignmentHandler.Delete)

		admin.GET("/notifications", notificationHandler.List)
		admin.POST("/notifications", notificationHandler.Create)
		admin.PUT("/notifications/:id", notificationHandler.Update)
		admin.PUT("/notifications/:id/read", notificationHandler.MarkRead)
		admin.DELETE("/notifications/:id", notificationHandler.Delete)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
