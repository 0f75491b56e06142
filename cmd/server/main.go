package main

import (
	"context"
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

	"github.com/shule-labs/school-admin-api/internal/handler"
	"github.com/shule-labs/school-admin-api/internal/middleware"
	"github.com/shule-labs/school-admin-api/internal/models"
	"github.com/shule-labs/school-admin-api/internal/repository"
	"github.com/shule-labs/school-admin-api/internal/service"
	"github.com/shule-labs/school-admin-api/pkg/cache"
	"github.com/shule-labs/school-admin-api/pkg/config"
	"github.com/shule-labs/school-admin-api/pkg/database"
	"github.com/shule-labs/school-admin-api/pkg/export"
	"github.com/shule-labs/school-admin-api/pkg/jobs"
	"github.com/shule-labs/school-admin-api/pkg/logger"
	corsmiddleware "github.com/shule-labs/school-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/shule-labs/school-admin-api/pkg/middleware/requestid"
	"github.com/shule-labs/school-admin-api/pkg/storage"
)

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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	var cacheRepo *repository.CacheRepository
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Analytics.CacheTTL, logr, cacheRepo != nil)

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	schoolRepo := repository.NewSchoolRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	reportRepo := repository.NewReportRepository(db)
	exportJobRepo := repository.NewExportJobRepository(db)

	// Export infrastructure.
	files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	// Services.
	validate := validator.New()
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret:        cfg.JWT.Secret,
		TokenExpiry:        cfg.JWT.Expiration,
		Issuer:             cfg.JWT.Issuer,
		RegisterAccessCode: cfg.Register.AccessCode,
	})
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, cacheSvc, metricsSvc, logr, cfg.Analytics.LookbackDays, cfg.Analytics.CacheTTL)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, cacheSvc, analyticsSvc, logr, cfg.Analytics.CacheTTL)
	importSvc := service.NewImportService(studentRepo, teacherRepo, attendanceRepo, analyticsSvc, logr)
	reportSvc := service.NewReportService(reportRepo, schoolRepo, export.NewSchoolReportPDF(), logr)
	resourceSvc := service.NewResourceService(resourceRepo, analyticsSvc, logr)
	schoolSvc := service.NewSchoolService(schoolRepo, analyticsSvc, logr)
	studentSvc := service.NewStudentService(studentRepo, analyticsSvc, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, analyticsSvc, logr)
	exportSvc := service.NewExportService(schoolRepo, files, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
	}, logr, nil, nil, nil)
	exportJobSvc := service.NewExportJobService(exportJobRepo, exportSvc, metricsSvc, logr, jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		Logger:     logr,
	})

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	exportJobSvc.Start(workerCtx)
	exportJobSvc.RunCleanupLoop(workerCtx, cfg.Exports.CleanupInterval)

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc, importSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	resourceHandler := handler.NewResourceHandler(resourceSvc)
	schoolHandler := handler.NewSchoolHandler(schoolSvc)
	studentHandler := handler.NewStudentHandler(studentSvc, importSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc, importSvc)
	exportHandler := handler.NewExportHandler(exportJobSvc, exportSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

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

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	adminOnly := middleware.RequireRoles(models.RoleAdmin, models.RoleITAdmin)
	anyRole := middleware.RequireRoles(models.RoleAdmin, models.RoleITAdmin, models.RoleSchool)

	admin := authed.Group("/admin")
	admin.GET("/analytics/dashboard", adminOnly, analyticsHandler.Dashboard)
	admin.GET("/analytics/overview", adminOnly, analyticsHandler.Overview)
	admin.GET("/attendance/weekly", adminOnly, attendanceHandler.WeeklySummary)
	admin.GET("/resources/summary", adminOnly, resourceHandler.Summary)
	admin.GET("/reports", adminOnly, reportHandler.Schools)
	admin.GET("/reports/:schoolId", adminOnly, reportHandler.Generate)
	admin.GET("/reports/:schoolId/pdf", adminOnly, reportHandler.GeneratePDF)
	admin.GET("/schools", adminOnly, schoolHandler.List)
	admin.GET("/schools/:id", adminOnly, schoolHandler.Get)
	admin.DELETE("/schools/:id", adminOnly, schoolHandler.Delete)

	students := authed.Group("/students", anyRole)
	students.GET("", studentHandler.List)
	students.POST("", studentHandler.Create)
	students.GET("/grades", studentHandler.Grades)
	students.GET("/classes", studentHandler.Classes)
	students.POST("/import", studentHandler.Import)
	students.GET("/:id", studentHandler.Get)
	students.PUT("/:id", studentHandler.Update)
	students.DELETE("/:id", studentHandler.Delete)

	teachers := authed.Group("/teachers", anyRole)
	teachers.GET("", teacherHandler.List)
	teachers.POST("", teacherHandler.Create)
	teachers.POST("/import", teacherHandler.Import)
	teachers.GET("/:id", teacherHandler.Get)
	teachers.PUT("/:id", teacherHandler.Update)
	teachers.DELETE("/:id", teacherHandler.Delete)

	resources := authed.Group("/resources", anyRole)
	resources.GET("", resourceHandler.List)
	resources.POST("", resourceHandler.Create)
	resources.PUT("/:id", resourceHandler.Update)
	resources.DELETE("/:id", resourceHandler.Delete)

	attendance := authed.Group("/attendance", anyRole)
	attendance.POST("/students", attendanceHandler.MarkStudents)
	attendance.POST("/teachers", attendanceHandler.MarkTeachers)
	attendance.POST("/students/import", attendanceHandler.ImportStudents)
	attendance.POST("/teachers/import", attendanceHandler.ImportTeachers)
	attendance.GET("/students/sessions", attendanceHandler.StudentSessions)
	attendance.GET("/teachers/sessions", attendanceHandler.TeacherSessions)
	attendance.GET("/students/sessions/:date", attendanceHandler.StudentDetails)
	attendance.GET("/teachers/sessions/:date", attendanceHandler.TeacherDetails)

	exports := authed.Group("/exports")
	exports.POST("", adminOnly, exportHandler.Enqueue)
	exports.GET("/now", adminOnly, exportHandler.DownloadNow)
	exports.GET("/:id", exportHandler.Status)
	api.GET("/exports/download/:token", exportHandler.Download)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("forced shutdown", zap.Error(err))
	}

	stopWorkers()
	exportJobSvc.Stop()
	logr.Info("stopped")
}
