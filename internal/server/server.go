// Package server assembles the HTTP surface: router, middleware chain
// and route registration, plus server lifecycle.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/classpoint/school-backend/internal/api"
	"github.com/classpoint/school-backend/internal/domain"
	"github.com/classpoint/school-backend/internal/service"
	"github.com/classpoint/school-backend/internal/storage"
	"github.com/classpoint/school-backend/pkg/config"
	"github.com/classpoint/school-backend/pkg/middleware"
)

// Server owns the gin router and the http.Server lifecycle.
type Server struct {
	cfg        *config.Config
	logger     *zap.Logger
	router     *gin.Engine
	httpServer *http.Server
}

// New builds the router with the full middleware chain and all routes
// registered.
func New(cfg *config.Config, store storage.Store, services *service.Services, logger *zap.Logger) *Server {
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
	}))

	handlers := api.NewHandlers(services, cfg, logger)

	router.GET("/health", handlers.Status)
	router.GET("/status", handlers.Status)

	authRequired := middleware.Auth(cfg, store, logger)
	adminOnly := middleware.RequireRoles(domain.RoleAdmin)
	staffOnly := middleware.RequireRoles(domain.RoleAdmin, domain.RoleTeacher)
	loginLimiter := middleware.NewAuthRateLimiter(cfg.RateLimit, logger)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", loginLimiter.Middleware(), handlers.Login)
			auth.POST("/register", authRequired, adminOnly, handlers.Register)
			auth.GET("/me", authRequired, handlers.Me)
		}

		subjects := v1.Group("/subjects", authRequired)
		{
			subjects.POST("", staffOnly, handlers.CreateSubject)
			subjects.GET("", handlers.ListSubjects)
			subjects.GET("/:id", handlers.GetSubject)
			subjects.PUT("/:id", adminOnly, handlers.UpdateSubject)
			subjects.DELETE("/:id", adminOnly, handlers.ArchiveSubject)
			subjects.PUT("/:id/restore", adminOnly, handlers.RestoreSubject)
			subjects.DELETE("/:id/permanent", adminOnly, handlers.DeleteSubjectPermanently)

			subjects.PUT("/:id/assign-teacher", adminOnly, handlers.AssignTeacher)
			subjects.PUT("/:id/unassign-teacher", adminOnly, handlers.UnassignTeacher)
			subjects.PUT("/:id/enroll-student", staffOnly, handlers.EnrollStudent)
			subjects.PUT("/:id/unenroll-student/:studentIdentifier", staffOnly, handlers.UnenrollStudent)
			subjects.PUT("/:id/bulk-enroll-students", staffOnly, handlers.BulkEnrollStudents)
		}

		events := v1.Group("/events", authRequired)
		{
			events.GET("", handlers.ListEvents)
			events.GET("/:id", handlers.GetEvent)
			events.POST("", staffOnly, handlers.CreateEvent)
		}
	}

	return &Server{
		cfg:    cfg,
		logger: logger.Named("server"),
		router: router,
	}
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.Info("HTTP server listening", zap.String("address", addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	return nil
}
