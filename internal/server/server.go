package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"validation-service/internal/config"
	"validation-service/internal/handler"
	"validation-service/internal/middleware"
	"validation-service/internal/repository"
	"validation-service/internal/service"
)

type Server struct {
	router          *gin.Engine
	db              *sqlx.DB
	cfg             *config.Config
	logger          *zap.Logger
	analysisService service.AnalysisService
}

func NewServer(db *sqlx.DB, cfg *config.Config, analysisService service.AnalysisService, logger *zap.Logger) *Server {
	router := gin.Default()

	s := &Server{
		router:          router,
		db:              db,
		cfg:             cfg,
		logger:          logger,
		analysisService: analysisService,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	authRepo := repository.NewAuthRepository(s.db, s.logger)
	authService := service.NewAuthService(
		authRepo,
		[]byte(s.cfg.Auth.JWTSecret),
		time.Duration(s.cfg.Auth.TokenTTLMinutes)*time.Minute,
		s.logger,
	)
	authHandler := handler.NewAuthHandler(authService, s.logger)
	validationHandler := handler.NewValidationHandler(s.analysisService, s.logger)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Authentication routes
	authGroup := s.router.Group("/api/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// Authenticated routes
	authRequired := s.router.Group("/api")
	authRequired.Use(middleware.AuthMiddleware([]byte(s.cfg.Auth.JWTSecret), s.logger))
	{
		authRequired.POST("/auth/logout", authHandler.Logout)
		authRequired.POST("/validate", validationHandler.ValidateTranscript)
		authRequired.POST("/lessons", validationHandler.CreateLesson)
		authRequired.GET("/lessons/:id/transcript", validationHandler.GetLessonTranscript)
		authRequired.GET("/validations", validationHandler.ListValidations)
		authRequired.GET("/validations/:id", validationHandler.GetValidation)
	}
}

func (s *Server) Run(addr string) {
	s.logger.Info("Server starting", zap.String("port", addr))
	if err := s.router.Run(addr); err != nil {
		s.logger.Fatal("Server failed to start", zap.Error(err))
	}
}
