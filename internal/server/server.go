package server

import (
	"net/http"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arbiter-ai/arbiter/internal/config"
	"github.com/arbiter-ai/arbiter/internal/server/middleware"
	v1 "github.com/arbiter-ai/arbiter/internal/server/v1"
)

type Server struct {
	router  *gin.Engine
	config  *config.Config
	logger  *zap.Logger
	handler *v1.Handler
}

func New(cfg *config.Config, logger *zap.Logger, handler *v1.Handler) *Server {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(ginzap.RecoveryWithZap(logger, true))
	engine.Use(middleware.Logger(logger))
	engine.Use(middleware.Tracing("arbiter"))

	s := &Server{
		router:  engine,
		config:  cfg,
		logger:  logger,
		handler: handler,
	}

	s.SetupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}
