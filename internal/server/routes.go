package server

import (
	"github.com/arbiter-ai/arbiter/internal/server/middleware"
)

func (s *Server) SetupRoutes() {
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.ErrorHandler(s.logger))

	limiter := middleware.NewRateLimiter(
		s.config.RateLimit.RequestsPerSecond,
		s.config.RateLimit.Burst,
		s.logger,
	)

	// Health Check (Public)
	s.router.GET("/health", s.handler.HandleHealth)

	api := s.router.Group("/v1")
	api.Use(limiter.Middleware())
	api.Use(middleware.Auth(s.config.Server.APIKeys))
	{
		api.POST("/route", s.handler.HandleRoute)
		api.POST("/infer", s.handler.HandleInfer)

		api.GET("/models", s.handler.HandleListModels)
		api.POST("/models", s.handler.HandleRegisterModel)
		api.GET("/models/compare", s.handler.HandleCompareModels)

		api.POST("/evaluations", s.handler.HandleEvaluate)
		api.GET("/evaluations/:id", s.handler.HandleGetEvaluation)

		api.POST("/safety/check", s.handler.HandleCheckSafety)
		api.POST("/bias/detect", s.handler.HandleDetectBias)

		api.POST("/benchmarks/cases", s.handler.HandleRegisterTestCase)
		api.POST("/benchmarks/run", s.handler.HandleRunBenchmark)

		api.GET("/stats", s.handler.HandleStats)
	}
}
