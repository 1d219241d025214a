// Package v1 holds the HTTP handlers for the public API surface. Handlers
// bind and validate payloads, delegate to the engines, and attach errors
// for the error middleware to serialize.
package v1

import (
	"go.uber.org/zap"

	"github.com/arbiter-ai/arbiter/internal/core/services"
	"github.com/arbiter-ai/arbiter/internal/server/validator"
	"github.com/arbiter-ai/arbiter/internal/store/cache"
)

type Handler struct {
	router    *services.RouterEngine
	seal      *services.SealEngine
	cache     cache.CacheService
	validator *validator.Validator
	logger    *zap.Logger
	version   string
}

func NewHandler(router *services.RouterEngine, seal *services.SealEngine, c cache.CacheService, v *validator.Validator, logger *zap.Logger, version string) *Handler {
	return &Handler{
		router:    router,
		seal:      seal,
		cache:     c,
		validator: v,
		logger:    logger,
		version:   version,
	}
}
