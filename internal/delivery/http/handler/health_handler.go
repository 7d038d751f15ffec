package handler

import (
	"context"

	"skill-twin/internal/infrastructure/cache"
	"skill-twin/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	redis *cache.Redis
}

func NewHealthHandler(db Pinger, redis *cache.Redis) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

func (h *HealthHandler) RegisterRoutes(app *fiber.App) {
	if app == nil {
		return
	}
	app.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	dbStatus := "up"
	if h.db == nil || h.db.Ping(c.Context()) != nil {
		dbStatus = "down"
	}

	cacheStatus := "up"
	if h.redis == nil || h.redis.Ping(c.Context()) != nil {
		cacheStatus = "down"
	}

	data := map[string]string{
		"database": dbStatus,
		"cache":    cacheStatus,
	}
	if dbStatus == "down" {
		return response.Error(c, fiber.StatusServiceUnavailable, "unhealthy", data)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}
