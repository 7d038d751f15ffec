package routes

import (
	"log"

	"skill-twin/internal/config"
	"skill-twin/internal/database"
	v1 "skill-twin/internal/delivery/http/routes/v1"
	"skill-twin/internal/infrastructure/cache"
	"skill-twin/internal/ws"

	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, cfg config.Config, db database.DB, redis *cache.Redis, hub *ws.Hub, logger *log.Logger) {
	if r == nil {
		return
	}

	v1.Register(r, cfg, db, redis, hub, logger)
}
