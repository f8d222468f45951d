package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/seeder/legie-metadata/internal/covercache"
)

type HealthHandler struct {
	covers *covercache.Store
}

func NewHealthHandler(covers *covercache.Store) *HealthHandler {
	return &HealthHandler{covers: covers}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	cache := "up"
	status := "ok"
	code := fiber.StatusOK
	if h.covers == nil {
		cache = "disabled"
	} else if err := h.covers.Ping(); err != nil {
		cache = "down"
		status = "degraded"
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"cache":  cache,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
