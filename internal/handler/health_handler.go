package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthHandler reports process liveness and session-store reachability.
type HealthHandler struct {
	sessionDB *mongo.Client
}

func NewHealthHandler(sessionDB *mongo.Client) *HealthHandler {
	return &HealthHandler{sessionDB: sessionDB}
}

func (h *HealthHandler) Register(r fiber.Router) {
	r.Get("/health", h.health)
}

func (h *HealthHandler) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"sessions": h.checkDB(h.sessionDB),
	})
}

func (h *HealthHandler) checkDB(client *mongo.Client) string {
	if client == nil {
		return "not_configured"
	}
	if err := client.Ping(context.Background(), nil); err != nil {
		return "error"
	}
	return "connected"
}
