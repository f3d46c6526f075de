package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ahmedsami/octochat/internal/service"
)

// RegisterRoutes mounts every versioned API endpoint.
func RegisterRoutes(app *fiber.App, agentSvc service.AgentService, sessions SessionStore) {
	v1 := app.Group("/api/v1")
	NewChatHandler(agentSvc, sessions).Register(v1)
}
