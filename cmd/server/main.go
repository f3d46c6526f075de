package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ahmedsami/octochat/internal/config"
	"github.com/ahmedsami/octochat/internal/database"
	"github.com/ahmedsami/octochat/internal/github"
	"github.com/ahmedsami/octochat/internal/handler"
	"github.com/ahmedsami/octochat/internal/llm"
	"github.com/ahmedsami/octochat/internal/mcpo"
	"github.com/ahmedsami/octochat/internal/repository"
	"github.com/ahmedsami/octochat/internal/service"
)

// main is the single entry‑point for the chat agent API.
func main() {
	// Load configuration
	cfg := config.Load()
	log.Printf("Configuration loaded:")
	log.Printf("  - Model: %s (ctx %d)", cfg.ModelID, cfg.NumCtx)
	log.Printf("  - Ollama: %s", cfg.OllamaBaseURL)
	log.Printf("  - Tool proxy: %s (all tools: %t, max rounds: %d)", cfg.MCPOBaseURL, cfg.UseAllTools, cfg.MaxToolRounds)

	// Session store is optional; without it the server still answers
	// requests that carry their transcript inline.
	var sessions handler.SessionStore
	var healthHandler *handler.HealthHandler
	if cfg.MongoURI != "" {
		client, ctx, cancel, err := database.NewMongo(cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer cancel()
		defer client.Disconnect(ctx)
		log.Printf("Connected to MongoDB (db %s)", cfg.DBName)

		sessions = repository.NewSessionRepository(client.Database(cfg.DBName))
		healthHandler = handler.NewHealthHandler(client)
	} else {
		log.Printf("MONGODB_URI not set; session persistence disabled")
		healthHandler = handler.NewHealthHandler(nil)
	}

	// External collaborators
	gh := github.NewClient(cfg.GitHubToken)
	proxy := mcpo.NewClient(cfg.MCPOBaseURL, cfg.UseAllTools)
	catalog := mcpo.NewCatalog(proxy)
	chat := llm.NewOllamaChat(cfg.OllamaBaseURL, cfg.ModelID, cfg.NumCtx)

	// Services
	directSvc := service.NewDirectService(gh)
	agentSvc := service.NewAgentService(directSvc, chat, catalog, proxy, cfg.SystemPrompt, cfg.MaxToolRounds)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	// Add middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// Register routes
	handler.RegisterRoutes(app, agentSvc, sessions)
	healthHandler.Register(app)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
