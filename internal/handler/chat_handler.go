package handler

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ahmedsami/octochat/internal/models"
	"github.com/ahmedsami/octochat/internal/service"
)

// SessionStore persists conversation transcripts between requests.
type SessionStore interface {
	Load(ctx context.Context, id string) ([]models.Message, error)
	Append(ctx context.Context, id string, msgs ...models.Message) error
}

// ChatHandler wires HTTP → AgentService.
type ChatHandler struct {
	svc      service.AgentService
	sessions SessionStore // nil when no store is configured
}

// NewChatHandler returns a struct pointer so you can call Register on it.
func NewChatHandler(svc service.AgentService, sessions SessionStore) *ChatHandler {
	return &ChatHandler{svc: svc, sessions: sessions}
}

// Register mounts the /chat endpoint on the supplied router group.
func (h *ChatHandler) Register(r fiber.Router) {
	r.Post("/chat", h.chat)
}

// chat handles POST /chat in one of two modes:
//
//	host mode:    { "messages": [{role, content}, ...] }  — caller owns history
//	session mode: { "question": "...", "session_id": "..." } — we own history
func (h *ChatHandler) chat(c *fiber.Ctx) error {
	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}

	// Host mode: transcript supplied inline, nothing persisted.
	if len(req.Messages) > 0 {
		answer := h.svc.Respond(c.UserContext(), req.Messages, statusLogger{})
		return c.JSON(fiber.Map{"answer": answer})
	}

	if req.Question == "" {
		return fiber.NewError(fiber.StatusBadRequest, "question or messages is required")
	}
	if h.sessions == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable,
			"session persistence is not configured; send the full messages array instead")
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	history, err := h.sessions.Load(c.UserContext(), sessionID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	userTurn := models.Message{Role: "user", Content: req.Question}
	history = append(history, userTurn)

	answer := h.svc.Respond(c.UserContext(), history, statusLogger{})

	// Persist both turns; a store hiccup should not eat the answer.
	assistantTurn := models.Message{Role: "assistant", Content: answer}
	if err := h.sessions.Append(c.UserContext(), sessionID, userTurn, assistantTurn); err != nil {
		log.Printf("persist session %s: %v", sessionID, err)
	}

	return c.JSON(fiber.Map{
		"answer":     answer,
		"session_id": sessionID,
	})
}

// statusLogger mirrors phase-boundary events into the server log.
type statusLogger struct{}

func (statusLogger) Notify(description string, done bool) {
	if description != "" {
		log.Printf("status: %s", description)
	}
}
