package service

import (
	"context"
	"fmt"
	"log"

	"github.com/ahmedsami/octochat/internal/intent"
	"github.com/ahmedsami/octochat/internal/models"
)

// ---- Collaborator contracts ------------------------------------------------

// ChatModel is the chat-completion endpoint.
type ChatModel interface {
	Chat(ctx context.Context, messages []models.Message, tools []models.Tool) (models.Message, error)
}

// ToolCatalog supplies the tool descriptors offered to the model.
type ToolCatalog interface {
	Tools(ctx context.Context) ([]models.Tool, error)
}

// ToolExecutor dispatches a single tool invocation. Failures come back as
// an error payload string, never as an error.
type ToolExecutor interface {
	Execute(ctx context.Context, name string, args map[string]any) string
}

// ---- Service interface + implementation ------------------------------------

// AgentService answers a conversation: table/chart requests take the
// direct GitHub fast path, everything else runs the bounded tool-calling
// loop against the model.
type AgentService interface {
	Respond(ctx context.Context, history []models.Message, obs Observer) string
}

type agentService struct {
	direct       DirectService
	chat         ChatModel
	catalog      ToolCatalog
	executor     ToolExecutor
	systemPrompt string
	maxRounds    int
}

// NewAgentService wires the fast path, model, and tool proxy.
func NewAgentService(direct DirectService, chat ChatModel, catalog ToolCatalog,
	executor ToolExecutor, systemPrompt string, maxRounds int) AgentService {
	return &agentService{
		direct:       direct,
		chat:         chat,
		catalog:      catalog,
		executor:     executor,
		systemPrompt: systemPrompt,
		maxRounds:    maxRounds,
	}
}

// Respond implements the request pipeline. The returned string is always
// user-facing: model errors are reported as text, not propagated.
func (s *agentService) Respond(ctx context.Context, history []models.Message, obs Observer) string {
	userMsg := latestUserMessage(history)

	// Fast path: confidently classified table/chart requests skip the model.
	if f := intent.DetectFormat(userMsg); f == models.FormatTable || f == models.FormatChart {
		notify(obs, "Searching GitHub...", false)
		result, ok := s.direct.Format(ctx, userMsg)
		notify(obs, "", true)
		if ok {
			return result
		}
		// Direct search missed; fall through to the model path.
	}

	tools, err := s.catalog.Tools(ctx)
	if err != nil {
		// A dead proxy degrades to a plain conversation, not a failure.
		log.Printf("tool discovery failed: %v", err)
		tools = nil
	}

	messages := make([]models.Message, 0, len(history)+1)
	messages = append(messages, models.Message{Role: "system", Content: s.systemPrompt})
	messages = append(messages, history...)

	for round := 0; round < s.maxRounds; round++ {
		notify(obs, fmt.Sprintf("Thinking... (round %d)", round+1), false)

		resp, err := s.chat.Chat(ctx, messages, tools)
		if err != nil {
			return fmt.Sprintf("Error calling Ollama: %v", err)
		}

		if len(resp.ToolCalls) == 0 {
			notify(obs, "", true)
			if text := Clean(resp.Content); text != "" {
				return text
			}
			return "No response generated."
		}

		// Tool calls execute in the order the model requested them, each
		// result appended to the transcript before the next round.
		messages = append(messages, resp)
		for _, tc := range resp.ToolCalls {
			notify(obs, fmt.Sprintf("Calling %s...", tc.Function.Name), false)
			result := s.executor.Execute(ctx, tc.Function.Name, tc.Function.ArgumentMap())
			messages = append(messages, models.Message{Role: "tool", Content: result})
		}
	}

	// Round limit reached: one last call with no tools offered.
	notify(obs, "Generating response...", false)
	resp, err := s.chat.Chat(ctx, messages, nil)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	notify(obs, "", true)
	return Clean(resp.Content)
}

// latestUserMessage returns the content of the most recent user turn.
func latestUserMessage(history []models.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "user" {
			return history[i].Content
		}
	}
	return ""
}
