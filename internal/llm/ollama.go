// Package llm wraps the Ollama chat API, including function-tool calling.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ahmedsami/octochat/internal/models"
)

// OllamaChat calls the Ollama /api/chat endpoint for generative responses.
type OllamaChat struct {
	baseURL string
	model   string
	numCtx  int
	client  *http.Client
}

// NewOllamaChat creates a chat client targeting the given Ollama instance
// and model, with the supplied context-window size.
func NewOllamaChat(baseURL, model string, numCtx int) *OllamaChat {
	return &OllamaChat{
		baseURL: baseURL,
		model:   model,
		numCtx:  numCtx,
		client: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

type chatOptions struct {
	NumCtx int `json:"num_ctx"`
}

type chatRequest struct {
	Model    string           `json:"model"`
	Messages []models.Message `json:"messages"`
	Stream   bool             `json:"stream"`
	Options  chatOptions      `json:"options"`
	Tools    []models.Tool    `json:"tools,omitempty"`
}

type chatResponse struct {
	Message models.Message `json:"message"`
}

// Chat sends a conversation to Ollama and returns the assistant's message.
// When tools is non-empty the model may answer with tool calls instead of
// (or alongside) content.
func (c *OllamaChat) Chat(ctx context.Context, messages []models.Message, tools []models.Tool) (models.Message, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		Options:  chatOptions{NumCtx: c.numCtx},
		Tools:    tools,
	})
	if err != nil {
		return models.Message{}, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return models.Message{}, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return models.Message{}, fmt.Errorf("ollama chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return models.Message{}, fmt.Errorf("ollama chat returned %d: %s", resp.StatusCode, string(respBody))
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return models.Message{}, fmt.Errorf("decode chat response: %w", err)
	}

	return result.Message, nil
}
