// Package mcpo talks to an mcpo tool proxy: it discovers invokable tools
// from the proxy's OpenAPI document and executes them over plain POSTs.
package mcpo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/ahmedsami/octochat/internal/models"
)

// maxResultLen caps tool output fed back into the model transcript,
// counted in characters.
const maxResultLen = 6000

// priorityTools is the default allow-list; the proxy exposes dozens of
// endpoints but only these earn a seat in the model's tool list unless
// UseAllTools is set.
var priorityTools = map[string]bool{
	"search_repositories": true, "search_code": true, "search_issues": true,
	"search_users": true, "list_issues": true, "list_pull_requests": true,
	"list_commits": true, "get_issue": true, "get_pull_request": true,
	"get_file_contents": true, "create_issue": true, "add_issue_comment": true,
}

// Client is a minimal wrapper around one mcpo proxy instance.
type Client struct {
	baseURL     string
	useAllTools bool
	discover    *http.Client
	execute     *http.Client
}

// NewClient returns a ready-to-use proxy client.
func NewClient(baseURL string, useAllTools bool) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		useAllTools: useAllTools,
		discover:    &http.Client{Timeout: 10 * time.Second},
		execute:     &http.Client{Timeout: 30 * time.Second},
	}
}

// openapiDoc is the subset of an OpenAPI document we consume.
type openapiDoc struct {
	Paths      map[string]map[string]operation `json:"paths"`
	Components struct {
		Schemas map[string]schemaObject `json:"schemas"`
	} `json:"components"`
}

type operation struct {
	Summary     string `json:"summary"`
	Description string `json:"description"`
	RequestBody struct {
		Content map[string]struct {
			Schema schemaObject `json:"schema"`
		} `json:"content"`
	} `json:"requestBody"`
}

type schemaObject struct {
	Ref        string              `json:"$ref"`
	Properties map[string]property `json:"properties"`
	Required   []string            `json:"required"`
}

type property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Items       any    `json:"items"`
}

// FetchTools loads the proxy's OpenAPI document and derives a tool
// descriptor per POST path. Only one level of schema reference is
// resolved—mcpo never nests deeper.
func (c *Client) FetchTools(ctx context.Context) ([]models.Tool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/openapi.json", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.discover.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch openapi spec: %w", err)
	}
	defer resp.Body.Close()

	var doc openapiDoc
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode openapi spec: %w", err)
	}

	var tools []models.Tool
	for path, methods := range doc.Paths {
		for method, op := range methods {
			if !strings.EqualFold(method, "post") {
				continue
			}
			name := strings.Trim(path, "/")
			if !c.useAllTools && !priorityTools[name] {
				continue
			}
			tools = append(tools, models.Tool{
				Type: "function",
				Function: models.ToolFunction{
					Name:        name,
					Description: describe(op, name),
					Parameters:  c.parameters(op, doc),
				},
			})
		}
	}
	// Path maps iterate in random order; keep the offered list stable.
	sort.Slice(tools, func(i, j int) bool {
		return tools[i].Function.Name < tools[j].Function.Name
	})
	return tools, nil
}

func describe(op operation, fallback string) string {
	if op.Description != "" {
		return op.Description
	}
	if op.Summary != "" {
		return op.Summary
	}
	return fallback
}

// parameters derives the tool's argument schema from its request body,
// resolving a one-level #/components/schemas reference when present.
func (c *Client) parameters(op operation, doc openapiDoc) models.ToolParameters {
	params := models.ToolParameters{
		Type:       "object",
		Properties: map[string]models.ToolProperty{},
		Required:   []string{},
	}

	resolved := op.RequestBody.Content["application/json"].Schema
	if resolved.Ref != "" {
		parts := strings.Split(resolved.Ref, "/")
		resolved = doc.Components.Schemas[parts[len(parts)-1]]
	}

	for name, p := range resolved.Properties {
		cp := models.ToolProperty{
			Type:        p.Type,
			Description: p.Description,
			Items:       p.Items,
		}
		if cp.Type == "" {
			cp.Type = "string"
		}
		if cp.Description == "" {
			cp.Description = name
		}
		params.Properties[name] = cp
	}
	if resolved.Required != nil {
		params.Required = resolved.Required
	}
	return params
}

// Execute POSTs the argument object to the named tool and returns the raw
// response text, truncated to fit the transcript budget. Transport errors
// come back as a JSON error payload, never as a Go error—the agent treats
// a failed tool like any other tool result.
func (c *Client) Execute(ctx context.Context, name string, args map[string]any) string {
	body, err := json.Marshal(args)
	if err != nil {
		return errorPayload(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+name, bytes.NewReader(body))
	if err != nil {
		return errorPayload(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.execute.Do(req)
	if err != nil {
		return errorPayload(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errorPayload(err)
	}

	result := string(raw)
	if r := []rune(result); len(r) > maxResultLen {
		result = string(r[:maxResultLen]) + "\n... (truncated)"
	}
	return result
}

func errorPayload(err error) string {
	payload, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(payload)
}
