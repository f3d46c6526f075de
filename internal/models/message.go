package models

import "encoding/json"

// Message is a single chat-transcript entry in the Ollama wire format.
// Assistant messages may carry tool calls; tool results come back as
// role "tool".
type Message struct {
	Role      string     `json:"role"            bson:"role"`
	Content   string     `json:"content"         bson:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty" bson:"tool_calls,omitempty"`
}

// ToolCall is a model-requested invocation of a named tool.
type ToolCall struct {
	Function ToolCallFunction `json:"function" bson:"function"`
}

// ToolCallFunction carries the tool name and its raw argument payload.
// Arguments stay raw because models emit either a JSON object or a
// JSON-encoded string; decoding is deferred to the dispatch site.
type ToolCallFunction struct {
	Name      string          `json:"name"      bson:"name"`
	Arguments json.RawMessage `json:"arguments" bson:"arguments"`
}

// ArgumentMap decodes the call's arguments into a map. Malformed or
// absent payloads yield an empty map rather than an error—the round
// must not fail on a sloppy model.
func (f ToolCallFunction) ArgumentMap() map[string]any {
	if len(f.Arguments) == 0 {
		return map[string]any{}
	}
	var args map[string]any
	if err := json.Unmarshal(f.Arguments, &args); err == nil && args != nil {
		return args
	}
	// Some models double-encode: a JSON string containing JSON.
	var s string
	if err := json.Unmarshal(f.Arguments, &s); err == nil {
		if err := json.Unmarshal([]byte(s), &args); err == nil && args != nil {
			return args
		}
	}
	return map[string]any{}
}

// Tool is an Ollama-style function tool descriptor offered to the model.
type Tool struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolFunction describes one invokable operation.
type ToolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  ToolParameters `json:"parameters"`
}

// ToolParameters is the JSON-schema object describing a tool's arguments.
type ToolParameters struct {
	Type       string                  `json:"type"`
	Properties map[string]ToolProperty `json:"properties"`
	Required   []string                `json:"required"`
}

// ToolProperty is a single argument schema, reduced to the fields the
// model actually consumes.
type ToolProperty struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Items       any    `json:"items,omitempty"`
}
