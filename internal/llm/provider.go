package llm

import (
	"context"
	"encoding/json"
)

// Provider sends a single request to a language model.
type Provider interface {
	// Generate sends the request and returns the model output. When
	// req.Schema is set the provider asks for native structured output and
	// validates the result against the schema before returning it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is the optional system prompt.
	System string

	// Messages is the conversation. Grading sends a single user message.
	Messages []Message

	// Schema, when set, constrains the response to JSON matching it.
	// When nil, Response.Content holds the raw text reply.
	Schema *Schema

	MaxTokens int

	// Temperature in [0,1]. Zero leaves the provider default in place.
	Temperature float64
}

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema.
type Schema struct {
	// Name identifies the schema to the provider and keys the compiled
	// schema cache. Kebab-case, e.g. "explanation-score".
	Name string

	Description string

	// Definition is the JSON Schema document as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the validated JSON object when a Schema was requested,
	// otherwise the raw reply text.
	Content json.RawMessage

	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
