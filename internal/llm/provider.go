package llm

import (
	"context"
	"encoding/json"
)

// Provider is the capability interface for the external generative-text
// service. Keeping it narrow lets tests swap in a deterministic mock with
// no network involved.
type Provider interface {
	// Generate sends a prompt and returns structured output. When the
	// request carries a Schema, the returned Content is JSON that has been
	// validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured with.
	ModelID() string
}

// Request describes one generation call.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// User is the user-turn prompt. The quiz pipeline is single-turn.
	User string

	// Schema, when set, constrains the output to a JSON structure and
	// enables native structured-output on providers that support it.
	Schema *Schema

	// MaxTokens bounds the response length.
	MaxTokens int

	// Temperature controls randomness, 0.0–1.0. Zero means deterministic.
	Temperature float64
}

// Schema describes the JSON structure expected from the model.
type Schema struct {
	// Name identifies the schema to the provider (kebab-case).
	Name string

	// Description is sent to the model to guide generation.
	Description string

	// Definition is the JSON Schema definition.
	Definition map[string]any
}

// Response holds the model output.
type Response struct {
	// Content is the generated JSON (validated when a Schema was given).
	Content json.RawMessage

	// Usage reports token consumption.
	Usage Usage

	// Model is the model that actually served the request.
	Model string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
