package model

import "context"

// Provider abstracts LLM provider implementations (OpenAI, Gemini, Ollama,
// Anthropic) using provider-agnostic types from the model layer.
//
// This interface is defined in the model package (not provider package) to
// avoid import cycles: provider implementations can import model, and the
// chat orchestrator can use the Provider interface without importing the
// provider package.
//
// Adapters are stateless with respect to requests: messages arrive fully
// normalized, options arrive already filtered to what the adapter accepts,
// and transport or protocol failures are returned raw. Translating failures
// into the user-facing result shape is the orchestrator's job, not the
// adapter's.
type Provider interface {
	// Name returns the human-readable provider name used in error strings
	// (e.g. "OpenAI", "Gemini").
	Name() string

	// Call sends the conversation and returns the complete reply text.
	Call(ctx context.Context, messages []Message, options map[string]any) (string, error)

	// CallStream sends the conversation and delivers the reply incrementally
	// through callback. Providers without token streaming for the selected
	// model fall back to Call and deliver the whole reply as one chunk.
	CallStream(ctx context.Context, messages []Message, options map[string]any, callback TokenCallback) error

	// ListModels returns the models available from this provider.
	ListModels(ctx context.Context) ([]ModelInfo, error)

	// Ping checks if the provider backend is reachable.
	Ping(ctx context.Context) error
}

// TokenCallback is called for each chunk of a streamed reply. Returning an
// error stops the stream.
type TokenCallback func(token string) error

// ModelInfo describes one model offered by a provider.
type ModelInfo struct {
	Name     string `json:"name"`
	Size     int64  `json:"size,omitempty"`
	Provider string `json:"provider"`
}
