// Package provider implements the LLM provider adapters.
//
// Omni Chat supports multiple LLM providers (OpenAI, Gemini, Ollama,
// Anthropic) through the common model.Provider interface. This keeps the
// chat orchestrator and HTTP layer provider-agnostic: adding a provider
// means implementing the interface and registering it in the factory.
//
// # Responsibilities
//
// The provider layer owns everything provider-specific:
//   - Wire-format conversions between model.Message and each SDK's message
//     types (see conversions.go)
//   - Model family classification: reasoning models and live-search models
//     take different request shapes than standard chat models (classify.go)
//   - Per-provider tunable option allow-lists (params.go)
//
// Adapters never translate failures into user-facing strings; they return
// raw errors and let the chat orchestrator shape the outcome.
//
// # Usage
//
//	cfg := provider.Config{
//	    Type:   provider.ProviderTypeOpenAI,
//	    APIKey: "sk-...",
//	    Model:  "gpt-4.1",
//	}
//	p, err := provider.NewProvider(cfg)
//	if err != nil {
//	    // handle error
//	}
//	reply, err := p.Call(ctx, messages, options)
package provider

// Note: The Provider interface and TokenCallback are defined in the model
// package (model/provider.go) to avoid import cycles. This package
// implements model.Provider.

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeOpenAI    ProviderType = "openai"
	ProviderTypeGemini    ProviderType = "gemini"
	ProviderTypeOllama    ProviderType = "ollama"
	ProviderTypeAnthropic ProviderType = "anthropic"
)

// Config holds provider-specific configuration.
type Config struct {
	Type    ProviderType
	BaseURL string
	Model   string
	APIKey  string // For cloud providers (unused for Ollama)
}
