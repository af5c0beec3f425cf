package provider

import (
	"fmt"

	"omnichat/model"
)

// NewProvider creates a provider based on configuration.
//
// This is the centralized factory function for creating any provider type.
// It dispatches to the appropriate provider constructor based on the
// Config.Type field.
//
// Returns an error if:
//   - The provider type is unknown
//   - The provider-specific constructor fails (e.g. missing API key,
//     invalid base URL)
func NewProvider(cfg Config) (model.Provider, error) {
	switch cfg.Type {
	case ProviderTypeOpenAI:
		return NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeGemini:
		return NewGeminiProvider(cfg.APIKey, cfg.Model)
	case ProviderTypeOllama:
		return NewOllamaProvider(cfg.BaseURL, cfg.Model)
	case ProviderTypeAnthropic:
		return NewAnthropicProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// MapProviderIDToType converts a user-facing provider ID (as it appears in
// requests and providers.json) to the factory ProviderType.
//
// For unknown IDs, returns the ID cast as ProviderType; the factory will
// return an error for it.
func MapProviderIDToType(id string) ProviderType {
	switch id {
	case "openai":
		return ProviderTypeOpenAI
	case "gemini":
		return ProviderTypeGemini
	case "ollama":
		return ProviderTypeOllama
	case "anthropic":
		return ProviderTypeAnthropic
	default:
		return ProviderType(id)
	}
}

// DisplayName returns the provider name used in user-facing error strings.
func DisplayName(id string) string {
	switch id {
	case "openai":
		return "OpenAI"
	case "gemini":
		return "Gemini"
	case "ollama":
		return "Ollama"
	case "anthropic":
		return "Anthropic"
	default:
		return id
	}
}

// IsKnownProviderID reports whether id names one of the supported providers.
func IsKnownProviderID(id string) bool {
	switch id {
	case "openai", "gemini", "ollama", "anthropic":
		return true
	}
	return false
}

// IsLocalProvider reports whether the provider runs on the local machine
// and therefore needs a runtime probe instead of an API key.
func IsLocalProvider(id string) bool {
	return id == "ollama"
}
