package provider

import (
	"strings"
	"testing"

	"omnichat/model"
)

// Compile-time checks that every adapter satisfies the interface.
var (
	_ model.Provider = (*OpenAIProvider)(nil)
	_ model.Provider = (*GeminiProvider)(nil)
	_ model.Provider = (*OllamaProvider)(nil)
	_ model.Provider = (*AnthropicProvider)(nil)
)

func TestNewProviderUnknownType(t *testing.T) {
	_, err := NewProvider(Config{Type: "cohere"})
	if err == nil {
		t.Fatal("expected error for unknown provider type")
	}
	if !strings.Contains(err.Error(), "cohere") {
		t.Errorf("error should name the unknown type: %v", err)
	}
}

func TestNewProviderRequiresAPIKey(t *testing.T) {
	for _, ptype := range []ProviderType{ProviderTypeOpenAI, ProviderTypeGemini, ProviderTypeAnthropic} {
		_, err := NewProvider(Config{Type: ptype, Model: "some-model"})
		if err == nil {
			t.Errorf("%s: expected error for missing API key", ptype)
		}
	}
}

func TestNewProviderOllama(t *testing.T) {
	p, err := NewProvider(Config{Type: ProviderTypeOllama, Model: "llama3.1:latest"})
	if err != nil {
		t.Fatalf("ollama provider needs no key: %v", err)
	}
	if p.Name() != "Ollama" {
		t.Errorf("Name() = %q", p.Name())
	}
}

func TestMapProviderIDToType(t *testing.T) {
	tests := []struct {
		id   string
		want ProviderType
	}{
		{"openai", ProviderTypeOpenAI},
		{"gemini", ProviderTypeGemini},
		{"ollama", ProviderTypeOllama},
		{"anthropic", ProviderTypeAnthropic},
		{"something-else", ProviderType("something-else")},
	}

	for _, tt := range tests {
		if got := MapProviderIDToType(tt.id); got != tt.want {
			t.Errorf("MapProviderIDToType(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"openai", "OpenAI"},
		{"gemini", "Gemini"},
		{"ollama", "Ollama"},
		{"anthropic", "Anthropic"},
		{"mystery", "mystery"},
	}

	for _, tt := range tests {
		if got := DisplayName(tt.id); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}
