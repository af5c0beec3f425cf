package provider

import (
	"reflect"
	"testing"
)

func TestFilterOptionsDropsUnknownKeys(t *testing.T) {
	options := map[string]any{
		"temperature": 0.7,
		"top_p":       0.9,
		"grammar":     "json",
		"mirostat":    2,
	}

	filtered, dropped := FilterOptions(ProviderTypeOpenAI, "gpt-4.1", options)

	want := map[string]any{"temperature": 0.7, "top_p": 0.9}
	if !reflect.DeepEqual(filtered, want) {
		t.Errorf("filtered = %v, want %v", filtered, want)
	}
	if !reflect.DeepEqual(dropped, []string{"grammar", "mirostat"}) {
		t.Errorf("dropped = %v, want sorted [grammar mirostat]", dropped)
	}
}

func TestFilterOptionsReasoningFamily(t *testing.T) {
	options := map[string]any{
		"temperature":      0.7,
		"reasoning_effort": "high",
	}

	filtered, dropped := FilterOptions(ProviderTypeOpenAI, "o3-mini", options)

	if _, ok := filtered["reasoning_effort"]; !ok {
		t.Error("reasoning_effort should pass for o3 models")
	}
	if _, ok := filtered["temperature"]; ok {
		t.Error("temperature should be dropped for o3 models")
	}
	if !reflect.DeepEqual(dropped, []string{"temperature"}) {
		t.Errorf("dropped = %v", dropped)
	}

	// reasoning_effort is rejected for standard models
	_, dropped = FilterOptions(ProviderTypeOpenAI, "gpt-4.1", options)
	if !reflect.DeepEqual(dropped, []string{"reasoning_effort"}) {
		t.Errorf("dropped = %v, want [reasoning_effort]", dropped)
	}
}

func TestFilterOptionsPerProvider(t *testing.T) {
	tests := []struct {
		name         string
		providerType ProviderType
		key          string
		allowed      bool
	}{
		{"gemini max_output_tokens", ProviderTypeGemini, "max_output_tokens", true},
		{"gemini max_tokens rejected", ProviderTypeGemini, "max_tokens", false},
		{"ollama max_tokens", ProviderTypeOllama, "max_tokens", true},
		{"ollama presence_penalty rejected", ProviderTypeOllama, "presence_penalty", false},
		{"anthropic top_k", ProviderTypeAnthropic, "top_k", true},
		{"anthropic seed rejected", ProviderTypeAnthropic, "seed", false},
		{"openai seed", ProviderTypeOpenAI, "seed", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered, _ := FilterOptions(tt.providerType, "some-model", map[string]any{tt.key: 1})
			_, ok := filtered[tt.key]
			if ok != tt.allowed {
				t.Errorf("key %q allowed=%v, want %v", tt.key, ok, tt.allowed)
			}
		})
	}
}

func TestFilterOptionsDoesNotMutateInput(t *testing.T) {
	options := map[string]any{"temperature": 0.7, "bogus": true}
	FilterOptions(ProviderTypeOpenAI, "gpt-4.1", options)

	if len(options) != 2 {
		t.Errorf("input map was mutated: %v", options)
	}
}

func TestParamSchemasCoverProviders(t *testing.T) {
	schemas := ParamSchemas()
	for _, id := range []string{"openai", "openai_reasoning", "gemini", "ollama", "anthropic"} {
		if len(schemas[id]) == 0 {
			t.Errorf("no param schema for %q", id)
		}
	}

	// Every schema entry for a provider must be in that provider's allow-list,
	// otherwise the UI offers an option that gets silently dropped.
	checks := map[string]ProviderType{
		"openai":    ProviderTypeOpenAI,
		"gemini":    ProviderTypeGemini,
		"ollama":    ProviderTypeOllama,
		"anthropic": ProviderTypeAnthropic,
	}
	for id, ptype := range checks {
		for _, spec := range schemas[id] {
			if !allowedParams(ptype, "any-model")[spec.Name] {
				t.Errorf("schema option %s/%s is not in the allow-list", id, spec.Name)
			}
		}
	}
	for _, spec := range schemas["openai_reasoning"] {
		if !openaiReasoningParams[spec.Name] {
			t.Errorf("schema option openai_reasoning/%s is not in the allow-list", spec.Name)
		}
	}
}
