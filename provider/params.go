package provider

import "sort"

// Tunable option allow-lists per provider. Options the UI sends that a
// provider does not understand are dropped before the request is built;
// the orchestrator reports dropped names in the result warning. Keys not
// listed here never reach an adapter.

var openaiStandardParams = map[string]bool{
	"temperature":       true,
	"top_p":             true,
	"max_tokens":        true,
	"presence_penalty":  true,
	"frequency_penalty": true,
	"seed":              true,
	"stop":              true,
}

// Reasoning models reject sampling parameters; the only tunable is the
// effort level.
var openaiReasoningParams = map[string]bool{
	"reasoning_effort": true,
}

var geminiParams = map[string]bool{
	"temperature":       true,
	"top_p":             true,
	"top_k":             true,
	"max_output_tokens": true,
}

var ollamaParams = map[string]bool{
	"temperature": true,
	"top_p":       true,
	"top_k":       true,
	"max_tokens":  true,
	"seed":        true,
	"stop":        true,
}

var anthropicParams = map[string]bool{
	"temperature": true,
	"top_p":       true,
	"top_k":       true,
	"max_tokens":  true,
	"stop":        true,
}

// allowedParams returns the allow-list for a provider/model combination.
// The model matters only for OpenAI, where reasoning models take a
// different option set.
func allowedParams(providerType ProviderType, modelName string) map[string]bool {
	switch providerType {
	case ProviderTypeOpenAI:
		if IsReasoningModel(modelName) {
			return openaiReasoningParams
		}
		return openaiStandardParams
	case ProviderTypeGemini:
		return geminiParams
	case ProviderTypeOllama:
		return ollamaParams
	case ProviderTypeAnthropic:
		return anthropicParams
	default:
		return nil
	}
}

// FilterOptions splits options into those the provider accepts and the
// names of those it does not. Dropped names come back sorted so warnings
// are deterministic. The input map is never mutated.
func FilterOptions(providerType ProviderType, modelName string, options map[string]any) (map[string]any, []string) {
	allowed := allowedParams(providerType, modelName)

	filtered := make(map[string]any, len(options))
	var dropped []string
	for key, value := range options {
		if allowed[key] {
			filtered[key] = value
		} else {
			dropped = append(dropped, key)
		}
	}
	sort.Strings(dropped)

	return filtered, dropped
}

// ParamSpec describes one tunable option for the settings UI. The core
// never interprets these beyond allow-list filtering; they exist so the
// frontend can render sliders and selects without hardcoding provider
// knowledge.
type ParamSpec struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Type    string   `json:"type"` // "float", "int", "select"
	Min     float64  `json:"min,omitempty"`
	Max     float64  `json:"max,omitempty"`
	Step    float64  `json:"step,omitempty"`
	Default any      `json:"default"`
	Options []string `json:"options,omitempty"`
}

// ParamSchemas returns the UI option schemas keyed by provider ID, with a
// separate entry for the OpenAI reasoning family.
func ParamSchemas() map[string][]ParamSpec {
	return map[string][]ParamSpec{
		"openai": {
			{Name: "temperature", Label: "Temperature", Type: "float", Min: 0, Max: 2, Step: 0.1, Default: 1.0},
			{Name: "top_p", Label: "Top P", Type: "float", Min: 0, Max: 1, Step: 0.05, Default: 1.0},
			{Name: "max_tokens", Label: "Max Tokens", Type: "int", Min: 1, Max: 16384, Step: 1, Default: 2048},
			{Name: "presence_penalty", Label: "Presence Penalty", Type: "float", Min: -2, Max: 2, Step: 0.1, Default: 0.0},
			{Name: "frequency_penalty", Label: "Frequency Penalty", Type: "float", Min: -2, Max: 2, Step: 0.1, Default: 0.0},
		},
		"openai_reasoning": {
			{Name: "reasoning_effort", Label: "Reasoning Effort", Type: "select", Default: "low", Options: []string{"low", "medium", "high"}},
		},
		"gemini": {
			{Name: "temperature", Label: "Temperature", Type: "float", Min: 0, Max: 2, Step: 0.1, Default: 1.0},
			{Name: "top_p", Label: "Top P", Type: "float", Min: 0, Max: 1, Step: 0.05, Default: 0.95},
			{Name: "top_k", Label: "Top K", Type: "int", Min: 1, Max: 100, Step: 1, Default: 40},
			{Name: "max_output_tokens", Label: "Max Output Tokens", Type: "int", Min: 1, Max: 65536, Step: 1, Default: 8192},
		},
		"ollama": {
			{Name: "temperature", Label: "Temperature", Type: "float", Min: 0, Max: 2, Step: 0.1, Default: 0.8},
			{Name: "top_p", Label: "Top P", Type: "float", Min: 0, Max: 1, Step: 0.05, Default: 0.9},
			{Name: "top_k", Label: "Top K", Type: "int", Min: 1, Max: 100, Step: 1, Default: 40},
			{Name: "max_tokens", Label: "Max Tokens", Type: "int", Min: 1, Max: 16384, Step: 1, Default: 2048},
		},
		"anthropic": {
			{Name: "temperature", Label: "Temperature", Type: "float", Min: 0, Max: 1, Step: 0.1, Default: 1.0},
			{Name: "top_p", Label: "Top P", Type: "float", Min: 0, Max: 1, Step: 0.05, Default: 1.0},
			{Name: "top_k", Label: "Top K", Type: "int", Min: 1, Max: 100, Step: 1, Default: 40},
			{Name: "max_tokens", Label: "Max Tokens", Type: "int", Min: 1, Max: 16384, Step: 1, Default: 2048},
		},
	}
}
