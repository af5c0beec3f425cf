package provider

import "strings"

// Family describes how a model is driven on the wire. Most models are
// standard chat-completion models; a small closed set needs a different
// request shape.
type Family string

const (
	// FamilyStandard is the ordinary chat-completion path.
	FamilyStandard Family = "standard"

	// FamilyReasoning models (OpenAI o3 series) use the Responses API and a
	// reasoning-effort option instead of sampling parameters. They do not
	// stream tokens.
	FamilyReasoning Family = "reasoning"

	// FamilyLiveSearch models are search-augmented variants that get a
	// web-search instruction and the provider's search capability enabled.
	FamilyLiveSearch Family = "live_search"
)

// liveSearchModels is the closed set of search-augmented model IDs. These
// are product-level aliases, not upstream model names, so matching is exact.
var liveSearchModels = map[string]bool{
	"gpt-4.1-live":        true,
	"gemini-2.5-pro-live": true,
}

// IsReasoningModel reports whether the model belongs to the reasoning
// family. Classification is by name prefix, case-insensitive, so "o3",
// "o3-mini" and "O3-Mini-2025" all qualify.
func IsReasoningModel(modelName string) bool {
	return strings.HasPrefix(strings.ToLower(modelName), "o3")
}

// IsLiveSearchModel reports whether the model is one of the search-augmented
// aliases. Matching is exact: "gpt-4.1" and "gemini-2.5-pro" are standard
// models.
func IsLiveSearchModel(modelName string) bool {
	return liveSearchModels[modelName]
}

// Classify returns the family for a model name. Reasoning wins over
// live-search, though no current model is in both sets.
func Classify(modelName string) Family {
	switch {
	case IsReasoningModel(modelName):
		return FamilyReasoning
	case IsLiveSearchModel(modelName):
		return FamilyLiveSearch
	default:
		return FamilyStandard
	}
}

// webSearchInstruction is prepended as a system message for live-search
// models so the model actually uses its search capability and cites what it
// found.
const webSearchInstruction = "You have access to web search. When the user's question benefits from current information, search the web and ground your answer in what you find. Cite the sources you used."

// StripLiveSuffix maps a live-search alias to the upstream model name sent
// on the wire ("gpt-4.1-live" -> "gpt-4.1").
func StripLiveSuffix(modelName string) string {
	return strings.TrimSuffix(modelName, "-live")
}
