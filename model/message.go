package model

// Message represents a single chat turn in provider-agnostic form.
//
// Role is one of "user", "assistant" or "system". Normalization coerces
// anything else to "user" before a message reaches a provider adapter.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// KnownRole reports whether role is one of the three roles the providers
// understand.
func KnownRole(role string) bool {
	switch role {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}
