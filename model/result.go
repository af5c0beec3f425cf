package model

// GenerationResult is the uniform outcome of a non-streaming generation.
//
// Exactly one of Reply and Error is set: a result carrying an Error always
// has an empty Reply. Warning may accompany a successful Reply (for example
// when requested options were dropped for the selected model). MissingKeyFor
// names the provider whose credential or runtime is absent, so the UI can
// point the user at the right settings panel.
type GenerationResult struct {
	Reply         string `json:"reply,omitempty"`
	Warning       string `json:"warning,omitempty"`
	Error         string `json:"error,omitempty"`
	MissingKeyFor string `json:"missing_key_for,omitempty"`
}

// ErrorResult builds a result for a failed generation.
func ErrorResult(message string) GenerationResult {
	return GenerationResult{Error: message}
}

// MissingKeyResult builds a result for a provider whose credential or local
// runtime is unavailable.
func MissingKeyResult(message, providerID string) GenerationResult {
	return GenerationResult{Error: message, MissingKeyFor: providerID}
}

// StreamEvent is one element of a streamed generation. Events form a tagged
// union: a token event carries Token, a warning event carries Warning, and
// an error event carries Error (plus MissingKeyFor when the cause is an
// absent credential or runtime). An error event is always the last event of
// its stream.
type StreamEvent struct {
	Token         string `json:"token,omitempty"`
	Warning       string `json:"warning,omitempty"`
	Error         string `json:"error,omitempty"`
	MissingKeyFor string `json:"missing_key_for,omitempty"`
}

// IsError reports whether the event terminates its stream.
func (e StreamEvent) IsError() bool {
	return e.Error != ""
}

// TokenEvent builds a token event.
func TokenEvent(token string) StreamEvent {
	return StreamEvent{Token: token}
}

// ErrorEvent builds a terminal error event.
func ErrorEvent(message string) StreamEvent {
	return StreamEvent{Error: message}
}
