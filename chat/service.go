// Package chat implements the reply generation core: request validation,
// history normalization, credential and runtime resolution, and dispatch to
// the provider adapters, with a uniform result shape for both the blocking
// and streaming paths.
package chat

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"omnichat/config"
	"omnichat/model"
	"omnichat/ollama"
	"omnichat/provider"
)

// GenerationRequest is one reply-generation call. History carries prior
// turns in order; Message is the newest user message and is appended as the
// trailing user turn during normalization. Params are raw UI options and
// get filtered against the provider's allow-list before dispatch.
type GenerationRequest struct {
	Provider string          `json:"provider"`
	Model    string          `json:"model"`
	Message  string          `json:"message"`
	History  []model.Message `json:"history"`
	Params   map[string]any  `json:"params"`
}

// Service orchestrates reply generation across providers.
//
// The service holds no per-request state. Credentials are read through the
// injected CredentialSource on every call, and a fresh adapter is built per
// request, so key and registry changes take effect immediately.
type Service struct {
	credentials CredentialSource
	ollamaURL   string

	// Injection points for tests; production uses the factory and a real
	// daemon probe.
	newProvider func(provider.Config) (model.Provider, error)
	probeOllama func(ctx context.Context) bool
}

// NewService creates the orchestrator. ollamaURL may be empty to use the
// default local daemon address.
func NewService(credentials CredentialSource, ollamaURL string) *Service {
	s := &Service{
		credentials: credentials,
		ollamaURL:   ollamaURL,
		newProvider: provider.NewProvider,
	}
	s.probeOllama = func(ctx context.Context) bool {
		client, err := ollama.NewClient(ollamaURL)
		if err != nil {
			return false
		}
		return client.IsRunning(ctx)
	}
	return s
}

// errStreamStopped signals that the consumer abandoned the event sequence;
// it unwinds the adapter stream and is never surfaced.
var errStreamStopped = errors.New("stream consumer stopped")

// ValidateRequest checks the request fields without generating anything,
// for callers that must reject bad input before doing side-effecting work
// of their own (like creating a chat row). Normalizes Provider and Model
// in place, exactly as the generation entry points do.
func ValidateRequest(req *GenerationRequest) error {
	return validate(req)
}

// validate checks the request fields and normalizes the provider ID to
// lower case. Returns a ValidationError for anything the caller got wrong.
func validate(req *GenerationRequest) error {
	req.Provider = strings.ToLower(strings.TrimSpace(req.Provider))
	req.Model = strings.TrimSpace(req.Model)

	if req.Provider == "" {
		return validationErrorf("provider is required")
	}
	if req.Model == "" {
		return validationErrorf("model is required")
	}
	if strings.TrimSpace(req.Message) == "" {
		return validationErrorf("message is required")
	}
	if !provider.IsKnownProviderID(req.Provider) {
		return validationErrorf(fmt.Sprintf("unknown provider: %s", req.Provider))
	}
	return nil
}

// missingKeyResult builds the outcome for an unavailable provider: absent
// API key for cloud providers, unreachable daemon for Ollama.
func missingKeyResult(providerID string) model.GenerationResult {
	if provider.IsLocalProvider(providerID) {
		return model.MissingKeyResult("Ollama server not running", providerID)
	}
	return model.MissingKeyResult(provider.DisplayName(providerID)+" API key not set", providerID)
}

// droppedOptionsWarning renders the warning for options the selected model
// does not accept. Returns "" when nothing was dropped.
func droppedOptionsWarning(modelName string, dropped []string) string {
	if len(dropped) == 0 {
		return ""
	}
	return fmt.Sprintf("Unsupported options ignored for %s: %s", modelName, strings.Join(dropped, ", "))
}

// GenerateReply produces a complete reply for the request.
//
// The returned error is non-nil only for request validation failures.
// Everything that can go wrong past validation, from a missing API key to a
// provider outage, resolves into the GenerationResult so the HTTP layer can
// hand the UI one uniform shape.
func (s *Service) GenerateReply(ctx context.Context, req GenerationRequest) (model.GenerationResult, error) {
	if err := validate(&req); err != nil {
		return model.GenerationResult{}, err
	}

	avail := s.resolve(ctx, req.Provider)
	if !avail.ok {
		return missingKeyResult(req.Provider), nil
	}

	name := provider.DisplayName(req.Provider)

	p, err := s.buildProvider(req, avail.apiKey)
	if err != nil {
		return model.ErrorResult(fmt.Sprintf("%s error: %v", name, err)), nil
	}

	providerType := provider.MapProviderIDToType(req.Provider)
	options, dropped := provider.FilterOptions(providerType, req.Model, req.Params)
	warning := droppedOptionsWarning(req.Model, dropped)

	messages := NormalizeHistory(req.History, req.Message)

	if config.Debug {
		config.DebugLog.Printf("[Chat] generate provider=%s model=%s turns=%d", req.Provider, req.Model, len(messages))
	}

	reply, err := p.Call(ctx, messages, options)
	if err != nil {
		return model.ErrorResult(fmt.Sprintf("%s error: %v", name, err)), nil
	}
	if reply == "" {
		return model.ErrorResult(name + " returned no content"), nil
	}

	return model.GenerationResult{Reply: reply, Warning: warning}, nil
}

// GenerateReplyStream produces the reply as a lazy, finite event sequence.
//
// Validation failures are returned synchronously, before any sequence
// exists. The sequence itself does no work until iterated, runs the
// availability check and adapter call on first pull, and terminates after
// its first error event. It is single-use.
func (s *Service) GenerateReplyStream(ctx context.Context, req GenerationRequest) (iter.Seq[model.StreamEvent], error) {
	if err := validate(&req); err != nil {
		return nil, err
	}

	return func(yield func(model.StreamEvent) bool) {
		avail := s.resolve(ctx, req.Provider)
		if !avail.ok {
			res := missingKeyResult(req.Provider)
			yield(model.StreamEvent{Error: res.Error, MissingKeyFor: res.MissingKeyFor})
			return
		}

		name := provider.DisplayName(req.Provider)

		p, err := s.buildProvider(req, avail.apiKey)
		if err != nil {
			yield(model.ErrorEvent(fmt.Sprintf("%s error: %v", name, err)))
			return
		}

		providerType := provider.MapProviderIDToType(req.Provider)
		options, dropped := provider.FilterOptions(providerType, req.Model, req.Params)
		if warning := droppedOptionsWarning(req.Model, dropped); warning != "" {
			if !yield(model.StreamEvent{Warning: warning}) {
				return
			}
		}

		messages := NormalizeHistory(req.History, req.Message)

		if config.Debug {
			config.DebugLog.Printf("[Chat] stream provider=%s model=%s turns=%d", req.Provider, req.Model, len(messages))
		}

		sawToken := false
		err = p.CallStream(ctx, messages, options, func(token string) error {
			if token == "" {
				return nil
			}
			sawToken = true
			if !yield(model.TokenEvent(token)) {
				return errStreamStopped
			}
			return nil
		})

		if err != nil {
			if errors.Is(err, errStreamStopped) {
				return
			}
			yield(model.ErrorEvent(fmt.Sprintf("%s error: %v", name, err)))
			return
		}

		if !sawToken {
			yield(model.ErrorEvent(name + " returned no content"))
		}
	}, nil
}

// buildProvider constructs a fresh adapter for this request.
func (s *Service) buildProvider(req GenerationRequest, apiKey string) (model.Provider, error) {
	cfg := provider.Config{
		Type:   provider.MapProviderIDToType(req.Provider),
		Model:  req.Model,
		APIKey: apiKey,
	}
	if provider.IsLocalProvider(req.Provider) {
		cfg.BaseURL = s.ollamaURL
	}
	return s.newProvider(cfg)
}
