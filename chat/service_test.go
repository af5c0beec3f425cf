package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"omnichat/model"
	"omnichat/provider"
)

type fakeCreds map[string]string

func (f fakeCreds) Get(providerID string) string { return f[providerID] }

// fakeProvider implements model.Provider with scripted behavior.
type fakeProvider struct {
	name       string
	reply      string
	chunks     []string
	callErr    error
	streamErr  error
	gotOptions map[string]any
	gotHistory []model.Message
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Call(ctx context.Context, messages []model.Message, options map[string]any) (string, error) {
	f.gotHistory = messages
	f.gotOptions = options
	return f.reply, f.callErr
}

func (f *fakeProvider) CallStream(ctx context.Context, messages []model.Message, options map[string]any, callback model.TokenCallback) error {
	f.gotHistory = messages
	f.gotOptions = options
	for _, chunk := range f.chunks {
		if err := callback(chunk); err != nil {
			return err
		}
	}
	return f.streamErr
}

func (f *fakeProvider) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	return nil, nil
}

func (f *fakeProvider) Ping(ctx context.Context) error { return nil }

// newTestService wires a Service around a scripted provider, credentials
// and daemon state.
func newTestService(creds fakeCreds, fake *fakeProvider, ollamaUp bool) *Service {
	s := NewService(creds, "")
	s.newProvider = func(cfg provider.Config) (model.Provider, error) {
		return fake, nil
	}
	s.probeOllama = func(ctx context.Context) bool { return ollamaUp }
	return s
}

func validRequest() GenerationRequest {
	return GenerationRequest{
		Provider: "openai",
		Model:    "gpt-4.1",
		Message:  "hello",
	}
}

func TestGenerateReplyValidation(t *testing.T) {
	s := newTestService(fakeCreds{"openai": "sk-test"}, &fakeProvider{name: "OpenAI"}, false)

	tests := []struct {
		name    string
		mutate  func(*GenerationRequest)
		wantMsg string
	}{
		{"missing provider", func(r *GenerationRequest) { r.Provider = "  " }, "provider is required"},
		{"missing model", func(r *GenerationRequest) { r.Model = "" }, "model is required"},
		{"missing message", func(r *GenerationRequest) { r.Message = "\n\t" }, "message is required"},
		{"unknown provider", func(r *GenerationRequest) { r.Provider = "cohere" }, "unknown provider: cohere"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			_, err := s.GenerateReply(context.Background(), req)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !IsValidationError(err) {
				t.Errorf("error is not a ValidationError: %v", err)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("error = %q, want %q", err.Error(), tt.wantMsg)
			}

			// The streaming entry point rejects the same request
			// synchronously.
			if _, err := s.GenerateReplyStream(context.Background(), req); err == nil || !IsValidationError(err) {
				t.Errorf("stream validation error = %v", err)
			}
		})
	}
}

func TestGenerateReplyProviderCaseInsensitive(t *testing.T) {
	fake := &fakeProvider{name: "OpenAI", reply: "ok"}
	s := newTestService(fakeCreds{"openai": "sk-test"}, fake, false)

	req := validRequest()
	req.Provider = "OpenAI"

	result, err := s.GenerateReply(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Reply != "ok" {
		t.Errorf("result = %+v", result)
	}
}

func TestGenerateReplyMissingKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"no key stored", ""},
		{"template placeholder", "PUT_YOUR_KEY_HERE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(fakeCreds{"openai": tt.key}, &fakeProvider{name: "OpenAI"}, false)

			result, err := s.GenerateReply(context.Background(), validRequest())
			if err != nil {
				t.Fatalf("missing key must not be a Go error: %v", err)
			}
			if result.Error != "OpenAI API key not set" {
				t.Errorf("error = %q", result.Error)
			}
			if result.MissingKeyFor != "openai" {
				t.Errorf("missing_key_for = %q", result.MissingKeyFor)
			}
			if result.Reply != "" {
				t.Errorf("reply must be empty on error, got %q", result.Reply)
			}
		})
	}
}

func TestGenerateReplyOllamaDown(t *testing.T) {
	s := newTestService(fakeCreds{}, &fakeProvider{name: "Ollama"}, false)

	req := validRequest()
	req.Provider = "ollama"
	req.Model = "llama3.1:latest"

	result, err := s.GenerateReply(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Error != "Ollama server not running" {
		t.Errorf("error = %q", result.Error)
	}
	if result.MissingKeyFor != "ollama" {
		t.Errorf("missing_key_for = %q", result.MissingKeyFor)
	}
}

func TestGenerateReplyOllamaNeedsNoKey(t *testing.T) {
	fake := &fakeProvider{name: "Ollama", reply: "local reply"}
	s := newTestService(fakeCreds{}, fake, true)

	req := validRequest()
	req.Provider = "ollama"
	req.Model = "llama3.1:latest"

	result, err := s.GenerateReply(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Reply != "local reply" {
		t.Errorf("result = %+v", result)
	}
}

func TestGenerateReplyAdapterError(t *testing.T) {
	fake := &fakeProvider{name: "OpenAI", callErr: errors.New("rate limit exceeded")}
	s := newTestService(fakeCreds{"openai": "sk-test"}, fake, false)

	result, err := s.GenerateReply(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("backend failure must not be a Go error: %v", err)
	}
	if result.Error != "OpenAI error: rate limit exceeded" {
		t.Errorf("error = %q", result.Error)
	}
	if result.Reply != "" {
		t.Errorf("reply must be empty on error")
	}
}

func TestGenerateReplyEmptyReply(t *testing.T) {
	fake := &fakeProvider{name: "OpenAI", reply: ""}
	s := newTestService(fakeCreds{"openai": "sk-test"}, fake, false)

	result, err := s.GenerateReply(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Error != "OpenAI returned no content" {
		t.Errorf("error = %q", result.Error)
	}
}

func TestGenerateReplyDroppedOptionsWarning(t *testing.T) {
	fake := &fakeProvider{name: "OpenAI", reply: "ok"}
	s := newTestService(fakeCreds{"openai": "sk-test"}, fake, false)

	req := validRequest()
	req.Params = map[string]any{"temperature": 0.7, "mirostat": 2}

	result, err := s.GenerateReply(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Warning, "mirostat") {
		t.Errorf("warning should name the dropped option: %q", result.Warning)
	}
	if _, ok := fake.gotOptions["mirostat"]; ok {
		t.Error("dropped option reached the adapter")
	}
	if _, ok := fake.gotOptions["temperature"]; !ok {
		t.Error("allowed option did not reach the adapter")
	}
}

func TestGenerateReplyNormalizesHistory(t *testing.T) {
	fake := &fakeProvider{name: "OpenAI", reply: "ok"}
	s := newTestService(fakeCreds{"openai": "sk-test"}, fake, false)

	req := validRequest()
	req.History = []model.Message{{Role: "tool", Content: "x"}}

	if _, err := s.GenerateReply(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fake.gotHistory) != 2 {
		t.Fatalf("adapter saw %d turns, want 2", len(fake.gotHistory))
	}
	if fake.gotHistory[0].Role != model.RoleUser {
		t.Errorf("unknown role not coerced: %+v", fake.gotHistory[0])
	}
	if last := fake.gotHistory[1]; last.Role != model.RoleUser || last.Content != "hello" {
		t.Errorf("latest message not appended as user turn: %+v", last)
	}
}

func collectEvents(t *testing.T, s *Service, req GenerationRequest) []model.StreamEvent {
	t.Helper()
	seq, err := s.GenerateReplyStream(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var events []model.StreamEvent
	for event := range seq {
		events = append(events, event)
	}
	return events
}

func TestGenerateReplyStreamTokens(t *testing.T) {
	fake := &fakeProvider{name: "OpenAI", chunks: []string{"Hel", "lo", "!"}}
	s := newTestService(fakeCreds{"openai": "sk-test"}, fake, false)

	events := collectEvents(t, s, validRequest())

	if len(events) != 3 {
		t.Fatalf("got %d events, want 3: %+v", len(events), events)
	}
	var reply strings.Builder
	for _, e := range events {
		if e.IsError() {
			t.Fatalf("unexpected error event: %+v", e)
		}
		reply.WriteString(e.Token)
	}
	if reply.String() != "Hello!" {
		t.Errorf("assembled reply = %q", reply.String())
	}
}

func TestGenerateReplyStreamSingleChunk(t *testing.T) {
	// Reasoning adapters deliver the whole reply as one chunk; the
	// orchestrator passes it through as a single token event.
	fake := &fakeProvider{name: "OpenAI", chunks: []string{"REASONED"}}
	s := newTestService(fakeCreds{"openai": "sk-test"}, fake, false)

	req := validRequest()
	req.Model = "o3-mini"

	events := collectEvents(t, s, req)

	if len(events) != 1 || events[0].Token != "REASONED" {
		t.Fatalf("events = %+v, want single token event", events)
	}
}

func TestGenerateReplyStreamMissingKey(t *testing.T) {
	s := newTestService(fakeCreds{}, &fakeProvider{name: "OpenAI"}, false)

	events := collectEvents(t, s, validRequest())

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1: %+v", len(events), events)
	}
	if events[0].Error != "OpenAI API key not set" || events[0].MissingKeyFor != "openai" {
		t.Errorf("event = %+v", events[0])
	}
}

func TestGenerateReplyStreamZeroTokens(t *testing.T) {
	fake := &fakeProvider{name: "OpenAI", chunks: nil}
	s := newTestService(fakeCreds{"openai": "sk-test"}, fake, false)

	events := collectEvents(t, s, validRequest())

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1: %+v", len(events), events)
	}
	if events[0].Error != "OpenAI returned no content" {
		t.Errorf("event = %+v", events[0])
	}
}

func TestGenerateReplyStreamMidStreamFailure(t *testing.T) {
	fake := &fakeProvider{
		name:      "OpenAI",
		chunks:    []string{"partial "},
		streamErr: errors.New("connection reset"),
	}
	s := newTestService(fakeCreds{"openai": "sk-test"}, fake, false)

	events := collectEvents(t, s, validRequest())

	if len(events) != 2 {
		t.Fatalf("got %d events, want token then error: %+v", len(events), events)
	}
	if events[0].Token != "partial " {
		t.Errorf("first event = %+v", events[0])
	}
	if events[1].Error != "OpenAI error: connection reset" {
		t.Errorf("terminal event = %+v", events[1])
	}
}

func TestGenerateReplyStreamWarningPrecedesTokens(t *testing.T) {
	fake := &fakeProvider{name: "OpenAI", chunks: []string{"ok"}}
	s := newTestService(fakeCreds{"openai": "sk-test"}, fake, false)

	req := validRequest()
	req.Params = map[string]any{"mirostat": 2}

	events := collectEvents(t, s, req)

	if len(events) != 2 {
		t.Fatalf("got %d events: %+v", len(events), events)
	}
	if events[0].Warning == "" {
		t.Errorf("first event should be the warning: %+v", events[0])
	}
	if events[1].Token != "ok" {
		t.Errorf("second event = %+v", events[1])
	}
}

func TestGenerateReplyStreamConsumerStops(t *testing.T) {
	fake := &fakeProvider{name: "OpenAI", chunks: []string{"a", "b", "c"}}
	s := newTestService(fakeCreds{"openai": "sk-test"}, fake, false)

	seq, err := s.GenerateReplyStream(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count := 0
	for range seq {
		count++
		break
	}

	if count != 1 {
		t.Errorf("consumed %d events after break", count)
	}
}

func TestGenerateReplyStreamIsLazy(t *testing.T) {
	called := false
	s := NewService(fakeCreds{"openai": "sk-test"}, "")
	s.newProvider = func(cfg provider.Config) (model.Provider, error) {
		called = true
		return &fakeProvider{name: "OpenAI", chunks: []string{"x"}}, nil
	}
	s.probeOllama = func(ctx context.Context) bool { return false }

	seq, err := s.GenerateReplyStream(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Fatal("provider was built before the sequence was iterated")
	}

	for range seq {
		break
	}
	if !called {
		t.Error("iterating the sequence should reach the provider")
	}
}
