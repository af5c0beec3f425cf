package provider

import (
	"context"
	"fmt"
	"strings"

	"omnichat/model"
	"omnichat/ollama"
)

// OllamaProvider wraps ollama.Client to implement the model.Provider
// interface for the local daemon. No API key is involved; availability is
// a runtime question answered by probing the server.
type OllamaProvider struct {
	client *ollama.Client
	model  string
}

// NewOllamaProvider creates a new Ollama provider instance. baseURL
// defaults to "http://localhost:11434" when empty.
func NewOllamaProvider(baseURL, modelName string) (*OllamaProvider, error) {
	client, err := ollama.NewClient(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}

	return &OllamaProvider{
		client: client,
		model:  modelName,
	}, nil
}

// Name implements model.Provider.Name.
func (p *OllamaProvider) Name() string {
	return "Ollama"
}

// Call implements model.Provider.Call by collecting the streamed chunks
// into one reply. The Ollama API is streaming-first, so the non-streaming
// path is just the streaming path with a string builder.
func (p *OllamaProvider) Call(ctx context.Context, messages []model.Message, options map[string]any) (string, error) {
	var reply strings.Builder
	err := p.CallStream(ctx, messages, options, func(token string) error {
		reply.WriteString(token)
		return nil
	})
	if err != nil {
		return "", err
	}
	return reply.String(), nil
}

// CallStream implements model.Provider.CallStream.
func (p *OllamaProvider) CallStream(ctx context.Context, messages []model.Message, options map[string]any, callback model.TokenCallback) error {
	return p.client.Chat(ctx, p.model, ConvertToOllamaMessages(messages), convertOllamaOptions(options), func(chunk string) error {
		if callback == nil || chunk == "" {
			return nil
		}
		return callback(chunk)
	})
}

// convertOllamaOptions maps the generic option names onto Ollama's request
// options. The one rename is max_tokens -> num_predict.
func convertOllamaOptions(options map[string]any) map[string]any {
	if len(options) == 0 {
		return nil
	}

	out := make(map[string]any, len(options))
	for key, value := range options {
		if key == "max_tokens" {
			out["num_predict"] = value
			continue
		}
		out[key] = value
	}
	return out
}

// ListModels implements model.Provider.ListModels (direct passthrough).
func (p *OllamaProvider) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	return p.client.ListModels(ctx)
}

// Ping implements model.Provider.Ping (direct passthrough).
func (p *OllamaProvider) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}
