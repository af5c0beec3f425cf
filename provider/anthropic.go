package provider

import (
	"context"
	"fmt"
	"strings"

	"omnichat/model"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// defaultAnthropicMaxTokens is used when the request does not set
// max_tokens; the Anthropic API requires the field.
const defaultAnthropicMaxTokens = 2048

// AnthropicProvider implements model.Provider using the official Anthropic
// Go SDK. Anthropic has no reasoning or live-search aliases; every model
// goes through the standard messages API.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
}

// NewAnthropicProvider creates a new Anthropic provider instance. Returns
// an error if the API key is missing.
func NewAnthropicProvider(baseURL, apiKey, modelName string) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &AnthropicProvider{
		client: anthropic.NewClient(opts...),
		model:  modelName,
	}, nil
}

// Name implements model.Provider.Name.
func (p *AnthropicProvider) Name() string {
	return "Anthropic"
}

// Call implements model.Provider.Call.
func (p *AnthropicProvider) Call(ctx context.Context, messages []model.Message, options map[string]any) (string, error) {
	resp, err := p.client.Messages.New(ctx, p.buildParams(messages, options))
	if err != nil {
		return "", err
	}

	var reply strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			reply.WriteString(block.Text)
		}
	}
	return reply.String(), nil
}

// CallStream implements model.Provider.CallStream.
func (p *AnthropicProvider) CallStream(ctx context.Context, messages []model.Message, options map[string]any, callback model.TokenCallback) error {
	stream := p.client.Messages.NewStreaming(ctx, p.buildParams(messages, options))

	for stream.Next() {
		event := stream.Current()
		switch ev := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			switch delta := ev.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				if callback != nil && delta.Text != "" {
					if err := callback(delta.Text); err != nil {
						return err
					}
				}
			}
		}
	}

	if err := stream.Err(); err != nil {
		return err
	}

	return nil
}

func (p *AnthropicProvider) buildParams(messages []model.Message, options map[string]any) anthropic.MessageNewParams {
	converted, system := ConvertToAnthropicMessages(messages)

	maxTokens := int64(defaultAnthropicMaxTokens)
	if v, ok := optInt(options, "max_tokens"); ok {
		maxTokens = int64(v)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		Messages:  converted,
		System:    system,
		MaxTokens: maxTokens,
	}

	if v, ok := optFloat(options, "temperature"); ok {
		params.Temperature = anthropic.Float(v)
	}
	if v, ok := optFloat(options, "top_p"); ok {
		params.TopP = anthropic.Float(v)
	}
	if v, ok := optInt(options, "top_k"); ok {
		params.TopK = anthropic.Int(int64(v))
	}
	if v, ok := optStringSlice(options, "stop"); ok {
		params.StopSequences = v
	}

	return params
}

// ListModels implements model.Provider.ListModels.
func (p *AnthropicProvider) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	page, err := p.client.Models.List(ctx, anthropic.ModelListParams{})
	if err != nil {
		return nil, fmt.Errorf("failed to list Anthropic models: %w", err)
	}

	result := make([]model.ModelInfo, 0, len(page.Data))
	for _, m := range page.Data {
		result = append(result, model.ModelInfo{
			Name:     m.ID,
			Provider: "anthropic",
		})
	}
	return result, nil
}

// Ping implements model.Provider.Ping by listing models.
func (p *AnthropicProvider) Ping(ctx context.Context) error {
	_, err := p.client.Models.List(ctx, anthropic.ModelListParams{})
	if err != nil {
		return fmt.Errorf("Anthropic ping failed: %w", err)
	}
	return nil
}
