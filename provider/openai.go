package provider

import (
	"context"
	"fmt"

	"omnichat/model"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
)

// OpenAIProvider implements model.Provider using the official OpenAI Go SDK.
//
// The adapter drives three request shapes depending on the model family:
//   - Standard models use the chat completions API
//   - Reasoning models (o3 series) use the Responses API and never stream
//   - The "gpt-4.1-live" alias uses chat completions with web search
//     enabled and the "-live" suffix stripped from the wire model name
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider creates a new OpenAI provider instance. Returns an
// error if the API key is missing.
func NewOpenAIProvider(baseURL, apiKey, modelName string) (*OpenAIProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &OpenAIProvider{
		client: client,
		model:  modelName,
	}, nil
}

// Name implements model.Provider.Name.
func (p *OpenAIProvider) Name() string {
	return "OpenAI"
}

// Call implements model.Provider.Call.
func (p *OpenAIProvider) Call(ctx context.Context, messages []model.Message, options map[string]any) (string, error) {
	if IsReasoningModel(p.model) {
		return p.callResponses(ctx, messages, options)
	}

	params := p.buildChatParams(messages, options)
	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// CallStream implements model.Provider.CallStream.
//
// Reasoning models do not support token streaming: the adapter falls back
// to a blocking call and delivers the whole reply as a single chunk.
func (p *OpenAIProvider) CallStream(ctx context.Context, messages []model.Message, options map[string]any, callback model.TokenCallback) error {
	if IsReasoningModel(p.model) {
		reply, err := p.callResponses(ctx, messages, options)
		if err != nil {
			return err
		}
		if reply == "" || callback == nil {
			return nil
		}
		return callback(reply)
	}

	params := p.buildChatParams(messages, options)
	stream := p.client.Chat.Completions.NewStreaming(ctx, params)

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			if callback != nil {
				if err := callback(chunk.Choices[0].Delta.Content); err != nil {
					return err
				}
			}
		}
	}

	if err := stream.Err(); err != nil {
		return err
	}

	return nil
}

// buildChatParams assembles a chat completions request for standard and
// live-search models.
func (p *OpenAIProvider) buildChatParams(messages []model.Message, options map[string]any) openai.ChatCompletionNewParams {
	wireModel := p.model
	if IsLiveSearchModel(p.model) {
		wireModel = StripLiveSuffix(p.model)
		instruction := model.Message{Role: model.RoleSystem, Content: webSearchInstruction}
		messages = append([]model.Message{instruction}, messages...)
	}

	params := openai.ChatCompletionNewParams{
		Messages: ConvertToOpenAIMessages(messages),
		Model:    openai.ChatModel(wireModel),
	}

	if IsLiveSearchModel(p.model) {
		params.WebSearchOptions = openai.ChatCompletionNewParamsWebSearchOptions{
			SearchContextSize: "medium",
		}
	}

	if v, ok := optFloat(options, "temperature"); ok {
		params.Temperature = openai.Float(v)
	}
	if v, ok := optFloat(options, "top_p"); ok {
		params.TopP = openai.Float(v)
	}
	if v, ok := optInt(options, "max_tokens"); ok {
		params.MaxTokens = openai.Int(int64(v))
	}
	if v, ok := optFloat(options, "presence_penalty"); ok {
		params.PresencePenalty = openai.Float(v)
	}
	if v, ok := optFloat(options, "frequency_penalty"); ok {
		params.FrequencyPenalty = openai.Float(v)
	}
	if v, ok := optInt(options, "seed"); ok {
		params.Seed = openai.Int(int64(v))
	}
	if v, ok := optStringSlice(options, "stop"); ok {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{OfStringArray: v}
	}

	return params
}

// callResponses drives a reasoning model through the Responses API. The
// conversation goes in the "input" item list; the only tunable is the
// reasoning effort, defaulting to low.
func (p *OpenAIProvider) callResponses(ctx context.Context, messages []model.Message, options map[string]any) (string, error) {
	items := make(responses.ResponseInputParam, 0, len(messages))
	for _, msg := range messages {
		role := responses.EasyInputMessageRoleUser
		switch msg.Role {
		case model.RoleAssistant:
			role = responses.EasyInputMessageRoleAssistant
		case model.RoleSystem:
			role = responses.EasyInputMessageRoleSystem
		}
		items = append(items, responses.ResponseInputItemParamOfMessage(msg.Content, role))
	}

	effort := shared.ReasoningEffortLow
	if v, ok := optString(options, "reasoning_effort"); ok {
		switch v {
		case "medium":
			effort = shared.ReasoningEffortMedium
		case "high":
			effort = shared.ReasoningEffortHigh
		}
	}

	resp, err := p.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:     shared.ResponsesModel(p.model),
		Input:     responses.ResponseNewParamsInputUnion{OfInputItemList: items},
		Reasoning: shared.ReasoningParam{Effort: effort},
	})
	if err != nil {
		return "", err
	}

	return resp.OutputText(), nil
}

// ListModels implements model.Provider.ListModels.
func (p *OpenAIProvider) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	modelsPage, err := p.client.Models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list OpenAI models: %w", err)
	}

	result := make([]model.ModelInfo, 0, len(modelsPage.Data))
	for _, m := range modelsPage.Data {
		result = append(result, model.ModelInfo{
			Name:     m.ID,
			Provider: "openai",
		})
	}

	return result, nil
}

// Ping implements model.Provider.Ping by attempting to list models.
func (p *OpenAIProvider) Ping(ctx context.Context) error {
	_, err := p.client.Models.List(ctx)
	if err != nil {
		return fmt.Errorf("OpenAI ping failed: %w", err)
	}
	return nil
}
