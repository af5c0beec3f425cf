package provider

import (
	"context"
	"fmt"
	"strings"

	"omnichat/model"

	"google.golang.org/genai"
)

// Fixed reply strings for blocked or empty Gemini generations. A safety or
// recitation block is a successful generation carrying a refusal, not an
// error: surfacing it as an error would make the UI retry something the
// provider will keep refusing.
const (
	geminiSafetyRefusal = "I can't provide a response to that request because it was blocked by content safety filters. Please try rephrasing your message."
	geminiEmptyReply    = "I'm sorry, but I was unable to generate a response to that request. Please try again."
	geminiNoSourcesNote = "\n\n*Web search was used for this response, but no source links were returned.*"
)

// GeminiProvider implements model.Provider using the Google Gen AI SDK.
//
// The "gemini-2.5-pro-live" alias enables the Google Search tool and a
// web-search system instruction; discovered citation URLs are appended to
// the reply as a Sources section.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a new Gemini provider instance. Returns an
// error if the API key is missing or the client cannot be constructed.
func NewGeminiProvider(apiKey, modelName string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		model:  modelName,
	}, nil
}

// Name implements model.Provider.Name.
func (p *GeminiProvider) Name() string {
	return "Gemini"
}

// Call implements model.Provider.Call.
func (p *GeminiProvider) Call(ctx context.Context, messages []model.Message, options map[string]any) (string, error) {
	contents, config := p.buildRequest(messages, options)

	resp, err := p.client.Models.GenerateContent(ctx, p.wireModel(), contents, config)
	if err != nil {
		return "", err
	}

	reply := extractGeminiReply(resp)
	if IsLiveSearchModel(p.model) && reply != "" {
		reply += formatGeminiSources(groundingOf(resp))
	}

	return reply, nil
}

// CallStream implements model.Provider.CallStream. Grounding metadata and
// the finish reason ride along on stream chunks; the Sources section (or
// the blocked-content fallback when no text arrived) is delivered as a
// final token after the upstream stream ends.
func (p *GeminiProvider) CallStream(ctx context.Context, messages []model.Message, options map[string]any, callback model.TokenCallback) error {
	contents, config := p.buildRequest(messages, options)

	var (
		sawText      bool
		finishReason genai.FinishReason
		grounding    *genai.GroundingMetadata
	)

	for resp, err := range p.client.Models.GenerateContentStream(ctx, p.wireModel(), contents, config) {
		if err != nil {
			return err
		}
		if len(resp.Candidates) > 0 {
			cand := resp.Candidates[0]
			if cand.FinishReason != "" {
				finishReason = cand.FinishReason
			}
			if cand.GroundingMetadata != nil {
				grounding = cand.GroundingMetadata
			}
		}
		if text := resp.Text(); text != "" {
			sawText = true
			if callback != nil {
				if err := callback(text); err != nil {
					return err
				}
			}
		}
	}

	if callback == nil {
		return nil
	}

	if !sawText {
		if fallback := blockedReplyFor(finishReason); fallback != "" {
			return callback(fallback)
		}
		return nil
	}

	if IsLiveSearchModel(p.model) {
		if suffix := formatGeminiSources(grounding); suffix != "" {
			return callback(suffix)
		}
	}

	return nil
}

// buildRequest assembles the contents and generation config, wiring in the
// search tool and instruction for the live-search alias.
func (p *GeminiProvider) buildRequest(messages []model.Message, options map[string]any) ([]*genai.Content, *genai.GenerateContentConfig) {
	if IsLiveSearchModel(p.model) {
		instruction := model.Message{Role: model.RoleSystem, Content: webSearchInstruction}
		messages = append([]model.Message{instruction}, messages...)
	}

	contents, systemInstruction := ConvertToGeminiContents(messages)

	config := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction,
	}

	if v, ok := optFloat(options, "temperature"); ok {
		config.Temperature = genai.Ptr(float32(v))
	}
	if v, ok := optFloat(options, "top_p"); ok {
		config.TopP = genai.Ptr(float32(v))
	}
	if v, ok := optFloat(options, "top_k"); ok {
		config.TopK = genai.Ptr(float32(v))
	}
	if v, ok := optInt(options, "max_output_tokens"); ok {
		config.MaxOutputTokens = int32(v)
	}

	if IsLiveSearchModel(p.model) {
		config.Tools = []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		}
	}

	return contents, config
}

func (p *GeminiProvider) wireModel() string {
	return StripLiveSuffix(p.model)
}

// extractGeminiReply turns a generate-content response into reply text,
// applying the finish-reason policy: safety and recitation blocks become a
// fixed refusal, truncation keeps whatever text arrived, and any other
// abnormal stop with no text becomes a generic fallback.
func extractGeminiReply(resp *genai.GenerateContentResponse) string {
	var finishReason genai.FinishReason
	if len(resp.Candidates) > 0 {
		finishReason = resp.Candidates[0].FinishReason
	}

	switch finishReason {
	case genai.FinishReasonSafety, genai.FinishReasonRecitation:
		return geminiSafetyRefusal
	}

	text := resp.Text()
	if text == "" {
		if fallback := blockedReplyFor(finishReason); fallback != "" {
			return fallback
		}
		return ""
	}

	return text
}

// blockedReplyFor maps an abnormal finish reason to its fixed reply string.
// Returns "" for normal completion reasons.
func blockedReplyFor(reason genai.FinishReason) string {
	switch reason {
	case genai.FinishReasonSafety, genai.FinishReasonRecitation:
		return geminiSafetyRefusal
	case "", genai.FinishReasonStop, genai.FinishReasonMaxTokens:
		return ""
	default:
		return geminiEmptyReply
	}
}

func groundingOf(resp *genai.GenerateContentResponse) *genai.GroundingMetadata {
	if len(resp.Candidates) == 0 {
		return nil
	}
	return resp.Candidates[0].GroundingMetadata
}

// formatGeminiSources renders grounding metadata as a markdown Sources
// section. Metadata with no resolvable URLs yields an informational note so
// the user still knows search ran. No metadata yields "".
func formatGeminiSources(grounding *genai.GroundingMetadata) string {
	if grounding == nil {
		return ""
	}

	var b strings.Builder
	seen := make(map[string]bool)
	n := 0
	for _, chunk := range grounding.GroundingChunks {
		if chunk.Web == nil || chunk.Web.URI == "" || seen[chunk.Web.URI] {
			continue
		}
		seen[chunk.Web.URI] = true
		n++
		title := chunk.Web.Title
		if title == "" {
			title = chunk.Web.URI
		}
		fmt.Fprintf(&b, "\n%d. [%s](%s)", n, title, chunk.Web.URI)
	}

	if n == 0 {
		return geminiNoSourcesNote
	}

	return "\n\n**Sources:**" + b.String()
}

// ListModels implements model.Provider.ListModels.
func (p *GeminiProvider) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	var result []model.ModelInfo
	for m, err := range p.client.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("failed to list Gemini models: %w", err)
		}
		result = append(result, model.ModelInfo{
			Name:     strings.TrimPrefix(m.Name, "models/"),
			Provider: "gemini",
		})
	}
	return result, nil
}

// Ping implements model.Provider.Ping by fetching the model catalog.
func (p *GeminiProvider) Ping(ctx context.Context) error {
	for _, err := range p.client.Models.All(ctx) {
		if err != nil {
			return fmt.Errorf("Gemini ping failed: %w", err)
		}
		break
	}
	return nil
}
