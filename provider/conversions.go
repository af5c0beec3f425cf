package provider

import (
	"strings"

	"omnichat/model"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

// ConvertToOpenAIMessages converts model.Message to the OpenAI SDK's message
// union. Unknown roles are treated as user messages; normalization upstream
// should have coerced them already, this is the wire-level backstop.
func ConvertToOpenAIMessages(messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case model.RoleAssistant:
			result = append(result, openai.AssistantMessage(msg.Content))
		default:
			result = append(result, openai.UserMessage(msg.Content))
		}
	}
	return result
}

// ConvertToOllamaMessages converts model.Message to Ollama api.Message.
// The two types share Role and Content fields, so this is a direct mapping.
func ConvertToOllamaMessages(messages []model.Message) []api.Message {
	result := make([]api.Message, len(messages))
	for i, msg := range messages {
		result[i] = api.Message{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}
	return result
}

// ConvertToGeminiContents converts model.Message to Gemini contents plus a
// separate system instruction, since the Gemini API carries system text
// outside the turn list.
//
// Gemini only knows two turn roles: "user" and "model". Assistant turns map
// to "model", everything else maps to "user". Multiple system messages are
// joined into one instruction, preserving order.
func ConvertToGeminiContents(messages []model.Message) ([]*genai.Content, *genai.Content) {
	var contents []*genai.Content
	var systemParts []string

	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			systemParts = append(systemParts, msg.Content)
		case model.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}

	var systemInstruction *genai.Content
	if len(systemParts) > 0 {
		systemInstruction = genai.NewContentFromText(strings.Join(systemParts, "\n\n"), genai.RoleUser)
	}

	return contents, systemInstruction
}

// ConvertToAnthropicMessages converts model.Message to the Anthropic SDK's
// message params plus the system blocks, which Anthropic carries as a
// top-level field rather than a message role.
func ConvertToAnthropicMessages(messages []model.Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var result []anthropic.MessageParam
	var system []anthropic.TextBlockParam

	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case model.RoleAssistant:
			result = append(result, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	return result, system
}

// Option accessors. Tunable options arrive as map[string]any decoded from
// JSON, so numbers are float64 regardless of the target field type.

func optFloat(options map[string]any, key string) (float64, bool) {
	v, ok := options[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func optInt(options map[string]any, key string) (int, bool) {
	f, ok := optFloat(options, key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func optString(options map[string]any, key string) (string, bool) {
	v, ok := options[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// optStringSlice accepts both a single string and a list of strings, which
// is how "stop" sequences arrive from the UI.
func optStringSlice(options map[string]any, key string) ([]string, bool) {
	v, ok := options[key]
	if !ok {
		return nil, false
	}
	switch s := v.(type) {
	case string:
		return []string{s}, true
	case []string:
		return s, true
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			str, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, str)
		}
		return out, true
	}
	return nil, false
}
