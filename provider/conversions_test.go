package provider

import (
	"reflect"
	"testing"

	"omnichat/model"

	"google.golang.org/genai"
)

func TestConvertToOllamaMessages(t *testing.T) {
	messages := []model.Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
	}

	converted := ConvertToOllamaMessages(messages)

	if len(converted) != len(messages) {
		t.Fatalf("got %d messages, want %d", len(converted), len(messages))
	}
	for i := range messages {
		if converted[i].Role != messages[i].Role || converted[i].Content != messages[i].Content {
			t.Errorf("message %d = %+v, want %+v", i, converted[i], messages[i])
		}
	}
}

func TestConvertToGeminiContents(t *testing.T) {
	messages := []model.Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
		{Role: "user", Content: "bye"},
	}

	contents, system := ConvertToGeminiContents(messages)

	if system == nil || len(system.Parts) == 0 || system.Parts[0].Text != "be brief" {
		t.Fatalf("system instruction not extracted: %+v", system)
	}

	wantRoles := []genai.Role{genai.RoleUser, genai.RoleModel, genai.RoleUser}
	if len(contents) != len(wantRoles) {
		t.Fatalf("got %d contents, want %d", len(contents), len(wantRoles))
	}
	for i, want := range wantRoles {
		if genai.Role(contents[i].Role) != want {
			t.Errorf("content %d role = %q, want %q", i, contents[i].Role, want)
		}
	}
}

func TestConvertToGeminiContentsJoinsSystemMessages(t *testing.T) {
	messages := []model.Message{
		{Role: "system", Content: "first"},
		{Role: "system", Content: "second"},
		{Role: "user", Content: "hi"},
	}

	_, system := ConvertToGeminiContents(messages)
	if system == nil {
		t.Fatal("expected system instruction")
	}
	if got := system.Parts[0].Text; got != "first\n\nsecond" {
		t.Errorf("joined system = %q", got)
	}
}

func TestConvertToAnthropicMessages(t *testing.T) {
	messages := []model.Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
	}

	converted, system := ConvertToAnthropicMessages(messages)

	if len(system) != 1 || system[0].Text != "be brief" {
		t.Fatalf("system blocks = %+v", system)
	}
	if len(converted) != 2 {
		t.Fatalf("got %d messages, want 2 (system rides separately)", len(converted))
	}
}

func TestOptFloat(t *testing.T) {
	options := map[string]any{
		"from_json": 0.7,
		"from_int":  2,
		"bad":       "hot",
	}

	if v, ok := optFloat(options, "from_json"); !ok || v != 0.7 {
		t.Errorf("optFloat(from_json) = %v, %v", v, ok)
	}
	if v, ok := optFloat(options, "from_int"); !ok || v != 2 {
		t.Errorf("optFloat(from_int) = %v, %v", v, ok)
	}
	if _, ok := optFloat(options, "bad"); ok {
		t.Error("optFloat should reject strings")
	}
	if _, ok := optFloat(options, "missing"); ok {
		t.Error("optFloat should report missing keys")
	}
}

func TestOptStringSlice(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  []string
		ok    bool
	}{
		{"single string", "END", []string{"END"}, true},
		{"string slice", []string{"a", "b"}, []string{"a", "b"}, true},
		{"json array", []any{"a", "b"}, []string{"a", "b"}, true},
		{"mixed array", []any{"a", 1}, nil, false},
		{"number", 3, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := optStringSlice(map[string]any{"stop": tt.value}, "stop")
			if ok != tt.ok || !reflect.DeepEqual(got, tt.want) {
				t.Errorf("optStringSlice = %v, %v; want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestConvertOllamaOptionsRenamesMaxTokens(t *testing.T) {
	out := convertOllamaOptions(map[string]any{"max_tokens": 128, "temperature": 0.5})

	if out["num_predict"] != 128 {
		t.Errorf("num_predict = %v, want 128", out["num_predict"])
	}
	if _, ok := out["max_tokens"]; ok {
		t.Error("max_tokens should not be forwarded under its generic name")
	}
	if out["temperature"] != 0.5 {
		t.Errorf("temperature = %v", out["temperature"])
	}
}
