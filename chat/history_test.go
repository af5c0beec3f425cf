package chat

import (
	"strings"
	"testing"

	"omnichat/model"
)

func TestNormalizeHistoryAppendsLatestUserTurn(t *testing.T) {
	history := []model.Message{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
	}

	got := NormalizeHistory(history, "how are you?")

	if len(got) != 3 {
		t.Fatalf("got %d messages, want 3", len(got))
	}
	last := got[len(got)-1]
	if last.Role != model.RoleUser || last.Content != "how are you?" {
		t.Errorf("last turn = %+v, want trailing user turn", last)
	}
}

func TestNormalizeHistoryCoercesUnknownRoles(t *testing.T) {
	history := []model.Message{
		{Role: "tool", Content: "result"},
		{Role: "function", Content: "output"},
		{Role: "system", Content: "keep"},
		{Role: "", Content: "blank"},
	}

	got := NormalizeHistory(history, "next")

	wantRoles := []string{"user", "user", "system", "user", "user"}
	for i, want := range wantRoles {
		if got[i].Role != want {
			t.Errorf("turn %d role = %q, want %q", i, got[i].Role, want)
		}
	}
}

func TestNormalizeHistoryPreservesOrderAndContent(t *testing.T) {
	history := []model.Message{
		{Role: "user", Content: "a"},
		{Role: "assistant", Content: "b"},
		{Role: "user", Content: "c"},
	}

	got := NormalizeHistory(history, "d")

	for i, want := range []string{"a", "b", "c", "d"} {
		if got[i].Content != want {
			t.Errorf("turn %d content = %q, want %q", i, got[i].Content, want)
		}
	}
}

func TestNormalizeHistoryDoesNotMutateInput(t *testing.T) {
	history := []model.Message{{Role: "tool", Content: "x"}}

	NormalizeHistory(history, "y")

	if history[0].Role != "tool" {
		t.Error("input history was mutated")
	}
}

func TestNormalizeHistoryEmptyHistory(t *testing.T) {
	got := NormalizeHistory(nil, "hello")
	if len(got) != 1 || got[0].Role != model.RoleUser || got[0].Content != "hello" {
		t.Errorf("got %+v", got)
	}
}

func TestTitleFromMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"short message", "Hello there", "Hello there"},
		{"collapses whitespace", "hello\n  world", "hello world"},
		{"empty", "   ", "New Chat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TitleFromMessage(tt.message); got != tt.want {
				t.Errorf("TitleFromMessage(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestTitleFromMessageTruncates(t *testing.T) {
	long := strings.Repeat("abcde ", 20)
	got := TitleFromMessage(long)

	if !strings.HasSuffix(got, "...") {
		t.Errorf("long title should end with ellipsis: %q", got)
	}
	if n := len([]rune(got)); n > titleMaxLen+3 {
		t.Errorf("title too long: %d runes", n)
	}
}
