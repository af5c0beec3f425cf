package chat

import (
	"strings"

	"omnichat/model"
)

// NormalizeHistory converts stored history plus the latest user message into
// the flat conversation sent to a provider adapter.
//
// Unknown roles are coerced to "user" rather than rejected: history rows
// written by older versions or imported from elsewhere should degrade, not
// fail the request. No turn is ever dropped or reordered, and the latest
// message always lands as the trailing user turn.
func NormalizeHistory(history []model.Message, latest string) []model.Message {
	out := make([]model.Message, 0, len(history)+1)
	for _, msg := range history {
		role := msg.Role
		if !model.KnownRole(role) {
			role = model.RoleUser
		}
		out = append(out, model.Message{Role: role, Content: msg.Content})
	}
	out = append(out, model.Message{Role: model.RoleUser, Content: latest})
	return out
}

// titleMaxLen is the display length chat titles are cut to.
const titleMaxLen = 48

// TitleFromMessage derives a chat title from the first user message:
// whitespace collapsed, truncated with an ellipsis.
func TitleFromMessage(message string) string {
	title := strings.Join(strings.Fields(message), " ")
	if title == "" {
		return "New Chat"
	}

	runes := []rune(title)
	if len(runes) <= titleMaxLen {
		return title
	}
	return strings.TrimSpace(string(runes[:titleMaxLen])) + "..."
}
