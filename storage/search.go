package storage

import "github.com/sahilm/fuzzy"

// SearchChats finds chats whose titles fuzzy-match the query, best matches
// first. An empty query returns every chat in recency order.
func (s *ChatStorage) SearchChats(query string) ([]Chat, error) {
	chats, err := s.ListChats("")
	if err != nil {
		return nil, err
	}
	if query == "" {
		return chats, nil
	}

	titles := make([]string, len(chats))
	for i, chat := range chats {
		titles[i] = chat.Title
	}

	matches := fuzzy.Find(query, titles)

	result := make([]Chat, 0, len(matches))
	for _, m := range matches {
		result = append(result, chats[m.Index])
	}
	return result, nil
}
