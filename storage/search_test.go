package storage

import "testing"

func TestSearchChats(t *testing.T) {
	store := newTestStorage(t)

	store.CreateChat("Kubernetes deployment help", "openai", "gpt-4.1", "")
	store.CreateChat("Dinner recipe ideas", "gemini", "gemini-2.5-pro", "")
	store.CreateChat("Kubernetes networking", "openai", "gpt-4.1", "")

	results, err := store.SearchChats("kuber")
	if err != nil {
		t.Fatalf("SearchChats failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results: %+v", len(results), results)
	}
	for _, chat := range results {
		if chat.Title == "Dinner recipe ideas" {
			t.Errorf("unrelated chat matched: %+v", chat)
		}
	}
}

func TestSearchChatsEmptyQuery(t *testing.T) {
	store := newTestStorage(t)

	store.CreateChat("a", "openai", "gpt-4.1", "")
	store.CreateChat("b", "openai", "gpt-4.1", "")

	results, err := store.SearchChats("")
	if err != nil {
		t.Fatalf("SearchChats failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("empty query should return all chats, got %d", len(results))
	}
}
