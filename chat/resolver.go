package chat

import (
	"context"
	"strings"

	"omnichat/provider"
)

// CredentialSource yields the stored secret for a provider. Implementations
// re-read their backing store on every call so key changes apply to the
// next request without a restart.
type CredentialSource interface {
	Get(providerID string) string
}

// placeholderPrefix marks a template value the user never replaced with a
// real key. Template credential files ship entries like "PUT_KEY_HERE".
const placeholderPrefix = "PUT_"

// CredentialAbsent reports whether a stored secret counts as missing:
// empty, whitespace, or still the template placeholder.
func CredentialAbsent(key string) bool {
	key = strings.TrimSpace(key)
	return key == "" || strings.HasPrefix(key, placeholderPrefix)
}

// availability is the resolver's answer for one provider: either the
// provider can be called (with the secret to use), or it cannot and the
// orchestrator owes the caller a missing-key outcome.
type availability struct {
	ok     bool
	apiKey string
}

// resolve determines whether a provider is callable right now. For cloud
// providers that means a usable credential; for Ollama it means the local
// daemon answers a probe. Resolution never fails, it only answers no.
func (s *Service) resolve(ctx context.Context, providerID string) availability {
	if provider.IsLocalProvider(providerID) {
		return availability{ok: s.probeOllama(ctx)}
	}

	key := s.credentials.Get(providerID)
	if CredentialAbsent(key) {
		return availability{ok: false}
	}
	return availability{ok: true, apiKey: key}
}
