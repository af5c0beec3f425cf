package config

import (
	"context"

	"omnichat/ollama"
)

// InitializeOllama performs the best-effort startup sequence for the local
// daemon: if the binary is installed, try to start the server, enumerate
// the installed models and sync them into the provider registry.
//
// Every step is advisory. A machine without Ollama, or with a daemon that
// refuses to start, still gets a working app limited to cloud providers;
// failures are logged and swallowed.
func InitializeOllama(ctx context.Context, registry *ProviderRegistry, client *ollama.Client) {
	if !ollama.IsInstalled(ctx) {
		if Debug {
			DebugLog.Printf("[Ollama] binary not found, skipping local provider setup")
		}
		return
	}

	if err := client.Start(ctx); err != nil {
		if Debug {
			DebugLog.Printf("[Ollama] daemon start failed: %v", err)
		}
		return
	}

	models, err := client.ListModels(ctx)
	if err != nil {
		if Debug {
			DebugLog.Printf("[Ollama] model enumeration failed: %v", err)
		}
		return
	}

	names := make([]string, 0, len(models))
	for _, m := range models {
		names = append(names, m.Name)
	}

	if err := registry.SetOllamaModels(names); err != nil {
		if Debug {
			DebugLog.Printf("[Ollama] registry update failed: %v", err)
		}
		return
	}

	if Debug {
		DebugLog.Printf("[Ollama] registered %d local models", len(names))
	}
}
