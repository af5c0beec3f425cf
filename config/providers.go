package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ProviderEntry is one provider in the registry with the models the UI
// offers for it.
type ProviderEntry struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Models []string `json:"models"`
}

// ProvidersConfig is the on-disk shape of providers.json.
type ProvidersConfig struct {
	DefaultProvider string          `json:"default_provider"`
	DefaultModel    string          `json:"default_model"`
	Providers       []ProviderEntry `json:"providers"`
}

// DefaultProvidersConfig is the built-in registry used when neither
// providers.json nor a template file exists.
func DefaultProvidersConfig() *ProvidersConfig {
	return &ProvidersConfig{
		DefaultProvider: "openai",
		DefaultModel:    "gpt-4.1",
		Providers: []ProviderEntry{
			{
				ID:   "openai",
				Name: "OpenAI",
				Models: []string{
					"gpt-4.1", "gpt-4.1-mini", "gpt-4.1-live", "gpt-4o",
					"o3", "o3-mini",
				},
			},
			{
				ID:   "gemini",
				Name: "Gemini",
				Models: []string{
					"gemini-2.5-pro", "gemini-2.5-pro-live", "gemini-2.5-flash",
				},
			},
			{
				ID:   "anthropic",
				Name: "Anthropic",
				Models: []string{
					"claude-sonnet-4-5", "claude-opus-4-1", "claude-haiku-4-5",
				},
			},
			{
				ID:     "ollama",
				Name:   "Ollama (Local)",
				Models: []string{},
			},
		},
	}
}

// ProviderRegistry manages providers.json: which providers exist, which
// models each offers, and the default provider/model pair. Writes are
// atomic (temp file + rename) so a crash never leaves a torn registry.
type ProviderRegistry struct {
	mu           sync.Mutex
	path         string
	templatePath string
}

// NewProviderRegistry creates a registry backed by <dataDir>/providers.json
// with <configDir>/providers_template.json as the first-run seed.
func NewProviderRegistry(dataDir string) *ProviderRegistry {
	return &ProviderRegistry{
		path:         filepath.Join(dataDir, "providers.json"),
		templatePath: filepath.Join(GetConfigDir(), "providers_template.json"),
	}
}

// Load returns the registry contents, seeding providers.json from the
// template (or the built-in default) on first run.
func (r *ProviderRegistry) Load() (*ProvidersConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked()
}

func (r *ProviderRegistry) loadLocked() (*ProvidersConfig, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return r.seedLocked()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read providers config: %w", err)
	}

	var cfg ProvidersConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse providers config: %w", err)
	}
	return &cfg, nil
}

// seedLocked creates providers.json from the template file when present,
// otherwise from the built-in default.
func (r *ProviderRegistry) seedLocked() (*ProvidersConfig, error) {
	cfg := DefaultProvidersConfig()

	if data, err := os.ReadFile(r.templatePath); err == nil {
		var fromTemplate ProvidersConfig
		if err := json.Unmarshal(data, &fromTemplate); err != nil {
			return nil, fmt.Errorf("failed to parse providers template: %w", err)
		}
		cfg = &fromTemplate
	}

	if err := r.saveLocked(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the registry atomically.
func (r *ProviderRegistry) Save(cfg *ProvidersConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveLocked(cfg)
}

func (r *ProviderRegistry) saveLocked(cfg *ProvidersConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize providers config: %w", err)
	}

	tmpPath := r.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write providers config: %w", err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		return fmt.Errorf("failed to replace providers config: %w", err)
	}
	return nil
}

// ValidateProviderModel reports whether the provider/model pair exists in
// the registry. Ollama entries validate any model name when the model list
// is empty, since the local catalog may not have been enumerated yet.
func (r *ProviderRegistry) ValidateProviderModel(providerID, modelName string) (bool, error) {
	cfg, err := r.Load()
	if err != nil {
		return false, err
	}

	for _, p := range cfg.Providers {
		if p.ID != providerID {
			continue
		}
		if providerID == "ollama" && len(p.Models) == 0 {
			return true, nil
		}
		for _, m := range p.Models {
			if m == modelName {
				return true, nil
			}
		}
		return false, nil
	}
	return false, nil
}

// SetDefault updates the default provider/model pair.
func (r *ProviderRegistry) SetDefault(providerID, modelName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfg, err := r.loadLocked()
	if err != nil {
		return err
	}
	cfg.DefaultProvider = providerID
	cfg.DefaultModel = modelName
	return r.saveLocked(cfg)
}

// SetOllamaModels replaces the Ollama entry's model list with the models
// actually installed locally, appending the entry if the registry predates
// Ollama support.
func (r *ProviderRegistry) SetOllamaModels(models []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfg, err := r.loadLocked()
	if err != nil {
		return err
	}

	for i := range cfg.Providers {
		if cfg.Providers[i].ID == "ollama" {
			cfg.Providers[i].Models = models
			return r.saveLocked(cfg)
		}
	}

	cfg.Providers = append(cfg.Providers, ProviderEntry{
		ID:     "ollama",
		Name:   "Ollama (Local)",
		Models: models,
	})
	return r.saveLocked(cfg)
}
