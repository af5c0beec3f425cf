// Package config manages application configuration: the TOML settings file
// with environment overrides, the credential store, the provider registry
// (providers.json) and debug logging.
package config

import (
	"fmt"
)

// Config aggregates everything loaded at startup.
type Config struct {
	Settings        *Settings
	DataDir         string
	CredentialStore *CredentialStore
	Registry        *ProviderRegistry
}

// Load reads settings, prepares the data directory and constructs the
// credential store and provider registry.
func Load() (*Config, error) {
	settings, err := LoadSettings()
	if err != nil {
		return nil, err
	}

	dataDir := ExpandPath(settings.DataDirectory)
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to prepare data directory: %w", err)
	}

	if err := InitDebugLog(dataDir); err != nil {
		return nil, err
	}

	return &Config{
		Settings:        settings,
		DataDir:         dataDir,
		CredentialStore: NewCredentialStore(dataDir, SecurityMethod(settings.Security.Method)),
		Registry:        NewProviderRegistry(dataDir),
	}, nil
}

// OllamaURL returns the configured Ollama daemon address.
func (c *Config) OllamaURL() string {
	return c.Settings.Ollama.Host
}
