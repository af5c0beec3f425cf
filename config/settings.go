package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Settings is the operator-editable configuration from settings.toml.
type Settings struct {
	DataDirectory string           `toml:"data_directory"`
	ListenAddr    string           `toml:"listen_addr"`
	Ollama        OllamaSettings   `toml:"ollama"`
	Security      SecuritySettings `toml:"security"`
}

type OllamaSettings struct {
	Host      string `toml:"host"`
	AutoStart bool   `toml:"auto_start"`
}

type SecuritySettings struct {
	Method string `toml:"method"`
}

// LoadSettings reads settings.toml, creating a commented template on first
// run, then applies OMNICHAT_* environment overrides.
func LoadSettings() (*Settings, error) {
	cfg := DefaultSettings()
	settingsPath := GetSettingsFilePath()

	if !FileExists(settingsPath) {
		if err := CreateDefaultSettings(); err != nil {
			return nil, fmt.Errorf("failed to create settings: %w", err)
		}
		applyEnvOverrides(cfg)
		return cfg, nil
	}

	if _, err := toml.DecodeFile(settingsPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides lets the environment win over the settings file, which
// is how container deployments configure the app without a volume-mounted
// config dir.
func applyEnvOverrides(cfg *Settings) {
	if v := os.Getenv("OMNICHAT_DATA_DIR"); v != "" {
		cfg.DataDirectory = v
	}
	if v := os.Getenv("OMNICHAT_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("OMNICHAT_OLLAMA_HOST"); v != "" {
		cfg.Ollama.Host = v
	}
	if v := os.Getenv("OMNICHAT_SECURITY_METHOD"); v != "" {
		cfg.Security.Method = v
	}
}

// SaveSettings writes settings.toml with secure permissions.
func SaveSettings(cfg *Settings) error {
	configDir := GetConfigDir()
	if err := EnsureDir(configDir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	settingsPath := GetSettingsFilePath()
	f, err := os.OpenFile(settingsPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create settings file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	return nil
}

// CreateDefaultSettings writes the commented settings template if no
// settings file exists yet.
func CreateDefaultSettings() error {
	configDir := GetConfigDir()
	if err := EnsureDir(configDir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	settingsPath := GetSettingsFilePath()
	if FileExists(settingsPath) {
		return nil
	}

	content := GenerateSettingsTemplate()
	if err := os.WriteFile(settingsPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	return nil
}
