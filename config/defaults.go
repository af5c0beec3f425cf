package config

func DefaultSettings() *Settings {
	return &Settings{
		DataDirectory: "~/.local/share/omnichat",
		ListenAddr:    "127.0.0.1:8080",
		Ollama: OllamaSettings{
			Host:      "http://localhost:11434",
			AutoStart: true,
		},
		Security: SecuritySettings{
			Method: string(SecurityPlainText),
		},
	}
}

func GenerateSettingsTemplate() string {
	return `# Omni Chat Configuration
# Location: ~/.config/omnichat/settings.toml
# This file uses TOML format: https://toml.io

# Directory where chats, credentials and the provider registry are stored
data_directory = "~/.local/share/omnichat"

# Address the web server listens on
listen_addr = "127.0.0.1:8080"

[ollama]
# Ollama server URL
host = "http://localhost:11434"

# Try to start the Ollama daemon at startup if it is installed
auto_start = true

[security]
# Credential storage: "plaintext" (credentials.toml, 0600) or "encrypted"
# (credentials.enc, AES-GCM with a passphrase-derived key; set the
# passphrase via OMNICHAT_CREDENTIALS_PASSPHRASE)
method = "plaintext"
`
}
