package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

// SecurityMethod defines the credential storage method
type SecurityMethod string

const (
	SecurityPlainText SecurityMethod = "plaintext"
	SecurityEncrypted SecurityMethod = "encrypted"
)

// envKeys maps provider IDs to the conventional environment variables that
// act as a read-only fallback when no key is stored on disk.
var envKeys = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"gemini":    "GEMINI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

// CredentialStore manages API credentials on disk, either as a plain TOML
// file (0600) or encrypted at rest with a passphrase-derived key.
//
// Reads go back to disk on every Get so a key saved through the settings
// API applies to the next generation request without a restart. A mutex
// serializes read-modify-write cycles from concurrent HTTP handlers.
type CredentialStore struct {
	mu         sync.Mutex
	dataDir    string
	method     SecurityMethod
	encManager *EncryptionManager
}

// NewCredentialStore creates a credential store. For SecurityEncrypted the
// passphrase comes from OMNICHAT_CREDENTIALS_PASSPHRASE.
func NewCredentialStore(dataDir string, method SecurityMethod) *CredentialStore {
	if method == "" {
		method = SecurityPlainText
	}
	return &CredentialStore{
		dataDir:    dataDir,
		method:     method,
		encManager: NewEncryptionManager(os.Getenv("OMNICHAT_CREDENTIALS_PASSPHRASE")),
	}
}

// Get retrieves the credential for a provider, falling back to the
// provider's conventional environment variable. Returns "" when nothing is
// configured; interpreting placeholders is the caller's concern.
func (c *CredentialStore) Get(providerID string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	creds, err := c.load()
	if err != nil {
		if Debug {
			DebugLog.Printf("[Credentials] load failed: %v", err)
		}
		creds = map[string]string{}
	}

	if key := creds[providerID]; key != "" {
		return key
	}
	if envVar := envKeys[providerID]; envVar != "" {
		return os.Getenv(envVar)
	}
	return ""
}

// Set stores a credential for a provider.
func (c *CredentialStore) Set(providerID, apiKey string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	creds, err := c.load()
	if err != nil {
		return err
	}
	creds[providerID] = apiKey
	return c.save(creds)
}

// Delete removes a stored credential. Deleting a credential that only
// exists as an environment variable is a no-op.
func (c *CredentialStore) Delete(providerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	creds, err := c.load()
	if err != nil {
		return err
	}
	delete(creds, providerID)
	return c.save(creds)
}

// StoredProviders returns the provider IDs that have a credential on disk
// (not counting environment fallbacks).
func (c *CredentialStore) StoredProviders() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	creds, err := c.load()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(creds))
	for id := range creds {
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *CredentialStore) load() (map[string]string, error) {
	switch c.method {
	case SecurityPlainText:
		return loadPlainText(c.dataDir)
	case SecurityEncrypted:
		return c.loadEncrypted()
	default:
		return nil, fmt.Errorf("unknown security method: %s", c.method)
	}
}

func (c *CredentialStore) save(creds map[string]string) error {
	switch c.method {
	case SecurityPlainText:
		return savePlainText(c.dataDir, creds)
	case SecurityEncrypted:
		return c.saveEncrypted(creds)
	default:
		return fmt.Errorf("unknown security method: %s", c.method)
	}
}

// credentialsPath returns the path to the plain text credentials file
func credentialsPath(dataDir string) string {
	return filepath.Join(dataDir, "credentials.toml")
}

// encryptedCredentialsPath returns the path to the encrypted credentials file
func encryptedCredentialsPath(dataDir string) string {
	return filepath.Join(dataDir, "credentials.enc")
}

// credentialsFile is the on-disk TOML shape.
type credentialsFile struct {
	Credentials map[string]string `toml:"credentials"`
}

// loadPlainText loads credentials from the plain text TOML file. A missing
// file is an empty store, not an error.
func loadPlainText(dataDir string) (map[string]string, error) {
	path := credentialsPath(dataDir)

	if !FileExists(path) {
		return make(map[string]string), nil
	}

	var cf credentialsFile
	if _, err := toml.DecodeFile(path, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}

	if cf.Credentials == nil {
		cf.Credentials = make(map[string]string)
	}
	return cf.Credentials, nil
}

// savePlainText saves credentials to the TOML file with 0600 permissions.
func savePlainText(dataDir string, creds map[string]string) error {
	path := credentialsPath(dataDir)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create credentials file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(credentialsFile{Credentials: creds}); err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	return nil
}

func (c *CredentialStore) loadEncrypted() (map[string]string, error) {
	path := encryptedCredentialsPath(c.dataDir)

	if !FileExists(path) {
		return make(map[string]string), nil
	}

	encryptedData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read encrypted credentials: %w", err)
	}

	decryptedData, err := c.encManager.Decrypt(encryptedData)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt credentials: %w", err)
	}

	var creds map[string]string
	if err := json.Unmarshal(decryptedData, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse decrypted credentials: %w", err)
	}
	if creds == nil {
		creds = make(map[string]string)
	}

	return creds, nil
}

func (c *CredentialStore) saveEncrypted(creds map[string]string) error {
	path := encryptedCredentialsPath(c.dataDir)

	jsonData, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to serialize credentials: %w", err)
	}

	encryptedData, err := c.encManager.Encrypt(jsonData)
	if err != nil {
		return fmt.Errorf("failed to encrypt credentials: %w", err)
	}

	if err := os.WriteFile(path, encryptedData, 0600); err != nil {
		return fmt.Errorf("failed to write encrypted credentials: %w", err)
	}

	return nil
}
