package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

// Encrypted credential file layout: salt (16 bytes) || GCM nonce || GCM
// ciphertext. The key is derived from the user's passphrase with scrypt, a
// fresh salt per write.
const (
	saltSize = 16
	keySize  = 32

	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// EncryptionManager performs passphrase-based encryption for the
// credentials-at-rest file.
type EncryptionManager struct {
	passphrase string
}

func NewEncryptionManager(passphrase string) *EncryptionManager {
	return &EncryptionManager{passphrase: passphrase}
}

func (m *EncryptionManager) deriveKey(salt []byte) ([]byte, error) {
	if m.passphrase == "" {
		return nil, fmt.Errorf("encryption passphrase is not set")
	}
	return scrypt.Key([]byte(m.passphrase), salt, scryptN, scryptR, scryptP, keySize)
}

// Encrypt seals plaintext with AES-GCM under a scrypt-derived key.
func (m *EncryptionManager) Encrypt(plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key, err := m.deriveKey(salt)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, plaintext, nil)

	out := make([]byte, 0, saltSize+len(nonce)+len(sealed))
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, sealed...)
	return out, nil
}

// Decrypt opens data produced by Encrypt.
func (m *EncryptionManager) Decrypt(data []byte) ([]byte, error) {
	if len(data) < saltSize {
		return nil, fmt.Errorf("encrypted data too short")
	}

	salt, rest := data[:saltSize], data[saltSize:]

	key, err := m.deriveKey(salt)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	if len(rest) < gcm.NonceSize() {
		return nil, fmt.Errorf("encrypted data too short")
	}

	nonce, ciphertext := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt credentials (wrong passphrase?): %w", err)
	}

	return plaintext, nil
}
