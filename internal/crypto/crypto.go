// Package crypto encrypts lesson transcripts at rest. Transcripts are
// verbatim recordings of minors, so they never touch the database in plain
// text. AES-256-GCM, one service master key from the environment.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"os"
)

var (
	ErrMasterKeyNotSet   = errors.New("master key not set in environment")
	ErrInvalidMasterKey  = errors.New("invalid master key: must be 32 bytes base64-encoded")
	ErrInvalidCiphertext = errors.New("invalid ciphertext: too short")
	ErrDecryptionFailed  = errors.New("decryption failed")
)

// TranscriptCipher seals and opens transcripts with the service master key.
type TranscriptCipher struct {
	aead cipher.AEAD
}

// NewTranscriptCipher reads the base64-encoded 32-byte master key from the
// MASTER_KEY environment variable.
func NewTranscriptCipher() (*TranscriptCipher, error) {
	encoded := os.Getenv("MASTER_KEY")
	if encoded == "" {
		return nil, ErrMasterKeyNotSet
	}

	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(key) != 32 {
		return nil, ErrInvalidMasterKey
	}

	return NewTranscriptCipherWithKey(key)
}

// NewTranscriptCipherWithKey builds a cipher from a raw 32-byte key. Tests
// use this to avoid touching the environment.
func NewTranscriptCipherWithKey(key []byte) (*TranscriptCipher, error) {
	if len(key) != 32 {
		return nil, ErrInvalidMasterKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &TranscriptCipher{aead: aead}, nil
}

// Encrypt seals the transcript and returns base64(nonce + ciphertext + tag),
// safe for storage in a text column.
func (c *TranscriptCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
func (c *TranscriptCipher) Decrypt(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	nonceSize := c.aead.NonceSize()
	if len(sealed) < nonceSize {
		return "", ErrInvalidCiphertext
	}

	plaintext, err := c.aead.Open(nil, sealed[:nonceSize], sealed[nonceSize:], nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	return string(plaintext), nil
}

// GenerateKey produces a random 256-bit key, used by ops tooling to mint a
// new master key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	return key, nil
}
