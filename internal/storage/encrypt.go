package storage

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// Encryption errors.
var (
	// ErrKeyTooShort is returned for encryption keys under 16 bytes.
	ErrKeyTooShort = errors.New("storage: encryption key too short (minimum 16 bytes)")

	// ErrDecryptFailed is returned when a stored blob cannot be opened,
	// either because the key is wrong or the data is corrupt.
	ErrDecryptFailed = errors.New("storage: decryption failed")
)

// MinKeyLength is the minimum accepted encryption key length.
const MinKeyLength = 16

// secretBox encrypts session blobs at rest with XChaCha20-Poly1305.
// The random 24-byte nonce is prepended to each sealed blob.
type secretBox struct {
	aead cipher.AEAD
}

// newSecretBox derives a 256-bit cipher key from the configured key
// material and returns a ready box. Key material of any length >= 16
// bytes is accepted; it is stretched with SHA-256.
func newSecretBox(key []byte) (*secretBox, error) {
	if len(key) < MinKeyLength {
		return nil, ErrKeyTooShort
	}

	derived := sha256.Sum256(key)
	aead, err := chacha20poly1305.NewX(derived[:])
	if err != nil {
		return nil, fmt.Errorf("storage: init cipher: %w", err)
	}
	return &secretBox{aead: aead}, nil
}

// seal encrypts plaintext, returning nonce||ciphertext.
func (b *secretBox) seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("storage: read nonce entropy: %w", err)
	}
	return b.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// open decrypts a blob produced by seal.
func (b *secretBox) open(blob []byte) ([]byte, error) {
	if len(blob) < b.aead.NonceSize() {
		return nil, ErrDecryptFailed
	}
	nonce, ciphertext := blob[:b.aead.NonceSize()], blob[b.aead.NonceSize():]
	plaintext, err := b.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plaintext, nil
}
