// Package token generates unpredictable token values.
//
// Values are read from crypto/rand and Base64 RawURL encoded, so they
// are safe to embed in forms, headers, and URLs without escaping.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// DefaultLength is the default number of random bytes per token.
// 32 bytes yields a 43-character encoded value.
const DefaultLength = 32

// Generate returns a fresh random token of DefaultLength bytes.
func Generate() (string, error) {
	return GenerateWithLength(DefaultLength)
}

// GenerateWithLength returns a fresh random token of length random bytes.
func GenerateWithLength(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("token: length must be positive, got %d", length)
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("token: read entropy: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Generator produces tokens of a fixed byte length.
//
// The zero value is not usable; construct with NewGenerator.
type Generator struct {
	length int
}

// NewGenerator returns a Generator producing tokens of length random bytes.
// Non-positive lengths fall back to DefaultLength.
func NewGenerator(length int) *Generator {
	if length <= 0 {
		length = DefaultLength
	}
	return &Generator{length: length}
}

// Generate returns a fresh random token.
func (g *Generator) Generate() (string, error) {
	return GenerateWithLength(g.length)
}

// Length returns the configured byte length.
func (g *Generator) Length() int {
	return g.length
}
