// Package keygen produces the random encryption keys written into generated
// env files.
package keygen

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

const (
	// Size is the number of raw key bytes before encoding.
	Size = 32

	previewLen = 20
)

// Generate returns a new base64 (standard encoding) key read from crypto/rand.
func Generate() (string, error) {
	return GenerateFrom(rand.Reader)
}

// GenerateFrom reads Size bytes from r and encodes them. A failing reader is
// an error; there is no fallback source.
func GenerateFrom(r io.Reader) (string, error) {
	buf := make([]byte, Size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("failed to read %d random bytes: %w", Size, err)
	}

	return base64.StdEncoding.EncodeToString(buf), nil
}

// Preview truncates a key for display so it can be recognized without being
// disclosed.
func Preview(key string) string {
	return key[:min(len(key), previewLen)] + "..."
}
