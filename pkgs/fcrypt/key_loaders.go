package fcrypt

import (
	"fmt"

	"filippo.io/age"
)

func LoadPublicKey(key string) (*age.X25519Recipient, error) {
	recipient, err := age.ParseX25519Recipient(key)
	if err != nil {
		return nil, fmt.Errorf("error parsing age public key %q: %w", key, err)
	}

	return recipient, nil
}

// LoadPrivateKey parses an AGE-SECRET-KEY-1... line.
func LoadPrivateKey(key string) (*age.X25519Identity, error) {
	identity, err := age.ParseX25519Identity(key)
	if err != nil {
		return nil, fmt.Errorf("error parsing age private key: %w", err)
	}

	return identity, nil
}
