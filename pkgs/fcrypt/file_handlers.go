package fcrypt

import (
	"bytes"

	"filippo.io/age"
)

// Seal returns the armored age encryption of data.
func Seal(data []byte, recipients ...age.Recipient) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncryptReader(bytes.NewReader(data), &buf, recipients...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Open reverses Seal.
func Open(sealed []byte, identities ...age.Identity) ([]byte, error) {
	var buf bytes.Buffer
	if err := DecryptReader(bytes.NewReader(sealed), &buf, identities...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
