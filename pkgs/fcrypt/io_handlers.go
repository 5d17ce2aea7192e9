// Package fcrypt wraps age encryption with ASCII armor so encrypted env files
// stay diffable text.
package fcrypt

import (
	"fmt"
	"io"

	"filippo.io/age"
	"filippo.io/age/armor"
)

// EncryptReader encrypts r to every recipient and writes the armored result
// to w.
func EncryptReader(r io.Reader, w io.Writer, recipients ...age.Recipient) error {
	armorWriter := armor.NewWriter(w)

	encryptor, err := age.Encrypt(armorWriter, recipients...)
	if err != nil {
		_ = armorWriter.Close()
		return fmt.Errorf("failed to create encryptor: %w", err)
	}

	if _, err := io.Copy(encryptor, r); err != nil {
		_ = encryptor.Close()
		_ = armorWriter.Close()
		return fmt.Errorf("failed to encrypt: %w", err)
	}

	// close in reverse order so the armor footer follows the final chunk
	if err := encryptor.Close(); err != nil {
		_ = armorWriter.Close()
		return fmt.Errorf("failed to finalize encryption: %w", err)
	}
	if err := armorWriter.Close(); err != nil {
		return fmt.Errorf("failed to finalize armor: %w", err)
	}

	return nil
}

// DecryptReader decrypts armored age data from r into w.
func DecryptReader(r io.Reader, w io.Writer, identities ...age.Identity) error {
	decryptor, err := age.Decrypt(armor.NewReader(r), identities...)
	if err != nil {
		return fmt.Errorf("failed to create decryptor: %w", err)
	}

	if _, err := io.Copy(w, decryptor); err != nil {
		return fmt.Errorf("failed to decrypt: %w", err)
	}

	return nil
}
