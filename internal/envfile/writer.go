// Package envfile writes generated env files without clobbering existing
// ones unless the operator agrees.
package envfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// DefaultPerm is used when Writer.Perm is zero. Env files hold secrets.
const DefaultPerm fs.FileMode = 0o600

// ErrDirNotFound is returned when the target directory is missing.
var ErrDirNotFound = errors.New("directory not found")

// Outcome reports what Write did.
type Outcome int

const (
	Written Outcome = iota
	Declined
)

func (o Outcome) String() string {
	switch o {
	case Written:
		return "written"
	case Declined:
		return "declined"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Writer writes a file named Name into the existing directory Dir. When the
// file already exists, Confirm decides whether it is replaced.
type Writer struct {
	Dir     string
	Name    string
	Perm    fs.FileMode
	Confirm Confirmer
}

func (w Writer) Path() string {
	return filepath.Join(w.Dir, w.Name)
}

// Write stores content at Path. The file is either replaced in full or left
// as it was.
func (w Writer) Write(ctx context.Context, content []byte) (Outcome, error) {
	info, err := os.Stat(w.Dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return Declined, fmt.Errorf("%s %w; run this from the project root", w.Dir, ErrDirNotFound)
	case err != nil:
		return Declined, fmt.Errorf("failed to stat %s: %w", w.Dir, err)
	case !info.IsDir():
		return Declined, fmt.Errorf("%s is not a directory: %w", w.Dir, ErrDirNotFound)
	}

	path := w.Path()

	_, err = os.Stat(path)
	switch {
	case err == nil:
		if w.Confirm == nil {
			return Declined, fmt.Errorf("%s already exists and no confirmation is available", path)
		}

		ok, err := w.Confirm.Confirm(ctx, fmt.Sprintf("%s already exists. Overwrite?", path))
		if err != nil {
			return Declined, fmt.Errorf("failed to confirm overwrite: %w", err)
		}

		if !ok {
			log.Debug().Str("path", path).Msg("overwrite declined")
			return Declined, nil
		}
	case !errors.Is(err, fs.ErrNotExist):
		return Declined, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	perm := w.Perm
	if perm == 0 {
		perm = DefaultPerm
	}

	if err := writeAtomic(path, content, perm); err != nil {
		return Declined, err
	}

	log.Debug().Str("path", path).Int("bytes", len(content)).Msg("file written")
	return Written, nil
}

// writeAtomic writes to a temporary file beside path and renames it into
// place.
func writeAtomic(path string, content []byte, perm fs.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(content); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err = tmp.Chmod(perm); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}

	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}
