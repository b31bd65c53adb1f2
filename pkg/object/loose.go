package object

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio"
)

// Loose is the git loose-object backend with a 2-character fan-out
// directory layout: objects/ab/cdef0123...
type Loose struct {
	dir string
}

// NewLoose opens the loose object directory at objectsDir. The directory
// must already exist.
func NewLoose(objectsDir string) (*Loose, error) {
	info, err := os.Stat(objectsDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotARepository, objectsDir)
		}
		return nil, fmt.Errorf("open objects dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNotARepository, objectsDir)
	}
	return &Loose{dir: objectsDir}, nil
}

// Dir returns the objects directory.
func (l *Loose) Dir() string {
	return l.dir
}

// PathFor returns the filesystem path for a given hash. Anything other than
// 40 hex characters fails with ErrInvalidDigest.
func (l *Loose) PathFor(h Hash) (string, error) {
	canon, err := ParseHash(string(h))
	if err != nil {
		return "", err
	}
	return filepath.Join(l.dir, string(canon[:2]), string(canon[2:])), nil
}

// Has reports whether the object file exists.
func (l *Loose) Has(h Hash) (bool, error) {
	path, err := l.PathFor(h)
	if err != nil {
		return false, fmt.Errorf("object stat: %w", err)
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("object stat %s: %w", h, err)
}

// Get reads the compressed object file.
func (l *Loose) Get(h Hash) ([]byte, error) {
	path, err := l.PathFor(h)
	if err != nil {
		return nil, fmt.Errorf("object read: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("object read %s: %w", h, ErrNotFound)
		}
		return nil, fmt.Errorf("object read %s: %w", h, err)
	}
	return data, nil
}

// Put writes the object file if it is absent. Writes are atomic: data is
// written to a temp file and then renamed into place.
func (l *Loose) Put(h Hash, compressed []byte) error {
	path, err := l.PathFor(h)
	if err != nil {
		return fmt.Errorf("object write: %w", err)
	}
	ok, err := l.Has(h)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("object write mkdir: %w", err)
	}
	if err := renameio.WriteFile(path, compressed, 0o444); err != nil {
		return fmt.Errorf("object write %s: %w", h, err)
	}
	return nil
}

// Close is a no-op for the loose backend.
func (l *Loose) Close() error {
	return nil
}
