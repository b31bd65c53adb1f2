package repo

import (
	"fmt"
	"os"
	"path/filepath"
)

// Init creates a new repository at path and opens it. It creates the .git/
// skeleton git itself expects: HEAD, objects/, refs/heads/ and refs/tags/.
// Returns an error if a .git/ directory already exists. If the new
// repository cannot be opened, the skeleton is removed again.
func Init(path string, opts ...Option) (_ *Repo, err error) {
	gitDir := filepath.Join(path, GitDirName)

	// Fail if .git/ already exists.
	if _, err := os.Stat(gitDir); err == nil {
		return nil, fmt.Errorf("init: repository already exists at %s", gitDir)
	}

	defer func() {
		if err != nil {
			_ = os.RemoveAll(gitDir)
		}
	}()

	dirs := []string{
		filepath.Join(gitDir, "objects"),
		filepath.Join(gitDir, "refs", "heads"),
		filepath.Join(gitDir, "refs", "tags"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	headPath := filepath.Join(gitDir, "HEAD")
	if err := os.WriteFile(headPath, []byte("ref: refs/heads/main\n"), 0o644); err != nil {
		return nil, fmt.Errorf("init: write HEAD: %w", err)
	}

	return Open(path, opts...)
}
