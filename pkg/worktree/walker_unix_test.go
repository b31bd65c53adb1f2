//go:build unix

package worktree

import (
	"path/filepath"
	"syscall"
	"testing"
)

func TestBuildTreeSkipsSpecialFiles(t *testing.T) {
	s := newTestStore(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "regular"), "x", 0o644)
	if err := syscall.Mkfifo(filepath.Join(root, "fifo"), 0o644); err != nil {
		t.Skipf("mkfifo unsupported: %v", err)
	}

	h, err := NewWalker(s).BuildTree(root)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	entries, err := s.ReadTree(h)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "regular" {
		t.Errorf("entries = %+v, want only regular", entries)
	}
}
