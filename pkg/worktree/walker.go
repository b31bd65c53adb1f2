// Package worktree snapshots a directory on disk into tree and blob objects.
package worktree

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/gitodb/pkg/object"
	"go.uber.org/zap"
)

// DefaultSkip lists entry names never recorded in a tree.
var DefaultSkip = []string{".git"}

// ObjectWriter is the subset of *object.Store the walker needs.
type ObjectWriter interface {
	WriteObject(objType object.ObjectType, payload []byte) (object.Hash, error)
}

// Walker builds tree objects from a directory.
type Walker struct {
	store ObjectWriter
	log   *zap.Logger
	skip  map[string]struct{}
}

// Option configures a Walker.
type Option func(*Walker)

// WithLogger sets the walker's logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Walker) {
		if l != nil {
			w.log = l
		}
	}
}

// WithSkip replaces the set of entry names to ignore at every level.
func WithSkip(names ...string) Option {
	return func(w *Walker) {
		w.skip = make(map[string]struct{}, len(names))
		for _, n := range names {
			w.skip[n] = struct{}{}
		}
	}
}

// NewWalker returns a Walker that writes objects to store.
func NewWalker(store ObjectWriter, opts ...Option) *Walker {
	w := &Walker{store: store, log: zap.NewNop()}
	WithSkip(DefaultSkip...)(w)
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// dirFrame is one directory whose children are still being processed.
type dirFrame struct {
	path    string
	name    string
	pending []os.DirEntry
	entries []object.TreeEntry
}

// BuildTree writes a blob for every file and symlink and a tree for every
// directory below root, and returns the hash of root's tree.
//
// Directories are processed depth-first from an explicit stack; a tree is
// written once all of its children have been written.
func (w *Walker) BuildTree(root string) (object.Hash, error) {
	top, err := w.openDir(root, "")
	if err != nil {
		return "", err
	}
	stack := []*dirFrame{top}

	for {
		cur := stack[len(stack)-1]
		if len(cur.pending) == 0 {
			h, err := w.writeTree(cur)
			if err != nil {
				return "", err
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return h, nil
			}
			parent := stack[len(stack)-1]
			parent.entries = append(parent.entries, object.TreeEntry{
				Mode: object.ModeDir,
				Name: cur.name,
				Hash: h,
			})
			continue
		}

		de := cur.pending[0]
		cur.pending = cur.pending[1:]
		name := de.Name()
		if _, skip := w.skip[name]; skip {
			continue
		}
		p := filepath.Join(cur.path, name)

		info, err := os.Lstat(p)
		if err != nil {
			return "", fmt.Errorf("build tree: stat %s: %w", p, err)
		}
		mode, ok := modeFromFileInfo(info)
		if !ok {
			w.log.Debug("skipping special file", zap.String("path", p), zap.Stringer("mode", info.Mode()))
			continue
		}

		switch mode {
		case object.ModeDir:
			child, err := w.openDir(p, name)
			if err != nil {
				return "", err
			}
			stack = append(stack, child)
		case object.ModeSymlink:
			target, err := os.Readlink(p)
			if err != nil {
				return "", fmt.Errorf("build tree: readlink %s: %w", p, err)
			}
			if err := w.addBlob(cur, mode, name, []byte(target)); err != nil {
				return "", err
			}
		default:
			content, err := os.ReadFile(p)
			if err != nil {
				return "", fmt.Errorf("build tree: read %s: %w", p, err)
			}
			if err := w.addBlob(cur, mode, name, content); err != nil {
				return "", err
			}
		}
	}
}

func (w *Walker) openDir(path, name string) (*dirFrame, error) {
	des, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("build tree: read dir %s: %w", path, err)
	}
	return &dirFrame{path: path, name: name, pending: des}, nil
}

func (w *Walker) addBlob(f *dirFrame, mode object.FileMode, name string, content []byte) error {
	h, err := w.store.WriteObject(object.TypeBlob, content)
	if err != nil {
		return fmt.Errorf("build tree: write blob %s: %w", filepath.Join(f.path, name), err)
	}
	f.entries = append(f.entries, object.TreeEntry{Mode: mode, Name: name, Hash: h})
	return nil
}

func (w *Walker) writeTree(f *dirFrame) (object.Hash, error) {
	object.SortTreeEntries(f.entries)
	payload, err := object.EncodeTreeEntries(f.entries)
	if err != nil {
		return "", fmt.Errorf("build tree %s: %w", f.path, err)
	}
	h, err := w.store.WriteObject(object.TypeTree, payload)
	if err != nil {
		return "", fmt.Errorf("write tree %s: %w", f.path, err)
	}
	w.log.Debug("tree written", zap.String("path", f.path), zap.String("hash", string(h)), zap.Int("entries", len(f.entries)))
	return h, nil
}
