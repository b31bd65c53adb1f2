package repo

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/odvcencio/gitodb/pkg/object"
	"github.com/odvcencio/gitodb/pkg/worktree"
	"go.uber.org/zap"
)

// WriteBlobFile stores the contents of the file at path as a blob.
func (r *Repo) WriteBlobFile(path string) (object.Hash, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("hash-object: %w", err)
	}
	h, err := r.Store.WriteBlob(content)
	if err != nil {
		return "", fmt.Errorf("hash-object: %w", err)
	}
	return h, nil
}

// WriteTree snapshots the repository root into tree objects and returns the
// root tree hash. The .git directory is never recorded.
func (r *Repo) WriteTree() (object.Hash, error) {
	w := worktree.NewWalker(r.Store, worktree.WithLogger(r.log))
	h, err := w.BuildTree(r.RootDir)
	if err != nil {
		return "", fmt.Errorf("write-tree: %w", err)
	}
	return h, nil
}

// CommitTree writes a commit for tree with the given parents and message.
// Author and committer come from the repository config. When signer is
// non-nil the commit carries a gpgsig header.
func (r *Repo) CommitTree(tree object.Hash, parents []object.Hash, message string, signer object.CommitSigner) (object.Hash, error) {
	treeHash, err := object.ParseHash(string(tree))
	if err != nil {
		return "", fmt.Errorf("commit-tree: tree: %w", err)
	}
	parentHashes := make([]object.Hash, 0, len(parents))
	for _, p := range parents {
		ph, err := object.ParseHash(string(p))
		if err != nil {
			return "", fmt.Errorf("commit-tree: parent: %w", err)
		}
		parentHashes = append(parentHashes, ph)
	}

	ident := r.Config.Identity()
	c := &object.Commit{
		Tree:      treeHash,
		Parents:   parentHashes,
		Author:    ident,
		Committer: ident,
		Message:   message,
	}
	if err := object.SignCommit(c, signer); err != nil {
		return "", fmt.Errorf("commit-tree: %w", err)
	}

	h, err := r.Store.WriteCommit(c)
	if err != nil {
		return "", fmt.Errorf("commit-tree: %w", err)
	}
	r.log.Debug("commit written", zap.String("hash", string(h)), zap.String("tree", string(treeHash)), zap.Int("parents", len(parentHashes)))
	return h, nil
}

// LsTree writes the entries of tree h to w. With nameOnly, one name per
// line; otherwise "<mode> <type> <hash>\t<name>" lines.
func (r *Repo) LsTree(h object.Hash, w io.Writer, nameOnly bool) error {
	raw, err := r.Store.Read(h)
	if err != nil {
		return fmt.Errorf("ls-tree: %w", err)
	}
	entries, err := object.DecodeTree(raw)
	if err != nil {
		return fmt.Errorf("ls-tree %s: %w", h, err)
	}

	bw := bufio.NewWriter(w)
	if nameOnly {
		for _, e := range entries {
			fmt.Fprintf(bw, "%s\n", e.Name)
		}
	} else {
		writeTreeEntries(bw, entries)
	}
	return bw.Flush()
}

// CatMode selects what CatFile prints.
type CatMode int

const (
	CatPretty CatMode = iota // payload, trees formatted like ls-tree
	CatType                  // object type
	CatSize                  // payload size in bytes
)

// CatFile writes information about object h to w.
func (r *Repo) CatFile(h object.Hash, w io.Writer, mode CatMode) error {
	objType, payload, err := r.Store.ReadObject(h)
	if err != nil {
		return fmt.Errorf("cat-file: %w", err)
	}

	switch mode {
	case CatType:
		_, err = fmt.Fprintln(w, objType)
		return err
	case CatSize:
		_, err = fmt.Fprintln(w, len(payload))
		return err
	case CatPretty:
		if objType != object.TypeTree {
			_, err = w.Write(payload)
			return err
		}
		entries, err := object.DecodeTreeEntries(payload)
		if err != nil {
			return fmt.Errorf("cat-file %s: %w", h, err)
		}
		bw := bufio.NewWriter(w)
		writeTreeEntries(bw, entries)
		return bw.Flush()
	default:
		return fmt.Errorf("cat-file: unknown mode %d", mode)
	}
}

// Exists reports whether object h is stored.
func (r *Repo) Exists(h object.Hash) (bool, error) {
	return r.Store.Has(h)
}

func writeTreeEntries(w io.Writer, entries []object.TreeEntry) {
	for _, e := range entries {
		fmt.Fprintf(w, "%s %s %s\t%s\n", e.Mode.Padded(), e.Mode.ObjectType(), e.Hash, e.Name)
	}
}
