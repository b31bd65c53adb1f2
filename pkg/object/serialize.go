package object

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

// EncodeBlob frames content as "blob <len>\0<content>".
func EncodeBlob(content []byte) []byte {
	return Frame(TypeBlob, content)
}

// DecodeBlob returns the content of a framed blob object.
func DecodeBlob(raw []byte) ([]byte, error) {
	objType, payload, err := ParseFrame(raw)
	if err != nil {
		return nil, fmt.Errorf("decode blob: %w", err)
	}
	if objType != TypeBlob {
		return nil, &KindError{Got: objType, Want: TypeBlob}
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, nil
}

// ---------------------------------------------------------------------------
// Tree
// ---------------------------------------------------------------------------

// SortTreeEntries orders entries by name in raw byte order.
func SortTreeEntries(entries []TreeEntry) {
	slices.SortFunc(entries, func(a, b TreeEntry) int {
		return strings.Compare(a.Name, b.Name)
	})
}

// EncodeTree frames the encoded entries as "tree <len>\0<entries>".
func EncodeTree(entries []TreeEntry) ([]byte, error) {
	payload, err := EncodeTreeEntries(entries)
	if err != nil {
		return nil, err
	}
	return Frame(TypeTree, payload), nil
}

// EncodeTreeEntries serializes entries as concatenated records:
//
//	<mode> <name>\0<20-byte digest>
//
// Entries are sorted by name on a copy, so the output is deterministic
// regardless of input order.
func EncodeTreeEntries(entries []TreeEntry) ([]byte, error) {
	sorted := slices.Clone(entries)
	SortTreeEntries(sorted)

	var buf bytes.Buffer
	for i, e := range sorted {
		if err := validateTreeEntry(e); err != nil {
			return nil, fmt.Errorf("encode tree: %w", err)
		}
		if i > 0 && sorted[i-1].Name == e.Name {
			return nil, fmt.Errorf("encode tree: %w: duplicate entry %q", ErrMalformedTree, e.Name)
		}
		raw, err := e.Hash.Raw()
		if err != nil {
			return nil, fmt.Errorf("encode tree entry %q: %w", e.Name, err)
		}
		buf.WriteString(string(e.Mode))
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(raw[:])
	}
	return buf.Bytes(), nil
}

func validateTreeEntry(e TreeEntry) error {
	if e.Name == "" {
		return fmt.Errorf("%w: empty entry name", ErrMalformedTree)
	}
	if strings.IndexByte(e.Name, 0) >= 0 {
		return fmt.Errorf("%w: entry name %q contains NUL", ErrMalformedTree, e.Name)
	}
	if e.Mode == "" {
		return fmt.Errorf("%w: entry %q has no mode", ErrMalformedTree, e.Name)
	}
	for _, c := range []byte(e.Mode) {
		if c < '0' || c > '7' {
			return fmt.Errorf("%w: entry %q has bad mode %q", ErrMalformedTree, e.Name, e.Mode)
		}
	}
	return nil
}

// DecodeTree parses a framed tree object. The frame must declare kind
// "tree", otherwise ErrNotATree is returned.
func DecodeTree(raw []byte) ([]TreeEntry, error) {
	objType, payload, err := ParseFrame(raw)
	if err != nil {
		return nil, fmt.Errorf("decode tree: %w: %w", ErrNotATree, err)
	}
	if objType != TypeTree {
		return nil, &KindError{Got: objType, Want: TypeTree}
	}
	return DecodeTreeEntries(payload)
}

// DecodeTreeEntries parses a tree payload back into entries, in stored
// order.
func DecodeTreeEntries(payload []byte) ([]TreeEntry, error) {
	var entries []TreeEntry
	for i := 0; i < len(payload); {
		sp := bytes.IndexByte(payload[i:], ' ')
		if sp < 0 {
			return nil, fmt.Errorf("%w: entry at offset %d: missing space", ErrMalformedTree, i)
		}
		if sp == 0 {
			return nil, fmt.Errorf("%w: entry at offset %d: empty mode", ErrMalformedTree, i)
		}
		mode := FileMode(payload[i : i+sp])
		i += sp + 1

		nul := bytes.IndexByte(payload[i:], 0)
		if nul < 0 {
			return nil, fmt.Errorf("%w: entry at offset %d: missing NUL", ErrMalformedTree, i)
		}
		name := string(payload[i : i+nul])
		i += nul + 1

		if len(payload)-i < HashSize {
			return nil, fmt.Errorf("%w: entry %q: truncated digest (%d bytes)", ErrMalformedTree, name, len(payload)-i)
		}
		h, err := HashFromRaw(payload[i : i+HashSize])
		if err != nil {
			return nil, fmt.Errorf("%w: entry %q: %v", ErrMalformedTree, name, err)
		}
		i += HashSize

		entries = append(entries, TreeEntry{Mode: mode, Name: name, Hash: h})
	}
	return entries, nil
}

// ---------------------------------------------------------------------------
// Commit
// ---------------------------------------------------------------------------

// EncodeCommit frames the commit payload as "commit <len>\0<content>".
func EncodeCommit(c *Commit) ([]byte, error) {
	payload, err := MarshalCommit(c)
	if err != nil {
		return nil, err
	}
	return Frame(TypeCommit, payload), nil
}

// MarshalCommit serializes a Commit payload:
//
//	tree H
//	parent H     (zero or more)
//	author A
//	committer C
//	gpgsig S     (optional, continuation lines start with a space)
//
//	message
func MarshalCommit(c *Commit) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("encode commit: nil commit")
	}
	tree, err := ParseHash(string(c.Tree))
	if err != nil {
		return nil, fmt.Errorf("encode commit: tree: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", tree)
	for _, p := range c.Parents {
		parent, err := ParseHash(string(p))
		if err != nil {
			return nil, fmt.Errorf("encode commit: parent: %w", err)
		}
		fmt.Fprintf(&buf, "parent %s\n", parent)
	}
	fmt.Fprintf(&buf, "author %s\n", c.Author)
	fmt.Fprintf(&buf, "committer %s\n", c.Committer)
	if sig := strings.TrimRight(c.GPGSig, "\n"); sig != "" {
		buf.WriteString("gpgsig")
		for _, line := range strings.Split(sig, "\n") {
			buf.WriteByte(' ')
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// UnmarshalCommit parses a commit payload. Unknown headers are skipped.
func UnmarshalCommit(data []byte) (*Commit, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return nil, fmt.Errorf("%w: commit: missing header/message separator", ErrCorruptObject)
	}
	header := string(data[:idx])
	c := &Commit{Message: strings.TrimSuffix(string(data[idx+2:]), "\n")}

	var sigLines []string
	lastKey := ""
	for _, line := range strings.Split(header, "\n") {
		if strings.HasPrefix(line, " ") {
			if lastKey == "gpgsig" {
				sigLines = append(sigLines, line[1:])
			}
			continue
		}
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("%w: commit: malformed header line %q", ErrCorruptObject, line)
		}
		lastKey = key
		switch key {
		case "tree":
			h, err := ParseHash(val)
			if err != nil {
				return nil, fmt.Errorf("%w: commit tree: %w", ErrCorruptObject, err)
			}
			c.Tree = h
		case "parent":
			h, err := ParseHash(val)
			if err != nil {
				return nil, fmt.Errorf("%w: commit parent: %w", ErrCorruptObject, err)
			}
			c.Parents = append(c.Parents, h)
		case "author", "committer":
			sig, err := parseSignature(val)
			if err != nil {
				return nil, fmt.Errorf("%w: commit %s: %v", ErrCorruptObject, key, err)
			}
			if key == "author" {
				c.Author = sig
			} else {
				c.Committer = sig
			}
		case "gpgsig":
			sigLines = append(sigLines, val)
		}
	}
	if len(sigLines) > 0 {
		c.GPGSig = strings.Join(sigLines, "\n") + "\n"
	}
	return c, nil
}

// DecodeCommit parses a framed commit object.
func DecodeCommit(raw []byte) (*Commit, error) {
	objType, payload, err := ParseFrame(raw)
	if err != nil {
		return nil, fmt.Errorf("decode commit: %w", err)
	}
	if objType != TypeCommit {
		return nil, &KindError{Got: objType, Want: TypeCommit}
	}
	return UnmarshalCommit(payload)
}

// parseSignature parses "Name <email> 1234567890 +0000".
func parseSignature(s string) (Signature, error) {
	open := strings.LastIndexByte(s, '<')
	closeIdx := strings.LastIndexByte(s, '>')
	if open < 0 || closeIdx < open {
		return Signature{}, fmt.Errorf("bad identity %q", s)
	}
	sig := Signature{
		Name:  strings.TrimSpace(s[:open]),
		Email: s[open+1 : closeIdx],
	}
	fields := strings.Fields(s[closeIdx+1:])
	if len(fields) != 2 {
		return Signature{}, fmt.Errorf("bad timestamp in %q", s)
	}
	when, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Signature{}, fmt.Errorf("bad timestamp %q: %w", fields[0], err)
	}
	sig.When = when
	sig.Zone = fields[1]
	return sig, nil
}
