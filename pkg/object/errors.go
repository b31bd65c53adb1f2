package object

import (
	"errors"
	"fmt"
)

var (
	ErrNotARepository = errors.New("not a git repository (missing .git/objects)")
	ErrNotFound       = errors.New("object not found")
	ErrInvalidDigest  = errors.New("invalid object hash")
	ErrCorruptObject  = errors.New("corrupt object")
	ErrMalformedTree  = errors.New("malformed tree")
	ErrNotATree       = errors.New("object is not a tree")
	ErrWrongKind      = errors.New("object type mismatch")
)

// KindError reports that an object exists but has a different type than the
// caller asked for.
type KindError struct {
	Hash Hash
	Got  ObjectType
	Want ObjectType
}

func (e *KindError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Hash == "" {
		return fmt.Sprintf("%s: got %q, want %q", ErrWrongKind, e.Got, e.Want)
	}
	return fmt.Sprintf("object %s: %s: got %q, want %q", e.Hash, ErrWrongKind, e.Got, e.Want)
}

// Is matches ErrWrongKind, and ErrNotATree when a tree was wanted.
func (e *KindError) Is(target error) bool {
	switch target {
	case ErrWrongKind:
		return true
	case ErrNotATree:
		return e != nil && e.Want == TypeTree
	}
	return false
}
