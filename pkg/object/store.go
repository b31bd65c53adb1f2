package object

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
)

// Store is a content-addressed object database. It hashes and compresses
// framed objects and hands the compressed bytes to a Backend.
type Store struct {
	backend Backend
	level   int
	log     *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for write and read diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithCompressionLevel sets the zlib level used for new objects.
func WithCompressionLevel(level int) Option {
	return func(s *Store) {
		s.level = level
	}
}

// NewStore creates a Store on top of backend.
func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		level:   DefaultCompression,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a Store over the loose objects directory of gitDir. It fails
// with ErrNotARepository when gitDir/objects does not exist.
func Open(gitDir string, opts ...Option) (*Store, error) {
	loose, err := NewLoose(filepath.Join(gitDir, "objects"))
	if err != nil {
		return nil, err
	}
	return NewStore(loose, opts...), nil
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend {
	return s.backend
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) (bool, error) {
	canon, err := ParseHash(string(h))
	if err != nil {
		return false, err
	}
	return s.backend.Has(canon)
}

// Write stores a framed object and returns its content hash. An object that
// is already present is neither recompressed nor rewritten.
func (s *Store) Write(raw []byte) (Hash, error) {
	h := HashBytes(raw)

	// Fast path: already exists.
	ok, err := s.backend.Has(h)
	if err != nil {
		return "", err
	}
	if ok {
		s.log.Debug("object exists", zap.String("hash", string(h)))
		return h, nil
	}

	compressed, err := CompressLevel(raw, s.level)
	if err != nil {
		return "", fmt.Errorf("object write %s: %w", h, err)
	}
	if err := s.backend.Put(h, compressed); err != nil {
		return "", err
	}
	s.log.Debug("object written",
		zap.String("hash", string(h)),
		zap.Int("size", len(raw)),
		zap.Int("compressed", len(compressed)),
	)
	return h, nil
}

// WriteObject frames payload with objType and stores it.
func (s *Store) WriteObject(objType ObjectType, payload []byte) (Hash, error) {
	return s.Write(Frame(objType, payload))
}

// Read retrieves the raw framed bytes of an object. A malformed hash can
// never name a stored object, so it is reported as both ErrInvalidDigest
// and ErrNotFound.
func (s *Store) Read(h Hash) ([]byte, error) {
	canon, err := ParseHash(string(h))
	if err != nil {
		return nil, fmt.Errorf("object read: %w: %w", ErrNotFound, err)
	}
	compressed, err := s.backend.Get(canon)
	if err != nil {
		return nil, err
	}
	raw, err := Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("object read %s: %w", canon, err)
	}
	if got := HashBytes(raw); got != canon {
		return nil, fmt.Errorf("%w: object %s hashes to %s", ErrCorruptObject, canon, got)
	}
	return raw, nil
}

// ReadObject retrieves an object by hash, returning its type and payload.
func (s *Store) ReadObject(h Hash) (ObjectType, []byte, error) {
	raw, err := s.Read(h)
	if err != nil {
		return "", nil, err
	}
	objType, payload, err := ParseFrame(raw)
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}
	return objType, payload, nil
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

func (s *Store) readTyped(h Hash, want ObjectType) ([]byte, error) {
	objType, payload, err := s.ReadObject(h)
	if err != nil {
		return nil, err
	}
	if objType != want {
		return nil, &KindError{Hash: h, Got: objType, Want: want}
	}
	return payload, nil
}

// WriteBlob frames and stores content as a blob.
func (s *Store) WriteBlob(content []byte) (Hash, error) {
	return s.Write(EncodeBlob(content))
}

// ReadBlob reads a blob's content.
func (s *Store) ReadBlob(h Hash) ([]byte, error) {
	return s.readTyped(h, TypeBlob)
}

// WriteTree encodes and stores a tree.
func (s *Store) WriteTree(entries []TreeEntry) (Hash, error) {
	raw, err := EncodeTree(entries)
	if err != nil {
		return "", err
	}
	return s.Write(raw)
}

// ReadTree reads and decodes a tree. Objects of another type fail with an
// error matching ErrNotATree.
func (s *Store) ReadTree(h Hash) ([]TreeEntry, error) {
	payload, err := s.readTyped(h, TypeTree)
	if err != nil {
		return nil, err
	}
	entries, err := DecodeTreeEntries(payload)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	return entries, nil
}

// WriteCommit encodes and stores a commit.
func (s *Store) WriteCommit(c *Commit) (Hash, error) {
	raw, err := EncodeCommit(c)
	if err != nil {
		return "", err
	}
	return s.Write(raw)
}

// ReadCommit reads and decodes a commit.
func (s *Store) ReadCommit(h Hash) (*Commit, error) {
	payload, err := s.readTyped(h, TypeCommit)
	if err != nil {
		return nil, err
	}
	c, err := UnmarshalCommit(payload)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	return c, nil
}
