package object

// Backend persists compressed object bytes keyed by digest. Implementations
// never overwrite an existing object: Put on a present digest is a no-op.
// Get reports a missing digest with an error wrapping ErrNotFound.
type Backend interface {
	Has(h Hash) (bool, error)
	Get(h Hash) ([]byte, error)
	Put(h Hash, compressed []byte) error
	Close() error
}
