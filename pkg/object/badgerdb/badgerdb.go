// Package badgerdb stores compressed objects in a Badger key-value database
// instead of loose files. Keys are the hex digests, values the same zlib
// bytes a loose object file would hold.
package badgerdb

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/odvcencio/gitodb/pkg/object"
)

// Backend is an object.Backend over a Badger database.
type Backend struct {
	db *badger.DB
}

var _ object.Backend = (*Backend)(nil)

// Open opens (or creates) a Badger database in dir.
func Open(dir string) (*Backend, error) {
	return open(badger.DefaultOptions(dir).WithLogger(nil))
}

// OpenInMemory opens a Badger database that lives only in memory.
func OpenInMemory() (*Backend, error) {
	return open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
}

func open(opts badger.Options) (*Backend, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Backend{db: db}, nil
}

// Has reports whether h is stored.
func (b *Backend) Has(h object.Hash) (bool, error) {
	err := b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(h))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("badger has %s: %w", h, err)
	}
	return true, nil
}

// Get returns the compressed bytes stored under h.
func (b *Backend) Get(h object.Hash) ([]byte, error) {
	var compressed []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(h))
		if err != nil {
			return err
		}
		compressed, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("object read %s: %w", h, object.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("badger get %s: %w", h, err)
	}
	return compressed, nil
}

// Put stores compressed under h unless the key already exists. The check
// and the set run in one transaction.
func (b *Backend) Put(h object.Hash, compressed []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(h))
		if err == nil {
			return nil // already exists, nothing to do
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set([]byte(h), compressed)
	})
	if err != nil {
		return fmt.Errorf("badger put %s: %w", h, err)
	}
	return nil
}

// Close closes the database.
func (b *Backend) Close() error {
	return b.db.Close()
}
