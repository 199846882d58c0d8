// Package docdb is a small embedded document database on top of bbolt.
// Each collection is a bucket; each document is a JSON value stored under
// an encoded DocumentID.
package docdb

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bbolt "go.etcd.io/bbolt"
	"go.uber.org/atomic"
)

const (
	fileMode       os.FileMode = 0o600
	dirMode        os.FileMode = 0o755
	defaultTimeout             = 5 * time.Second
)

type options struct {
	timeout  time.Duration
	readOnly bool
	noSync   bool
	naming   NamingFunc
}

type Option func(*options)

// WithTimeout bounds how long Open waits for the file lock.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

func WithReadOnly() Option {
	return func(o *options) {
		o.readOnly = true
	}
}

// WithNoSync skips fsync after each commit. Only useful for tests.
func WithNoSync() Option {
	return func(o *options) {
		o.noSync = true
	}
}

// WithCollectionNaming sets the function used to derive collection names
// for state types registered without an explicit name.
func WithCollectionNaming(naming NamingFunc) Option {
	return func(o *options) {
		o.naming = naming
	}
}

// Database is a handle to an open database file. It is safe for concurrent
// use: bbolt allows one writer and many readers at a time.
type Database struct {
	db     *bbolt.DB
	path   string
	mapper *Mapper
	closed atomic.Bool
}

func Open(path string, opts ...Option) (*Database, error) {
	o := options{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	if !o.readOnly {
		if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
			return nil, fmt.Errorf("docdb: creating directory for %s: %w", path, err)
		}
	}

	db, err := bbolt.Open(path, fileMode, &bbolt.Options{
		Timeout:  o.timeout,
		ReadOnly: o.readOnly,
		NoSync:   o.noSync,
	})
	if err != nil {
		return nil, fmt.Errorf("docdb: opening %s: %w", path, err)
	}

	return &Database{
		db:     db,
		path:   path,
		mapper: newMapper(o.naming),
	}, nil
}

func (d *Database) Path() string {
	return d.path
}

func (d *Database) Mapper() *Mapper {
	return d.mapper
}

// GetCollection returns a handle to the named collection. The collection is
// created on first write; reading a collection that was never written
// behaves as if it were empty.
func (d *Database) GetCollection(name string) *Collection {
	return &Collection{db: d, name: name}
}

func (d *Database) CollectionNames() ([]string, error) {
	if err := d.ensureOpen(); err != nil {
		return nil, err
	}

	names := make([]string, 0)
	err := d.db.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bbolt.Bucket) error {
			names = append(names, string(name))
			return nil
		})
	})
	return names, err
}

// DropCollection removes a collection and all of its documents. It reports
// false when the collection did not exist.
func (d *Database) DropCollection(name string) (bool, error) {
	if err := d.ensureOpen(); err != nil {
		return false, err
	}

	dropped := false
	err := d.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(name)) == nil {
			return nil
		}
		dropped = true
		return tx.DeleteBucket([]byte(name))
	})
	return dropped, err
}

// Close releases the file lock. Calling Close more than once is a no-op.
func (d *Database) Close() error {
	if d.closed.Swap(true) {
		return nil
	}
	return d.db.Close()
}

func (d *Database) ensureOpen() error {
	if d.closed.Load() {
		return ErrDatabaseClosed
	}
	return nil
}
