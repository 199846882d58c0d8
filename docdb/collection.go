package docdb

import (
	"fmt"

	bbolt "go.etcd.io/bbolt"
)

type Collection struct {
	db   *Database
	name string
}

func (c *Collection) Name() string {
	return c.name
}

// FindByID returns the document stored under id. The boolean is false when
// no such document exists.
func (c *Collection) FindByID(id DocumentID) (Document, bool, error) {
	if err := c.check(id); err != nil {
		return nil, false, err
	}

	var doc Document
	err := c.db.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(c.name))
		if bucket == nil {
			return nil
		}
		// bbolt memory is only valid for the life of the transaction.
		if raw := bucket.Get(id.Bytes()); raw != nil {
			doc = append(Document(nil), raw...)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return doc, doc != nil, nil
}

// Upsert inserts doc under id or replaces the existing document. It reports
// true when the document was inserted.
func (c *Collection) Upsert(id DocumentID, doc Document) (bool, error) {
	if err := c.check(id); err != nil {
		return false, err
	}
	if !doc.Valid() {
		return false, ErrInvalidDocument
	}

	inserted := false
	err := c.db.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(c.name))
		if err != nil {
			return fmt.Errorf("docdb: creating collection %q: %w", c.name, err)
		}
		key := id.Bytes()
		inserted = bucket.Get(key) == nil
		return bucket.Put(key, doc)
	})
	if err != nil {
		return false, err
	}
	return inserted, nil
}

// Delete removes the document stored under id. Deleting a missing document
// is not an error; the boolean reports whether anything was removed.
func (c *Collection) Delete(id DocumentID) (bool, error) {
	if err := c.check(id); err != nil {
		return false, err
	}

	deleted := false
	err := c.db.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(c.name))
		if bucket == nil {
			return nil
		}
		key := id.Bytes()
		if bucket.Get(key) == nil {
			return nil
		}
		deleted = true
		return bucket.Delete(key)
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (c *Collection) Count() (int, error) {
	if err := c.db.ensureOpen(); err != nil {
		return 0, err
	}

	count := 0
	err := c.db.db.View(func(tx *bbolt.Tx) error {
		if bucket := tx.Bucket([]byte(c.name)); bucket != nil {
			count = bucket.Stats().KeyN
		}
		return nil
	})
	return count, err
}

// ForEach calls fn for every document in key order. Returning an error from
// fn stops the iteration.
func (c *Collection) ForEach(fn func(DocumentID, Document) error) error {
	if err := c.db.ensureOpen(); err != nil {
		return err
	}

	return c.db.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(c.name))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, v []byte) error {
			id, err := ParseDocumentID(k)
			if err != nil {
				return err
			}
			return fn(id, append(Document(nil), v...))
		})
	})
}

func (c *Collection) check(id DocumentID) error {
	if err := c.db.ensureOpen(); err != nil {
		return err
	}
	if !id.IsValid() {
		return ErrInvalidDocumentID
	}
	if c.name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidCollectionName)
	}
	return nil
}
