package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/buntdb"
)

// BuntDB is a file-backed Store using BuntDB (https://github.com/tidwall/buntdb).
type BuntDB struct {
	db  *buntdb.DB
	ttl time.Duration
}

// BuntOption configures a BuntDB store.
type BuntOption func(*BuntDB)

// WithTTL expires entries after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) BuntOption {
	return func(b *BuntDB) {
		if ttl > 0 {
			b.ttl = ttl
		}
	}
}

// OpenBuntDB opens (or creates) the store at path. ":memory:" keeps it in RAM.
func OpenBuntDB(path string, opts ...BuntOption) (*BuntDB, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	b := &BuntDB{db: db}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b, nil
}

func (b *BuntDB) Put(values map[string]string) error {
	var opts *buntdb.SetOptions
	if b.ttl > 0 {
		opts = &buntdb.SetOptions{Expires: true, TTL: b.ttl}
	}
	err := b.db.Update(func(tx *buntdb.Tx) error {
		for k, v := range values {
			if _, _, err := tx.Set(k, v, opts); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("storage: put: %w", err)
	}
	return nil
}

func (b *BuntDB) Get(key string) (string, error) {
	var out string
	err := b.db.View(func(tx *buntdb.Tx) error {
		v, err := tx.Get(key)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("storage: get %s: %w", key, err)
	}
	return out, nil
}

func (b *BuntDB) Delete(keys ...string) error {
	err := b.db.Update(func(tx *buntdb.Tx) error {
		for _, k := range keys {
			if _, err := tx.Delete(k); err != nil && !errors.Is(err, buntdb.ErrNotFound) {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("storage: delete: %w", err)
	}
	return nil
}

func (b *BuntDB) Close() error {
	return b.db.Close()
}
