package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// BadgerDB revision history
type BadgerHistory struct {
	db  *badger.DB
	ttl time.Duration
}

func NewBadgerHistory(path string, ttl time.Duration) (*BadgerHistory, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil) // Disable badger logging
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	return &BadgerHistory{
		db:  db,
		ttl: ttl,
	}, nil
}

func revisionPrefix(name string) []byte {
	return []byte("rev:" + name + ":")
}

func revisionKey(name, id string) []byte {
	return append(revisionPrefix(name), id...)
}

func (h *BadgerHistory) Record(ctx context.Context, rev *Revision) error {
	data, err := json.Marshal(rev)
	if err != nil {
		return fmt.Errorf("failed to marshal revision: %w", err)
	}

	return h.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(revisionKey(rev.Name, rev.ID), data)
		if h.ttl > 0 {
			entry = entry.WithTTL(h.ttl)
		}
		return txn.SetEntry(entry)
	})
}

func (h *BadgerHistory) List(ctx context.Context, name string, limit int) ([]Revision, error) {
	revisions := []Revision{}

	err := h.db.View(func(txn *badger.Txn) error {
		prefix := revisionPrefix(name)
		opts := badger.DefaultIteratorOptions
		opts.PrefetchSize = 10
		opts.Prefix = prefix
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration starts from the last key under the prefix
		seek := append(append([]byte(nil), prefix...), 0xff)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rev Revision
				if err := json.Unmarshal(val, &rev); err != nil {
					return err
				}
				rev.Content = nil
				revisions = append(revisions, rev)
				return nil
			})
			if err != nil {
				return err
			}

			if limit > 0 && len(revisions) >= limit {
				break
			}
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	return revisions, nil
}

func (h *BadgerHistory) Get(ctx context.Context, name, id string) (*Revision, error) {
	var rev Revision

	err := h.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(revisionKey(name, id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rev)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrRevisionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get revision: %w", err)
	}
	return &rev, nil
}

// RunGC reclaims value log space; badger drops expired entries itself.
func (h *BadgerHistory) RunGC() error {
	err := h.db.RunValueLogGC(0.5)
	if errors.Is(err, badger.ErrNoRewrite) {
		return nil
	}
	return err
}

func (h *BadgerHistory) Close() error {
	return h.db.Close()
}
