// Package store provides Badger DB-backed storage for snapshot history.
package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

// Key prefixes for different data types
const (
	prefixSnapshot = "s:" // Snapshot entries, ordered by timestamp
	prefixMeta     = "m:" // Metadata (schema version, etc.)
)

// ErrEmpty is returned by Latest when no snapshots have been stored.
var ErrEmpty = errors.New("history store is empty")

// Store is the snapshot history backed by Badger DB.
type Store struct {
	db *badger.DB
}

// Open opens or creates a store at the given path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// snapshotKey builds a key that sorts chronologically under the
// snapshot prefix.
func snapshotKey(ts time.Time) []byte {
	key := make([]byte, len(prefixSnapshot)+8)
	copy(key, prefixSnapshot)
	binary.BigEndian.PutUint64(key[len(prefixSnapshot):], uint64(ts.UnixNano()))
	return key
}

// Put stores a snapshot keyed by its timestamp.
func (s *Store) Put(snap *types.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(snapshotKey(snap.Timestamp), data)
	})
}

// Latest returns the most recent snapshot.
func (s *Store) Latest() (*types.Snapshot, error) {
	var snap types.Snapshot
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Seek to the end of the snapshot range and step back.
		seek := append([]byte(prefixSnapshot), 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff)
		it.Seek(seek)
		if !it.ValidForPrefix([]byte(prefixSnapshot)) {
			return nil
		}

		found = true
		return it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrEmpty
	}
	return &snap, nil
}

// Range returns snapshots taken at or after since, oldest first.
// A zero since returns everything; limit 0 means no limit.
func (s *Store) Range(since time.Time, limit int) ([]*types.Snapshot, error) {
	var results []*types.Snapshot

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := []byte(prefixSnapshot)
		if !since.IsZero() {
			seek = snapshotKey(since)
		}

		for it.Seek(seek); it.ValidForPrefix([]byte(prefixSnapshot)); it.Next() {
			if limit > 0 && len(results) >= limit {
				break
			}

			var snap types.Snapshot
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &snap)
			})
			if err != nil {
				return err
			}
			results = append(results, &snap)
		}
		return nil
	})

	return results, err
}

// Prune removes snapshots older than the cutoff time. It returns the
// number of entries removed.
func (s *Store) Prune(cutoff time.Time) (int, error) {
	var keysToDelete [][]byte

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		end := snapshotKey(cutoff)
		for it.Seek([]byte(prefixSnapshot)); it.ValidForPrefix([]byte(prefixSnapshot)); it.Next() {
			key := it.Item().KeyCopy(nil)
			if string(key) >= string(end) {
				break
			}
			keysToDelete = append(keysToDelete, key)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if len(keysToDelete) == 0 {
		return 0, nil
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range keysToDelete {
		if err := wb.Delete(key); err != nil {
			return 0, err
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, err
	}

	return len(keysToDelete), nil
}

// Count returns the number of stored snapshots.
func (s *Store) Count() (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefixSnapshot)); it.ValidForPrefix([]byte(prefixSnapshot)); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
