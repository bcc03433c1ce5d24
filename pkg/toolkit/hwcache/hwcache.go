// Package hwcache persists static hardware probe results between runs.
// Probing SMBIOS, block devices, and GPU tooling is slow relative to a
// CLI invocation, and the answers rarely change; entries are considered
// fresh for a TTL and re-probed after that.
package hwcache

import (
	"bytes"
	"encoding/gob"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

// Version is incremented when the cache format changes. Entries written
// by another version are treated as missing.
const Version = 1

// infoKey stores the complete static inventory.
var infoKey = []byte("sysinfo")

// ErrNotFound is returned when a cache entry doesn't exist.
var ErrNotFound = errors.New("cache entry not found")

// ErrStale is returned when a cache entry is older than the TTL.
var ErrStale = errors.New("cache entry is stale")

// entry is the gob-encoded cache record.
type entry struct {
	Version     int
	CollectedAt time.Time
	Info        types.SystemInfo
}

func (e *entry) encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *entry) decode(data []byte) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(e)
}

// Cache wraps Badger for hardware-info persistence.
type Cache struct {
	db  *badger.DB
	ttl time.Duration
}

// Open opens or creates a cache at the given path. Entries older than
// ttl are reported as ErrStale; a non-positive ttl never expires.
func Open(path string, ttl time.Duration) (*Cache, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable badger logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Cache{db: db, ttl: ttl}, nil
}

// Close closes the cache.
func (c *Cache) Close() error {
	return c.db.Close()
}

// GetInfo returns the cached static inventory and when it was collected.
// Returns ErrNotFound when absent and ErrStale when past the TTL; the
// stale value is still returned so callers can fall back to it if
// re-probing fails.
func (c *Cache) GetInfo() (*types.SystemInfo, time.Time, error) {
	var e entry

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(infoKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(e.decode)
	})
	if err != nil {
		return nil, time.Time{}, err
	}

	if e.Version != Version {
		return nil, time.Time{}, ErrNotFound
	}

	if c.ttl > 0 && time.Since(e.CollectedAt) > c.ttl {
		return &e.Info, e.CollectedAt, ErrStale
	}

	return &e.Info, e.CollectedAt, nil
}

// PutInfo stores the static inventory with the current timestamp.
func (c *Cache) PutInfo(info *types.SystemInfo) error {
	e := entry{
		Version:     Version,
		CollectedAt: time.Now(),
		Info:        *info,
	}

	value, err := e.encode()
	if err != nil {
		return err
	}

	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(infoKey, value)
	})
}

// Clear removes all cached entries.
func (c *Cache) Clear() error {
	return c.db.DropAll()
}

// Stats describes the cache contents for display.
type Stats struct {
	Entries     int
	CollectedAt time.Time
	SizeBytes   int64
}

// Stats returns entry count, collection time, and on-disk size.
func (c *Cache) Stats() (Stats, error) {
	var stats Stats

	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			stats.Entries++
		}
		return nil
	})
	if err != nil {
		return Stats{}, err
	}

	if _, at, err := c.GetInfo(); err == nil || errors.Is(err, ErrStale) {
		stats.CollectedAt = at
	}

	lsm, vlog := c.db.Size()
	stats.SizeBytes = lsm + vlog

	return stats, nil
}
