// Package cache is a TTL cache for provider responses backed by Badger.
package cache

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/HO1806/reeltrack/internal/metrics"
)

// Cache stores JSON-encoded values under string keys with an expiry.
type Cache struct {
	db     *badger.DB
	logger *slog.Logger
	ttl    time.Duration
}

// Open opens (or creates) a cache at path. An empty path keeps the cache in memory.
func Open(path string, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable Badger's internal logging
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger cache: %w", err)
	}

	if logger != nil {
		logger.Info("Provider cache opened", "path", path, "ttl", ttl)
	}

	return &Cache{db: db, logger: logger, ttl: ttl}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get decodes the value stored under key into dest.
// It reports false when the key is missing or expired.
func (c *Cache) Get(key string, dest any) (bool, error) {
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		metrics.RecordCacheLookup(false)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	metrics.RecordCacheLookup(true)
	return true, nil
}

// Set stores value under key with the cache's default TTL.
func (c *Cache) Set(key string, value any) error {
	return c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key. A non-positive ttl never expires.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), data)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

// Delete removes a key.
func (c *Cache) Delete(key string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Fetch returns the cached value for key, or calls fetch and caches its
// result. Cache errors are logged and fall through to fetch.
func Fetch[T any](c *Cache, key string, fetch func() (T, error)) (T, error) {
	if c == nil {
		return fetch()
	}

	var cached T
	found, err := c.Get(key, &cached)
	if err != nil && c.logger != nil {
		c.logger.Warn("cache read failed", "key", key, "error", err)
	}
	if found {
		return cached, nil
	}

	v, err := fetch()
	if err != nil {
		return v, err
	}
	if err := c.Set(key, v); err != nil && c.logger != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
	return v, nil
}
