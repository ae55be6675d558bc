/*
 * @Author:    thepoy
 * @File Name: store.go
 */

// Package store implements the persistent, compressed key→blob cache that
// backs the crawl pipeline. Four backends share the same schema and the
// same Store contract: sqlite (default), mysql, postgres, and redis.
package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key is absent or its entry has
// gone stale under the configured freshness window.
var ErrNotFound = errors.New("store: key not found or stale")

// Store is a durable key→blob mapping with a per-entry update timestamp and
// a global freshness window, compressed transparently by every backend.
type Store interface {
	// Contains reports whether key has a fresh entry.
	Contains(key string) bool
	// Get returns the decompressed value for key, or ErrNotFound if the
	// key is absent or its entry is stale.
	Get(key string) ([]byte, time.Time, error)
	// Put inserts or overwrites key with value, compressing it first.
	Put(key string, value []byte) error
	// Del removes key if present.
	Del(key string) error
	// IterKeys returns every key currently in the store.
	IterKeys() ([]string, error)
	// Len returns the number of entries in the store.
	Len() (int, error)
	// Clear removes every entry.
	Clear() error
	// Compact reclaims backing storage space where the backend supports it.
	Compact() error
	// Commit forces any buffered writes to the backing storage without
	// releasing backend resources, the full commit spec.md §4.2/§5 require
	// of the orchestrator at shutdown.
	Commit() error
	// Close flushes any buffered writes and releases backend resources.
	Close() error
}

// Options configures freshness, compression and write-batching uniformly
// across every backend.
type Options struct {
	// Expires is the freshness window; zero means entries never go stale.
	Expires time.Duration
	// CompressionLevel is the zlib level, 1-9; 0 selects the default (6).
	CompressionLevel int
	// MaxOperations is the write-buffering threshold: a full commit is
	// forced every MaxOperations writes and on Close. Default 1000.
	MaxOperations int
}

func (o Options) withDefaults() Options {
	if o.CompressionLevel <= 0 {
		o.CompressionLevel = 6
	}
	if o.MaxOperations <= 0 {
		o.MaxOperations = 1000
	}
	return o
}
