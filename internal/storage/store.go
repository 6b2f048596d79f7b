// Package storage provides the generic persistence pattern shared by every
// domain: a key-value backend holding one JSON blob per collection, and a typed
// Collection that reads, mutates and rewrites that blob.
package storage

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record id is absent from its collection.
	ErrNotFound = errors.New("record not found")

	// ErrExists is returned by Create when the caller supplied an id that is taken.
	ErrExists = errors.New("record already exists")

	// ErrCorrupt is returned in strict mode when a collection blob cannot be decoded.
	ErrCorrupt = errors.New("collection data is corrupt")
)

// Namespace prefixes every key written by the daycare stores.
const Namespace = "daycare:"

// Key returns the namespaced key for a collection name.
func Key(name string) string {
	return Namespace + name
}

// KV defines the synchronous key-value backend collections are persisted in.
// This abstraction allows swapping backends (SQLite, in-memory) without
// changing the domain stores.
type KV interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists stored keys starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Close releases any resources held by the backend.
	Close() error
}

// DeleteNamespace removes every daycare collection from kv, leaving keys
// outside Namespace alone. It returns the keys removed.
func DeleteNamespace(ctx context.Context, kv KV) ([]string, error) {
	keys, err := kv.Keys(ctx, Namespace)
	if err != nil {
		return nil, err
	}
	for i, key := range keys {
		if err := kv.Delete(ctx, key); err != nil {
			return keys[:i], fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	return keys, nil
}
