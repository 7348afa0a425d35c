// Package storage provides the client storage capability: a small string key/value store
// that holds the persisted cart and user records of each session.
package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Storage is a fallible key/value store.
type Storage interface {
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes the key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

type namespaced struct {
	next   Storage
	prefix string
}

// Namespace prefixes every key with prefix before delegating to next.
func Namespace(next Storage, prefix string) Storage {
	return &namespaced{next: next, prefix: prefix}
}

func (n *namespaced) Get(ctx context.Context, key string) (string, error) {
	return n.next.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	return n.next.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Remove(ctx context.Context, key string) error {
	return n.next.Remove(ctx, n.prefix+key)
}
