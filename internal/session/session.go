// Package session keeps one cart store and one auth store per client session.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/golang/groupcache/lru"
	"github.com/santiago072004/Tienda/internal/auth"
	"github.com/santiago072004/Tienda/internal/cart"
	"github.com/santiago072004/Tienda/internal/storage"
)

// DefaultMaxSessions bounds the number of sessions kept in memory.
const DefaultMaxSessions = 10000

// Session is the state of one client.
type Session struct {
	ID   string
	Cart *cart.Store
	Auth *auth.Store
}

// Registry creates sessions on first use. Each session persists under its own
// "session:<id>:" key prefix of the shared storage.
//
// At most maxSessions are held in memory; the least recently used one is dropped
// first and restored from storage when its client comes back.
type Registry struct {
	mu          sync.Mutex
	sessions    *lru.Cache
	storage     storage.Storage
	users       auth.UserRepository
	cartMetrics *cart.Metrics
	authConfig  auth.StoreConfig
	logger      *slog.Logger
}

// NewRegistry creates a registry. A maxSessions of zero or less uses DefaultMaxSessions.
func NewRegistry(s storage.Storage, users auth.UserRepository, cartMetrics *cart.Metrics, authConfig auth.StoreConfig, maxSessions int, logger *slog.Logger) *Registry {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	r := &Registry{
		sessions:    lru.New(maxSessions),
		storage:     s,
		users:       users,
		cartMetrics: cartMetrics,
		authConfig:  authConfig,
		logger:      logger,
	}
	r.sessions.OnEvicted = func(key lru.Key, _ any) {
		r.logger.Debug("Session evicted from memory", "session_id", key)
	}
	return r
}

// Get returns the session with the given id, restoring it from storage the first time it is seen.
// A session whose persisted state cannot be read is not kept, so the next call retries the load.
func (r *Registry) Get(ctx context.Context, id string) (*Session, error) {
	r.mu.Lock()
	cached, ok := r.sessions.Get(id)
	r.mu.Unlock()
	if ok {
		return cached.(*Session), nil
	}

	sess, err := r.newSession(ctx, id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// another request may have restored the same session meanwhile
	if existing, ok := r.sessions.Get(id); ok {
		return existing.(*Session), nil
	}
	r.sessions.Add(id, sess)
	return sess, nil
}

// Len returns the number of sessions held in memory.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions.Len()
}

func (r *Registry) newSession(ctx context.Context, id string) (*Session, error) {
	scoped := storage.Namespace(r.storage, "session:"+id+":")
	logger := r.logger.With("session_id", id)

	sess := &Session{
		ID:   id,
		Cart: cart.NewStore(scoped, logger, r.cartMetrics),
		Auth: auth.NewStore(r.users, scoped, logger, r.authConfig),
	}
	if err := sess.Cart.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	if err := sess.Auth.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	return sess, nil
}
