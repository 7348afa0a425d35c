package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/santiago072004/Tienda/internal/storage"
)

// Store owns a cart State. All changes go through Dispatch; every change is
// persisted to client storage and announced to subscribers.
type Store struct {
	mu      sync.Mutex
	state   State
	storage storage.Storage
	logger  *slog.Logger
	metrics *Metrics
	// set while the persisted cart could not be read; nothing is written until a Load succeeds
	unsynced    bool
	subscribers []subscription
	nextSubID   int
}

type subscription struct {
	id int
	fn func(State)
}

// NewStore creates an empty cart store. metrics may be nil.
func NewStore(s storage.Storage, logger *slog.Logger, metrics *Metrics) *Store {
	return &Store{
		state:   newState(nil),
		storage: s,
		logger:  logger.With("component", "cart"),
		metrics: metrics,
	}
}

// Load restores the persisted cart. Unparseable records are removed and the cart starts empty.
// If storage cannot be read the state is left untouched, the error is returned and the
// store stops persisting until a later Load succeeds, so the stored cart is never overwritten.
func (s *Store) Load(ctx context.Context) error {
	items, err := s.readItems(ctx)
	if err != nil {
		s.mu.Lock()
		s.unsynced = true
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.unsynced = false
	s.state = newState(items)
	state := s.snapshot()
	subs := s.subscriberList()
	s.mu.Unlock()

	notify(subs, state)
	return nil
}

func (s *Store) readItems(ctx context.Context) ([]Item, error) {
	raw, err := s.storage.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read persisted cart: %w", err)
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.WarnContext(ctx, "Discarding unreadable persisted cart", "error", err)
		if err := s.storage.Remove(context.WithoutCancel(ctx), StorageKey); err != nil {
			s.logger.WarnContext(ctx, "Failed to remove persisted cart", "error", err)
		}
		return nil, nil
	}

	// keep the first entry per id and drop non-positive quantities
	seen := make(map[int]bool, len(items))
	return slices.DeleteFunc(items, func(item Item) bool {
		drop := item.Quantity <= 0 || seen[item.ID]
		seen[item.ID] = true
		return drop
	}), nil
}

// Dispatch applies action and returns the resulting state.
func (s *Store) Dispatch(ctx context.Context, action Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	s.persist(ctx)
	state := s.snapshot()
	subs := s.subscriberList()
	s.mu.Unlock()

	s.metrics.recordAction(ctx, action)
	s.logger.DebugContext(ctx, "Cart action dispatched", "action", action.Name(), "item_count", state.ItemCount)
	notify(subs, state)
	return state
}

// persist writes the current items. Failures are logged and leave the in-memory state untouched.
// The write outlives a cancelled caller so storage keeps up with the state that was just applied.
func (s *Store) persist(ctx context.Context) {
	if s.unsynced {
		s.logger.WarnContext(ctx, "Skipping cart persistence until the stored cart is loaded")
		return
	}
	data, err := json.Marshal(s.state.Items)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to encode cart", "error", err)
		return
	}
	if err := s.storage.Set(context.WithoutCancel(ctx), StorageKey, string(data)); err != nil {
		s.logger.WarnContext(ctx, "Failed to persist cart", "error", err)
	}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Subscribe registers fn to be called with the new state after every change.
// Subscribers are notified in registration order. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers = append(s.subscribers, subscription{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.subscribers = slices.DeleteFunc(s.subscribers, func(sub subscription) bool { return sub.id == id })
	}
}

func (s *Store) snapshot() State {
	state := s.state
	state.Items = slices.Clone(s.state.Items)
	return state
}

func (s *Store) subscriberList() []func(State) {
	subs := make([]func(State), 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		subs = append(subs, sub.fn)
	}
	return subs
}

func notify(subs []func(State), state State) {
	for _, fn := range subs {
		fn(State{Items: slices.Clone(state.Items), Total: state.Total, ItemCount: state.ItemCount})
	}
}
