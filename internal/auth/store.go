package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/santiago072004/Tienda/internal/storage"
	"github.com/santiago072004/Tienda/pkg/messaging"
	"github.com/santiago072004/Tienda/pkg/messaging/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultLatency is the simulated round trip of login and register.
const DefaultLatency = time.Second

// StoreConfig holds the optional collaborators of a Store.
type StoreConfig struct {
	// Latency is waited before every login and register. Zero disables it.
	Latency   time.Duration
	Publisher messaging.Publisher
	Metrics   *Metrics
}

// Store owns an auth State. Login and Register always run to completion:
// cancelling the caller's context does not abort them.
// The store flags IsLoading but does not serialise overlapping calls.
type Store struct {
	mu          sync.Mutex
	state       State
	users       UserRepository
	storage     storage.Storage
	cfg         StoreConfig
	logger      *slog.Logger
	tracer      trace.Tracer
	subscribers []subscription
	nextSubID   int
}

type subscription struct {
	id int
	fn func(State)
}

func NewStore(users UserRepository, s storage.Storage, logger *slog.Logger, cfg StoreConfig) *Store {
	return &Store{
		state:       InitialState(),
		users:       users,
		storage:     s,
		cfg:         cfg,
		logger:      logger.With("component", "auth"),
		tracer:      otel.Tracer("github.com/santiago072004/Tienda/internal/auth"),
	}
}

// Load restores the persisted user. Absent or unparseable records leave the session anonymous;
// unparseable ones are removed from storage. A storage read error is returned and leaves the state untouched.
func (s *Store) Load(ctx context.Context) error {
	user, err := s.readUser(ctx)
	if err != nil {
		return err
	}
	s.dispatch(LoadUser{User: user})
	return nil
}

func (s *Store) readUser(ctx context.Context) (*User, error) {
	raw, err := s.storage.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read persisted user: %w", err)
	}

	var user *User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || (user != nil && (user.ID == "" || user.Email == "")) {
		s.logger.WarnContext(ctx, "Discarding unreadable persisted user", "error", err)
		s.forget(ctx)
		return nil, nil
	}
	return user, nil
}

// Login signs the session in when email and password match a known user.
// It returns ErrInvalidCredentials on a mismatch and a wrapped repository error otherwise.
// Any failure removes the persisted user.
func (s *Store) Login(ctx context.Context, email, password string) error {
	ctx = context.WithoutCancel(ctx)
	ctx, span := s.tracer.Start(ctx, "auth.Login")
	defer span.End()

	s.dispatch(LoginStart{})
	s.simulateLatency()

	user, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		result := resultFailure
		if !errors.Is(err, ErrInvalidCredentials) {
			result = resultError
			span.RecordError(err)
			span.SetStatus(codes.Error, "authentication failed")
			s.logger.ErrorContext(ctx, "Failed to authenticate user", "error", err)
		}
		s.cfg.Metrics.recordAttempt(ctx, "login", result)
		s.forget(ctx)
		s.dispatch(LoginError{})
		if result == resultFailure {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("failed to authenticate user: %w", err)
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	s.remember(ctx, *user)
	s.dispatch(LoginSuccess{User: *user})
	s.cfg.Metrics.recordAttempt(ctx, "login", resultSuccess)
	s.logger.InfoContext(ctx, "User logged in", "user_id", user.ID)
	return nil
}

// Register creates a user and signs it in. It returns ErrUserAlreadyExists if the email is
// already registered and a wrapped repository error otherwise. Any failure removes the persisted user.
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	ctx = context.WithoutCancel(ctx)
	ctx, span := s.tracer.Start(ctx, "auth.Register")
	defer span.End()

	s.dispatch(RegisterStart{})
	s.simulateLatency()

	user, err := s.users.Create(ctx, name, email, password)
	if err != nil {
		result := resultFailure
		if !errors.Is(err, ErrUserAlreadyExists) {
			result = resultError
			span.RecordError(err)
			span.SetStatus(codes.Error, "registration failed")
			s.logger.ErrorContext(ctx, "Failed to register user", "error", err)
		}
		s.cfg.Metrics.recordAttempt(ctx, "register", result)
		s.forget(ctx)
		s.dispatch(RegisterError{})
		if result == resultFailure {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to register user: %w", err)
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	s.remember(ctx, *user)
	s.dispatch(RegisterSuccess{User: *user})
	s.cfg.Metrics.recordAttempt(ctx, "register", resultSuccess)
	s.logger.InfoContext(ctx, "User registered", "user_id", user.ID)

	if s.cfg.Publisher != nil {
		event := events.UserRegisteredEvent{
			UserID:       user.ID,
			Name:         user.Name,
			Email:        user.Email,
			RegisteredAt: time.Now().UTC(),
		}
		if err := s.cfg.Publisher.Publish(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish user registered event", "error", err)
		}
	}
	return nil
}

// Logout clears the persisted user and signs the session out. It always succeeds.
func (s *Store) Logout(ctx context.Context) {
	s.forget(ctx)
	s.dispatch(Logout{})
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyState(s.state)
}

// Subscribe registers fn to be called with the new state after every transition.
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

func (s *Store) dispatch(action Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	state := s.state
	subs := make([]func(State), 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		subs = append(subs, sub.fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(copyState(state))
	}
}

func (s *Store) simulateLatency() {
	if s.cfg.Latency > 0 {
		time.Sleep(s.cfg.Latency)
	}
}

// remember persists user. A storage failure is logged; the session stays signed in for this process.
func (s *Store) remember(ctx context.Context, user User) {
	data, err := json.Marshal(user)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to encode user", "error", err)
		return
	}
	if err := s.storage.Set(context.WithoutCancel(ctx), StorageKey, string(data)); err != nil {
		s.logger.WarnContext(ctx, "Failed to persist user", "error", err)
	}
}

func (s *Store) forget(ctx context.Context) {
	if err := s.storage.Remove(context.WithoutCancel(ctx), StorageKey); err != nil {
		s.logger.WarnContext(ctx, "Failed to remove persisted user", "error", err)
	}
}

func copyState(state State) State {
	if state.User != nil {
		user := *state.User
		state.User = &user
	}
	return state
}
