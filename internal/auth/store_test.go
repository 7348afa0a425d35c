package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/santiago072004/Tienda/internal/storage"
	"github.com/santiago072004/Tienda/pkg/messaging"
	"github.com/santiago072004/Tienda/pkg/messaging/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/goleak"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event messaging.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Authenticate(ctx context.Context, email, password string) (*User, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*User)
	return user, args.Error(1)
}

func (m *mockUserRepository) Create(ctx context.Context, name, email, password string) (*User, error) {
	args := m.Called(ctx, name, email, password)
	user, _ := args.Get(0).(*User)
	return user, args.Error(1)
}

// StoreSuite exercises the auth Store against the in-memory repository.
type StoreSuite struct {
	suite.Suite
	ctx       context.Context
	logger    *slog.Logger
	repo      *MemoryRepository
	storage   *storage.MemoryStorage
	publisher *mockPublisher
	store     *Store
}

func (s *StoreSuite) SetupTest() {
	var err error
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.repo, err = NewMemoryRepository()
	s.Require().NoError(err)
	s.storage = storage.NewMemoryStorage()
	s.publisher = new(mockPublisher)
	s.store = NewStore(s.repo, s.storage, s.logger, StoreConfig{Publisher: s.publisher})
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) persistedUser() (*User, bool) {
	raw, err := s.storage.Get(s.ctx, StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false
	}
	s.Require().NoError(err)
	var user User
	s.Require().NoError(json.Unmarshal([]byte(raw), &user))
	return &user, true
}

func (s *StoreSuite) TestInitialStateIsLoading() {
	state := s.store.State()

	s.True(state.IsLoading)
	s.False(state.IsAuthenticated)
}

func (s *StoreSuite) TestLoginWithDemoUser() {
	// when
	err := s.store.Login(s.ctx, "demo@tiendaonline.com", "demo123")

	// then
	s.NoError(err)
	state := s.store.State()
	s.True(state.IsAuthenticated)
	s.False(state.IsLoading)
	s.Equal(DemoUser, *state.User)

	persisted, found := s.persistedUser()
	s.Require().True(found)
	s.Equal(DemoUser, *persisted)
}

func (s *StoreSuite) TestLoginWithWrongPassword() {
	// when
	err := s.store.Login(s.ctx, "demo@tiendaonline.com", "wrong")

	// then
	s.ErrorIs(err, ErrInvalidCredentials)
	state := s.store.State()
	s.False(state.IsAuthenticated)
	s.False(state.IsLoading)
	s.Nil(state.User)
	_, found := s.persistedUser()
	s.False(found)
}

func (s *StoreSuite) TestPersistedRecordNeverContainsPassword() {
	// when
	s.Require().NoError(s.store.Login(s.ctx, "demo@tiendaonline.com", "demo123"))

	// then
	raw, err := s.storage.Get(s.ctx, StorageKey)
	s.Require().NoError(err)
	s.NotContains(raw, "demo123")
	s.NotContains(raw, "password")
	s.JSONEq(`{"id":"1","name":"Usuario Demo","email":"demo@tiendaonline.com"}`, raw)
}

func (s *StoreSuite) TestRegisterNewUser() {
	// given
	s.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e events.UserRegisteredEvent) bool {
		return e.Email == "ana@example.com" && e.Name == "Ana" && e.UserID != ""
	})).Return(nil).Once()

	// when
	err := s.store.Register(s.ctx, "Ana", "ana@example.com", "secreto")

	// then
	s.NoError(err)
	state := s.store.State()
	s.True(state.IsAuthenticated)
	s.Equal("ana@example.com", state.User.Email)
	s.NotEmpty(state.User.ID)

	persisted, found := s.persistedUser()
	s.Require().True(found)
	s.Equal(*state.User, *persisted)
	s.publisher.AssertExpectations(s.T())

	// the new account can log in afterwards
	s.NoError(s.store.Login(s.ctx, "ana@example.com", "secreto"))
}

func (s *StoreSuite) TestRegisterExistingEmailFails() {
	// when
	err := s.store.Register(s.ctx, "Otro", "demo@tiendaonline.com", "otra")

	// then
	s.ErrorIs(err, ErrUserAlreadyExists)
	s.False(s.store.State().IsAuthenticated)
	s.publisher.AssertNotCalled(s.T(), "Publish", mock.Anything, mock.Anything)

	user, err := s.repo.Authenticate(s.ctx, "demo@tiendaonline.com", "demo123")
	s.Require().NoError(err)
	s.Equal(DemoUser, *user)
}

func (s *StoreSuite) TestRegisterSucceedsWhenPublishFails() {
	// given
	s.publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	// when
	err := s.store.Register(s.ctx, "Ana", "ana@example.com", "secreto")

	// then
	s.NoError(err)
	s.True(s.store.State().IsAuthenticated)
}

func (s *StoreSuite) TestLogout() {
	// given
	s.Require().NoError(s.store.Login(s.ctx, "demo@tiendaonline.com", "demo123"))

	// when
	s.store.Logout(s.ctx)

	// then
	s.Equal(State{}, s.store.State())
	_, found := s.persistedUser()
	s.False(found)
}

func (s *StoreSuite) TestLogoutWhenAnonymous() {
	s.store.Logout(s.ctx)

	s.Equal(State{}, s.store.State())
}

func (s *StoreSuite) TestLoadRestoresPersistedUser() {
	// given
	s.Require().NoError(s.store.Login(s.ctx, "demo@tiendaonline.com", "demo123"))
	restored := NewStore(s.repo, s.storage, s.logger, StoreConfig{})

	// when
	err := restored.Load(s.ctx)

	// then
	s.Require().NoError(err)
	state := restored.State()
	s.True(state.IsAuthenticated)
	s.False(state.IsLoading)
	s.Equal(DemoUser, *state.User)
}

func (s *StoreSuite) TestLoadWithoutRecord() {
	// when
	err := s.store.Load(s.ctx)

	// then
	s.NoError(err)
	s.Equal(State{}, s.store.State())
}

func (s *StoreSuite) TestLoadDiscardsCorruptRecord() {
	for _, raw := range []string{"{broken", `"just a string"`, `{"name":"no id"}`} {
		// given
		s.Require().NoError(s.storage.Set(s.ctx, StorageKey, raw))

		// when
		err := s.store.Load(s.ctx)

		// then
		s.NoError(err, raw)
		s.Equal(State{}, s.store.State(), raw)
		_, found := s.persistedUser()
		s.False(found, raw)
	}
}

func (s *StoreSuite) TestSubscribersSeeLoadingTransition() {
	// given
	var seen []State
	cancel := s.store.Subscribe(func(state State) { seen = append(seen, state) })
	defer cancel()

	// when
	s.store.Login(s.ctx, "demo@tiendaonline.com", "demo123")

	// then
	s.Require().Len(seen, 2)
	s.True(seen[0].IsLoading)
	s.False(seen[1].IsLoading)
	s.True(seen[1].IsAuthenticated)
}

func TestStore_LoginIgnoresCancellation(t *testing.T) {
	// given
	repo, err := NewMemoryRepository()
	require.NoError(t, err)
	store := NewStore(repo, storage.NewMemoryStorage(), slog.New(slog.NewTextHandler(io.Discard, nil)),
		StoreConfig{Latency: 20 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// when
	err = store.Login(ctx, "demo@tiendaonline.com", "demo123")

	// then
	assert.NoError(t, err)
	assert.True(t, store.State().IsAuthenticated)
}

func TestStore_IsLoadingDuringLatency(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	// given
	repo, err := NewMemoryRepository()
	require.NoError(t, err)
	store := NewStore(repo, storage.NewMemoryStorage(), slog.New(slog.NewTextHandler(io.Discard, nil)),
		StoreConfig{Latency: 200 * time.Millisecond})
	require.NoError(t, store.Load(context.Background()))

	started := make(chan struct{})
	var once sync.Once
	cancel := store.Subscribe(func(s State) {
		if s.IsLoading {
			once.Do(func() { close(started) })
		}
	})
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		store.Login(context.Background(), "demo@tiendaonline.com", "demo123")
	}()

	// when
	<-started
	during := store.State()
	wg.Wait()

	// then
	assert.True(t, during.IsLoading)
	assert.False(t, store.State().IsLoading)
}

func TestStore_RepositoryErrorFailsLogin(t *testing.T) {
	// given
	repo := new(mockUserRepository)
	repo.On("Authenticate", mock.Anything, "demo@tiendaonline.com", "demo123").
		Return(nil, errors.New("connection reset"))
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	metrics, err := NewMetrics(provider.Meter("auth-test"))
	require.NoError(t, err)
	store := NewStore(repo, storage.NewMemoryStorage(), slog.New(slog.NewTextHandler(io.Discard, nil)),
		StoreConfig{Metrics: metrics})

	// when
	err = store.Login(context.Background(), "demo@tiendaonline.com", "demo123")

	// then
	assert.ErrorContains(t, err, "connection reset")
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, store.State().IsAuthenticated)
	repo.AssertExpectations(t)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	sum, ok := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	result, _ := sum.DataPoints[0].Attributes.Value(attribute.Key("result"))
	operation, _ := sum.DataPoints[0].Attributes.Value(attribute.Key("operation"))
	assert.Equal(t, "error", result.AsString())
	assert.Equal(t, "login", operation.AsString())
}

func TestStore_RepositoryErrorFailsRegister(t *testing.T) {
	// given
	repo := new(mockUserRepository)
	repo.On("Create", mock.Anything, "Ana", "ana@example.com", "secreto").
		Return(nil, errors.New("connection reset"))
	store := NewStore(repo, storage.NewMemoryStorage(), slog.New(slog.NewTextHandler(io.Discard, nil)), StoreConfig{})

	// when
	err := store.Register(context.Background(), "Ana", "ana@example.com", "secreto")

	// then
	assert.ErrorContains(t, err, "connection reset")
	assert.NotErrorIs(t, err, ErrUserAlreadyExists)
	assert.False(t, store.State().IsAuthenticated)
	assert.False(t, store.State().IsLoading)
	repo.AssertExpectations(t)
}

type failingStorage struct{}

func (failingStorage) Get(context.Context, string) (string, error) {
	return "", errors.New("storage unavailable")
}

func (failingStorage) Set(context.Context, string, string) error {
	return errors.New("storage unavailable")
}

func (failingStorage) Remove(context.Context, string) error {
	return errors.New("storage unavailable")
}

func TestStore_LoadReturnsStorageError(t *testing.T) {
	// given
	repo, err := NewMemoryRepository()
	require.NoError(t, err)
	store := NewStore(repo, failingStorage{}, slog.New(slog.NewTextHandler(io.Discard, nil)), StoreConfig{})

	// when
	err = store.Load(context.Background())

	// then
	assert.ErrorContains(t, err, "storage unavailable")
	assert.True(t, store.State().IsLoading)
}

func TestStore_SubscribersNotifiedInOrder(t *testing.T) {
	tests := []struct {
		name      string
		cancelIdx int
		expected  []int
	}{
		{name: "all subscribed", cancelIdx: -1, expected: []int{1, 2, 3}},
		{name: "middle cancelled", cancelIdx: 1, expected: []int{1, 3}},
		{name: "first cancelled", cancelIdx: 0, expected: []int{2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// given
			repo, err := NewMemoryRepository()
			require.NoError(t, err)
			store := NewStore(repo, storage.NewMemoryStorage(), slog.New(slog.NewTextHandler(io.Discard, nil)), StoreConfig{})
			var order []int
			var cancels []func()
			for i := 1; i <= 3; i++ {
				cancels = append(cancels, store.Subscribe(func(State) { order = append(order, i) }))
			}
			if tt.cancelIdx >= 0 {
				cancels[tt.cancelIdx]()
			}

			// when
			store.Logout(context.Background())

			// then
			assert.Equal(t, tt.expected, order)
		})
	}
}
