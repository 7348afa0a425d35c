package storage

import (
	"context"
	"errors"
	"log/slog"

	"github.com/santiago072004/Tienda/pkg/config"
	"github.com/sony/gobreaker/v2"
)

type breakerStorage struct {
	next Storage
	cb   *gobreaker.CircuitBreaker[string]
}

// WithCircuitBreaker stops calling next while it keeps failing.
// ErrNotFound and a cancelled caller context do not count as failures.
// While open, calls fail fast with gobreaker.ErrOpenState.
func WithCircuitBreaker(next Storage, name string, cfg config.CircuitBreakerConfig, logger *slog.Logger) Storage {
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			total := counts.TotalSuccesses + counts.TotalFailures
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures ||
				(total > cfg.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(total)*100 > float64(cfg.ErrorRatePercent))
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Storage circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	}
	return &breakerStorage{next: next, cb: gobreaker.NewCircuitBreaker[string](st)}
}

func (b *breakerStorage) Get(ctx context.Context, key string) (string, error) {
	return b.cb.Execute(func() (string, error) {
		return b.next.Get(ctx, key)
	})
}

func (b *breakerStorage) Set(ctx context.Context, key, value string) error {
	_, err := b.cb.Execute(func() (string, error) {
		return "", b.next.Set(ctx, key, value)
	})
	return err
}

func (b *breakerStorage) Remove(ctx context.Context, key string) error {
	_, err := b.cb.Execute(func() (string, error) {
		return "", b.next.Remove(ctx, key)
	})
	return err
}
