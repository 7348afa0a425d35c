// Package app wires the storefront components together.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/santiago072004/Tienda/internal/auth"
	"github.com/santiago072004/Tienda/internal/cart"
	"github.com/santiago072004/Tienda/internal/catalog"
	"github.com/santiago072004/Tienda/internal/config"
	"github.com/santiago072004/Tienda/internal/contact"
	"github.com/santiago072004/Tienda/internal/session"
	"github.com/santiago072004/Tienda/internal/storage"
	"github.com/santiago072004/Tienda/internal/transport/rest"
	"github.com/santiago072004/Tienda/pkg/messaging"
	natsclient "github.com/santiago072004/Tienda/pkg/nats"
	"github.com/santiago072004/Tienda/pkg/server"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

const instrumentationName = "github.com/santiago072004/Tienda"

// Infrastructure holds the external connections opened at start-up.
// Nil members select the in-process fallback.
type Infrastructure struct {
	DbPool    *pgxpool.Pool
	Redis     redis.Cmdable
	SQLite    *sql.DB
	JetStream jetstream.JetStream
	Meter     metric.Meter
	Registry  *prometheus.Registry
}

type Dependencies struct {
	Catalog  *catalog.Catalog
	Sessions *session.Registry
	Contact  *contact.Service
	Validate *validator.Validate
	Registry *prometheus.Registry
	Health   *health.Server
	Logger   *slog.Logger
}

func SetupDependencies(ctx context.Context, infra Infrastructure, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	store, err := setupStorage(ctx, infra, cfg, logger)
	if err != nil {
		return nil, err
	}
	users, err := setupUsers(ctx, infra)
	if err != nil {
		return nil, err
	}

	var publisher messaging.Publisher = messaging.NewLogPublisher(logger)
	if infra.JetStream != nil {
		publisher = natsclient.NewJetStreamPublisher(infra.JetStream)
	}

	meter := infra.Meter
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}
	cartMetrics, err := cart.NewMetrics(meter)
	if err != nil {
		return nil, err
	}
	authMetrics, err := auth.NewMetrics(meter)
	if err != nil {
		return nil, err
	}

	validate := validator.New()
	authConfig := auth.StoreConfig{
		Latency:   cfg.Latency.Auth,
		Publisher: publisher,
		Metrics:   authMetrics,
	}

	return &Dependencies{
		Catalog:  catalog.New(catalog.Seed()),
		Sessions: session.NewRegistry(store, users, cartMetrics, authConfig, cfg.Session.MaxSessions, logger),
		Contact:  contact.NewService(validate, publisher, logger, cfg.Latency.Contact),
		Validate: validate,
		Registry: infra.Registry,
		Health:   health.NewServer(),
		Logger:   logger,
	}, nil
}

// setupStorage selects the client storage driver. Remote drivers are guarded by a circuit breaker when enabled.
func setupStorage(ctx context.Context, infra Infrastructure, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	var s storage.Storage
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return storage.NewMemoryStorage(), nil
	case config.StorageRedis:
		if infra.Redis == nil {
			return nil, fmt.Errorf("redis storage selected but no redis client is configured")
		}
		s = storage.NewRedisStorage(infra.Redis, cfg.Storage.Redis.TTL)
	case config.StorageSQLite:
		if infra.SQLite == nil {
			return nil, fmt.Errorf("sqlite storage selected but no database is open")
		}
		sqliteStorage, err := storage.NewSQLiteStorage(ctx, infra.SQLite)
		if err != nil {
			return nil, err
		}
		s = sqliteStorage
	default:
		return nil, fmt.Errorf("unknown storage driver: %q", cfg.Storage.Driver)
	}

	if cfg.Storage.CircuitBreaker.Enabled {
		s = storage.WithCircuitBreaker(s, "storage-"+cfg.Storage.Driver, cfg.Storage.CircuitBreaker, logger)
	}
	return s, nil
}

// setupUsers returns the Postgres repository when a pool is available, the in-memory one otherwise.
func setupUsers(ctx context.Context, infra Infrastructure) (auth.UserRepository, error) {
	if infra.DbPool == nil {
		return auth.NewMemoryRepository()
	}
	repo := auth.NewPgRepository(infra.DbPool)
	if err := repo.Seed(ctx); err != nil {
		return nil, fmt.Errorf("failed to seed users: %w", err)
	}
	return repo, nil
}

// SetupHttpHandler builds the router with every route and middleware.
// Used by tests to exercise the full HTTP stack.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return otelhttp.NewHandler(mux, "storefront")
}

func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	handler := rest.NewHandler(deps.Catalog, deps.Sessions, deps.Contact, deps.Validate, deps.Logger)
	handler.RegisterRoutes(mux)

	if deps.Registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{Registry: deps.Registry}))
	}
}

// SetupHttpServer creates and configures the HTTP server.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	return server.NewHTTPServer(cfg.HTTPServer, SetupHttpHandler(deps))
}

// SetupGrpcServer creates the gRPC server exposing the health service.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) *grpc.Server {
	return server.NewGRPCServer(reflectionEnabled, server.WithHealth(deps.Health))
}
