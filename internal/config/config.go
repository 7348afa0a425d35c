package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/santiago072004/Tienda/pkg/config"
	"github.com/santiago072004/Tienda/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	Database   config.DatabaseConfig   `koanf:"database"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	GRPC       config.GrpcServerConfig `koanf:"grpc"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
	Telemetry  config.TelemetryConfig  `koanf:"telemetry"`
	NATS       config.NATSConfig       `koanf:"nats"`
	Storage    StorageConfig           `koanf:"storage"`
	Latency    LatencyConfig           `koanf:"latency"`
	Session    SessionConfig           `koanf:"session"`
}

// StorageConfig selects the client storage driver.
type StorageConfig struct {
	Driver         string                      `koanf:"driver"`
	Redis          config.RedisConfig          `koanf:"redis"`
	SQLite         SQLiteConfig                `koanf:"sqlite"`
	CircuitBreaker config.CircuitBreakerConfig `koanf:"circuitbreaker"`
}

type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// SessionConfig bounds the sessions kept in memory. Evicted sessions are restored from storage.
type SessionConfig struct {
	MaxSessions int `koanf:"maxsessions"`
}

// LatencyConfig holds the simulated delays of the mock backends.
type LatencyConfig struct {
	Auth    time.Duration `koanf:"auth"`
	Contact time.Duration `koanf:"contact"`
}

// Defaults are the values used when neither the config file nor the environment sets them.
func Defaults() map[string]any {
	return map[string]any{
		"server.port":               8080,
		"server.maxheaderbytes":     1 << 20,
		"server.timeout.read":       "5s",
		"server.timeout.write":      "10s",
		"server.timeout.idle":       "60s",
		"server.timeout.readheader": "2s",

		"database.timeout": "5s",
		"database.migrate": true,
		"log.level":        "info",
		"grpc.port":        "9090",
		"shutdown.timeout": "10s",

		"nats.stream":  "STOREFRONT",
		"nats.timeout": "5s",

		"storage.driver":             StorageMemory,
		"storage.redis.poolsize":     10,
		"storage.redis.dialtimeout":  "5s",
		"storage.redis.readtimeout":  "3s",
		"storage.redis.writetimeout": "3s",
		"storage.redis.ttl":          "720h",
		"storage.sqlite.path":        "storefront.db",

		"storage.circuitbreaker.enabled":             true,
		"storage.circuitbreaker.maxrequests":         3,
		"storage.circuitbreaker.consecutivefailures": 5,
		"storage.circuitbreaker.errorratepercent":    50,
		"storage.circuitbreaker.opentimeout":         "10s",

		"latency.auth":    "1s",
		"latency.contact": "2s",

		"session.maxsessions": 10000,
	}
}

func (c *Config) String() string {
	var b strings.Builder

	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Database.String())
	b.WriteString(c.GRPC.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.NATS.String())

	b.WriteString("\n--- Client Storage ---\n")
	b.WriteString(fmt.Sprintf("  storage.driver: %s\n", c.Storage.Driver))
	switch c.Storage.Driver {
	case StorageRedis:
		b.WriteString(c.Storage.Redis.String())
	case StorageSQLite:
		b.WriteString(fmt.Sprintf("  storage.sqlite.path: %s\n", c.Storage.SQLite.Path))
	}
	if c.Storage.Driver != StorageMemory {
		b.WriteString(c.Storage.CircuitBreaker.String())
	}

	b.WriteString("\n--- Application Behavior ---\n")
	b.WriteString(fmt.Sprintf("  latency.auth: %s\n", c.Latency.Auth))
	b.WriteString(fmt.Sprintf("  latency.contact: %s\n", c.Latency.Contact))
	b.WriteString(fmt.Sprintf("  session.maxsessions: %d\n", c.Session.MaxSessions))
	b.WriteString(c.Shutdown.String())

	return b.String()
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	sections := []configloader.Validator{
		&c.HTTPServer, &c.Database, &c.Log, &c.PProf, &c.GRPC, &c.Shutdown, &c.Telemetry, &c.NATS,
	}
	for _, section := range sections {
		if err := section.Validate(); err != nil {
			return err
		}
	}

	switch c.Storage.Driver {
	case StorageMemory:
	case StorageRedis:
		if err := c.Storage.Redis.Validate(); err != nil {
			return err
		}
	case StorageSQLite:
		if c.Storage.SQLite.Path == "" {
			return fmt.Errorf("sqlite storage path is not configured")
		}
	default:
		return fmt.Errorf("unknown storage driver: %q", c.Storage.Driver)
	}
	if c.Storage.Driver != StorageMemory {
		if err := c.Storage.CircuitBreaker.Validate(); err != nil {
			return err
		}
	}

	if c.Latency.Auth < 0 || c.Latency.Contact < 0 {
		return fmt.Errorf("latency must not be negative")
	}
	if c.Session.MaxSessions <= 0 {
		return fmt.Errorf("session max sessions must be positive, got %d", c.Session.MaxSessions)
	}
	return nil
}
