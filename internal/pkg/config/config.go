package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Credential store backends.
const (
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Backend    BackendConfig
	Dashboard  DashboardConfig
	Mongo      MongoConfig
	Redis      RedisConfig
	DevBackend DevBackendConfig
}

type BackendConfig struct {
	URL     string        `env:"BACKEND_URL,     default=http://localhost:8081"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT, default=10s"`
}

type DashboardConfig struct {
	// CredentialStore is "redis" or "memory".
	CredentialStore string        `env:"CREDENTIAL_STORE, default=redis"`
	SubmissionTTL   time.Duration `env:"SUBMISSION_TTL,   default=10m"`
	AuditWorkers    int           `env:"AUDIT_WORKERS,    default=4"`
	// AuditEnabled turns off the Mongo audit trail when false.
	AuditEnabled bool `env:"AUDIT_ENABLED, default=true"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=dashboard"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// DevBackendConfig configures cmd/devbackend only.
type DevBackendConfig struct {
	Port          string        `env:"DEVBACKEND_PORT,     default=8081"`
	JWTSecret     string        `env:"JWT_SECRET,          default=dev-secret-change-me"`
	TokenTTL      time.Duration `env:"TOKEN_TTL,           default=24h"`
	AdminEmail    string        `env:"SEED_ADMIN_EMAIL,    default=admin@perbaikiin.id"`
	AdminPassword string        `env:"SEED_ADMIN_PASSWORD, default=admin123"`
}

// IsDevelopment reports whether ENV selects the development profile.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	switch cfg.Dashboard.CredentialStore {
	case StoreRedis, StoreMemory:
	default:
		return nil, fmt.Errorf("CREDENTIAL_STORE must be %q or %q, got %q", StoreRedis, StoreMemory, cfg.Dashboard.CredentialStore)
	}
	return &cfg, nil
}
