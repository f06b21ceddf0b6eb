package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Backend selector values for DB_BACKEND.
const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`

	// Backend selects the persistence technology: "mongo" or "postgres".
	// Read once at startup; everything downstream receives the constructed
	// repositories, never the flag.
	Backend string `env:"DB_BACKEND, default=postgres"`

	Mongo    MongoConfig
	Postgres PostgresConfig
	Redis    RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=store"`
}

type PostgresConfig struct {
	DSN string `env:"POSTGRES_DSN, default=host=localhost port=5432 user=postgres dbname=store sslmode=disable"`
}

// RedisConfig is optional: an empty Addr disables the rate limiter and the
// redis readiness check.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Backend != BackendMongo && cfg.Backend != BackendPostgres {
		return nil, fmt.Errorf("config: unknown DB_BACKEND %q", cfg.Backend)
	}
	return &cfg, nil
}
