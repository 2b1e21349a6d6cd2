package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the process-wide configuration, threaded explicitly into the
// dataset loader, LLM client, and services. Nothing reads ambient globals.
type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// DataDir holds the CSV source tables.
	DataDir string `env:"DATA_DIR, default=./data"`

	// AllowedOrigins is a comma-separated CORS allowlist.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS, default=http://localhost:5173"`

	JWTSecret string `env:"JWT_SECRET"`

	// Admin credentials for the management API login.
	// The password is stored as a bcrypt hash.
	AdminUser         string `env:"ADMIN_USER, default=admin"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`

	LLM   LLMConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type LLMConfig struct {
	BaseURL string        `env:"LLM_BASE_URL, default=http://localhost:11434"`
	Model   string        `env:"LLM_MODEL,    default=gemma3:4b"`
	Timeout time.Duration `env:"LLM_TIMEOUT,  default=60s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=credit_system"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
