package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	JWTSecret string        `env:"JWT_SECRET, default=dev_secret_change_me"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=8h"`

	AdminPhoneNumber string `env:"ADMIN_PHONE_NUMBER"`

	Mongo     MongoConfig
	Redis     RedisConfig
	SMS       SMSConfig
	Outbox    OutboxConfig
	RateLimit RateLimitConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=marketplace"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type SMSConfig struct {
	Username string `env:"SMS_USERNAME"`
	APIKey   string `env:"SMS_API_KEY"`
	SenderID string `env:"SMS_SENDER_ID"`
	BaseURL  string `env:"SMS_BASE_URL, default=https://api.africastalking.com"`
}

type OutboxConfig struct {
	Workers int `env:"OUTBOX_WORKERS, default=4"`
	Buffer  int `env:"OUTBOX_BUFFER,  default=256"`
}

type RateLimitConfig struct {
	MessageLimit  int           `env:"MESSAGE_RATE_LIMIT,  default=30"`
	MessageWindow time.Duration `env:"MESSAGE_RATE_WINDOW, default=1m"`
}

// IsDevelopment reports whether human-readable logs should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// LoadFrom is Load with an explicit lookuper, used by tests.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}
