package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Backend  BackendConfig
	Identity IdentityConfig
	Session  SessionConfig
	Imgbb    ImgbbConfig

	Mongo MongoConfig
	Redis RedisConfig

	DispatchWorkers int `env:"DISPATCH_WORKERS, default=8"`
}

type BackendConfig struct {
	URL string `env:"BACKEND_URL"`
	// LegacyURL is the name the browser build used.
	LegacyURL string        `env:"VITE_BACKEND_URL"`
	Timeout   time.Duration `env:"BACKEND_TIMEOUT, default=15s"`
}

type IdentityConfig struct {
	APIKey         string `env:"FIREBASE_API_KEY"`
	LegacyAPIKey   string `env:"VITE_APIKEY"`
	IdentityURL    string `env:"IDENTITY_URL,     default=https://identitytoolkit.googleapis.com/v1"`
	SecureTokenURL string `env:"SECURE_TOKEN_URL, default=https://securetoken.googleapis.com/v1"`
}

type SessionConfig struct {
	Secret       string        `env:"SESSION_SECRET"`
	IdleTTL      time.Duration `env:"SESSION_IDLE_TTL, default=30m"`
	Retention    time.Duration `env:"SESSION_RETENTION, default=720h"`
	GuardWait    time.Duration `env:"GUARD_WAIT,       default=2s"`
	RoleCacheTTL time.Duration `env:"ROLE_CACHE_TTL,   default=5m"`
	CookieSecure bool          `env:"COOKIE_SECURE,    default=false"`
}

type ImgbbConfig struct {
	APIKey       string `env:"IMGBB_API_KEY"`
	LegacyAPIKey string `env:"VITE_IMGBB_API_KEY"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=scholarship_portal"`
}

type RedisConfig struct {
	Enabled  bool   `env:"REDIS_ENABLED,  default=true"`
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// BackendURL returns the configured REST backend URL; the gateway applies
// its own default when both names are unset.
func (c *Config) BackendURL() string {
	if c.Backend.URL != "" {
		return c.Backend.URL
	}
	return c.Backend.LegacyURL
}

func (c *Config) FirebaseAPIKey() string {
	if c.Identity.APIKey != "" {
		return c.Identity.APIKey
	}
	return c.Identity.LegacyAPIKey
}

func (c *Config) ImgbbAPIKey() string {
	if c.Imgbb.APIKey != "" {
		return c.Imgbb.APIKey
	}
	return c.Imgbb.LegacyAPIKey
}

func (c *Config) Validate() error {
	var errs []error
	if c.FirebaseAPIKey() == "" {
		errs = append(errs, errors.New("FIREBASE_API_KEY is required"))
	}
	if len(c.Session.Secret) < 16 {
		errs = append(errs, errors.New("SESSION_SECRET must be at least 16 characters"))
	}
	if c.Session.GuardWait < 0 {
		errs = append(errs, errors.New("GUARD_WAIT must not be negative"))
	}
	return errors.Join(errs...)
}

// Load reads a .env file when present, then the environment.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from l using go-envconfig.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
