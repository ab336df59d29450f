package config

import (
	"fmt"
	"time"

	"consultacnpj/cmd/internal/cache"
	"consultacnpj/cmd/internal/infrastructure/cnpjws"
	"consultacnpj/cmd/internal/ratelimit"
	"consultacnpj/cmd/internal/service/jobs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	CacheMemory = "memory"
	CacheSQLite = "sqlite"
)

type Config struct {
	Port     string  `validate:"required,numeric"`
	AppEnv   string  `validate:"oneof=production development"`
	LogLevel log.Lvl `validate:"-"`

	UpstreamBaseURL  string        `validate:"required,url"`
	UpstreamTimeout  time.Duration `validate:"gte=1s,lte=60s"`
	UpstreamRPM      int           `validate:"gte=0"`
	UpstreamCoalesce bool

	CacheBackend  string        `validate:"oneof=memory sqlite"`
	CacheTTL      time.Duration `validate:"gt=0"`
	CacheNegative bool
	SweepInterval time.Duration `validate:"gt=0"`

	RateLimitMax    int           `validate:"gt=0"`
	RateLimitWindow time.Duration `validate:"gt=0"`

	// TrustProxy takes the client IP from X-Forwarded-For when the immediate
	// peer is a private or loopback address.
	TrustProxy bool

	BodyLimit       string        `validate:"required,nospaces"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

func (c *Config) DevMode() bool {
	return c.AppEnv == EnvDevelopment
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

// Load reads the process environment into a Config and validates it. Call
// LoadEnv first so .env files or SSM parameters are already exported.
func Load(validate *validator.Validate) (*Config, error) {
	cfg := &Config{
		Port:     getenv("PORT", "7070"),
		AppEnv:   getenv("APP_ENV", EnvProduction),
		LogLevel: ParseLevel(getenv("LOG_LEVEL", "info")),

		UpstreamBaseURL:  getenv("UPSTREAM_BASE_URL", cnpjws.DefaultBaseURL),
		UpstreamTimeout:  parseDuration("UPSTREAM_TIMEOUT", cnpjws.DefaultTimeout),
		UpstreamRPM:      parseInt("UPSTREAM_RPM", cnpjws.DefaultRequestsPerMinute),
		UpstreamCoalesce: parseBool("UPSTREAM_COALESCE", false),

		CacheBackend:  getenv("CACHE_BACKEND", CacheMemory),
		CacheTTL:      parseDuration("CACHE_TTL", cache.DefaultTTL),
		CacheNegative: parseBool("CACHE_NEGATIVE", true),
		SweepInterval: parseDuration("SWEEP_INTERVAL", jobs.DefaultSweepInterval),

		RateLimitMax:    parseInt("RATE_LIMIT_MAX", ratelimit.DefaultLimit),
		RateLimitWindow: parseDuration("RATE_LIMIT_WINDOW", ratelimit.DefaultWindow),
		TrustProxy:      parseBool("TRUST_PROXY", false),

		BodyLimit:       getenv("BODY_LIMIT", "1M"),
		ShutdownTimeout: parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
