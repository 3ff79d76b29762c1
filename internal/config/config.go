// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the sign-up frontend settings.
type Config struct {
	ServerPort     string        `env:"SERVER_PORT" envDefault:":8080"`
	BackendURL     string        `env:"BACKEND_URL" envDefault:"http://localhost:8081"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"10s"`
	RedisURL       string        `env:"REDIS_URL" envDefault:"localhost:6379"`
	RedisPassword  string        `env:"REDIS_PASSWORD"`
	SecureCookies  bool          `env:"SECURE_COOKIES" envDefault:"false"`

	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	FormSessionTTL  time.Duration `env:"FORM_SESSION_TTL" envDefault:"12h"`
	SubmitLockTTL   time.Duration `env:"SUBMIT_LOCK_TTL" envDefault:"30s"`
	ListingCacheTTL time.Duration `env:"LISTING_CACHE_TTL" envDefault:"30s"`
	LoginRetryDelay time.Duration `env:"LOGIN_RETRY_DELAY" envDefault:"300ms"`

	Age        AgeRange
	Capacity   Capacity
	Classifier ClassifierPhrases

	// CapacityPrefetch seeds new form sessions from the backend capacity snapshot.
	CapacityPrefetch bool `env:"CAPACITY_PREFETCH" envDefault:"false"`
}

// AgeRange is the inclusive accepted age range.
type AgeRange struct {
	Min int `env:"AGE_MIN" envDefault:"14"`
	Max int `env:"AGE_MAX" envDefault:"40"`
}

// Capacity holds the per-position slot counts shown to players. The backend
// enforces its own limits.
type Capacity struct {
	Guard   int `env:"CAPACITY_GUARD" envDefault:"1"`
	Forward int `env:"CAPACITY_FORWARD" envDefault:"2"`
	Center  int `env:"CAPACITY_CENTER" envDefault:"2"`
}

// ClassifierPhrases are the lowercase substrings used to classify backend errors.
type ClassifierPhrases struct {
	Closed     []string `env:"CLASSIFIER_CLOSED_PHRASES" envSeparator:"," envDefault:"closed,maxcapacity(0)"`
	Capacity   []string `env:"CLASSIFIER_CAPACITY_PHRASES" envSeparator:"," envDefault:"maximum capacity,maxcapacity"`
	Validation []string `env:"CLASSIFIER_VALIDATION_PHRASES" envSeparator:"," envDefault:"invalid,must be,required"`
}

// BackendConfig holds the reference roster backend settings.
type BackendConfig struct {
	ServerPort string        `env:"BACKEND_PORT" envDefault:":8081"`
	DBUrl      string        `env:"DATABASE_URL,required,notEmpty"`
	JWTSecret  string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL   time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	Age      AgeRange
	Capacity Capacity

	BootstrapAdminUser     string `env:"BOOTSTRAP_ADMIN_USER"`
	BootstrapAdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Age.check(); err != nil {
		return nil, err
	}
	// A lock that expires mid-request would let a second submission through.
	if cfg.SubmitLockTTL <= cfg.BackendTimeout {
		return nil, fmt.Errorf("config: SUBMIT_LOCK_TTL (%s) must exceed BACKEND_TIMEOUT (%s)", cfg.SubmitLockTTL, cfg.BackendTimeout)
	}
	return &cfg, nil
}

func LoadBackend() (*BackendConfig, error) {
	var cfg BackendConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Age.check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (a AgeRange) check() error {
	if a.Min < 1 || a.Max < a.Min {
		return fmt.Errorf("config: invalid age range %d..%d", a.Min, a.Max)
	}
	return nil
}
