package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"ringstats-backend/logger"
	"ringstats-backend/validation"
)

const devJWTSecret = "ringstats-dev-secret"

type Credibility struct {
	WilsonWeight       float64 `env:"CREDIBILITY_WILSON_WEIGHT" validate:"gte=0,lte=1"`
	SourceWeight       float64 `env:"CREDIBILITY_SOURCE_WEIGHT" validate:"gte=0,lte=1"`
	ConfirmedThreshold float64 `env:"CREDIBILITY_CONFIRMED_THRESHOLD" validate:"gte=0,lte=1"`
	RumorThreshold     float64 `env:"CREDIBILITY_RUMOR_THRESHOLD" validate:"gte=0,ltefield=ConfirmedThreshold"`
}

type Config struct {
	Port           string        `env:"PORT" validate:"required,numeric"`
	Environment    string        `env:"NODE_ENV" validate:"required"`
	Datastore      string        `env:"DATASTORE" validate:"oneof=postgres file"`
	DatabaseURL    string        `env:"DATABASE_URL" validate:"required_if=Datastore postgres"`
	WrestlersFile  string        `env:"WRESTLERS_FILE" validate:"required_if=Datastore file"`
	RedisURL       string        `env:"REDIS_URL"`
	FavoritesDB    string        `env:"FAVORITES_DB"`
	JWTSecret      string        `env:"JWT_SECRET" validate:"required"`
	SendGridAPIKey string        `env:"SENDGRID_API_KEY"`
	EmailFrom      string        `env:"EMAIL_FROM" validate:"omitempty,email"`
	EditorEmail    string        `env:"EDITOR_EMAIL" validate:"omitempty,email"`
	FrontendURL    string        `env:"FRONTEND_URL" validate:"omitempty,url"`
	SourcesFile    string        `env:"SOURCES_FILE"`
	IngestInterval time.Duration `env:"INGEST_INTERVAL" validate:"gte=0"`
	StatsCacheTTL  time.Duration `env:"STATS_CACHE_TTL" validate:"gte=0"`
	Credibility    Credibility
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// LoadEnv reads a .env file when running outside Render. A missing file is
// not an error.
func LoadEnv() {
	if os.Getenv("RENDER") != "" {
		return
	}
	if err := godotenv.Load(); err != nil {
		logger.Log.Debug("No .env file found, continuing with system environment variables")
	}
}

// Load builds the configuration from the process environment.
func Load() (*Config, error) {
	LoadEnv()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds and validates a Config from any env lookup function.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return def
	}

	c := &Config{
		Port:           get("PORT", "5000"),
		Environment:    get("NODE_ENV", "development"),
		DatabaseURL:    get("DATABASE_URL", ""),
		WrestlersFile:  get("WRESTLERS_FILE", ""),
		RedisURL:       get("REDIS_URL", ""),
		FavoritesDB:    get("FAVORITES_DB", ""),
		JWTSecret:      get("JWT_SECRET", ""),
		SendGridAPIKey: get("SENDGRID_API_KEY", ""),
		EmailFrom:      get("EMAIL_FROM", ""),
		EditorEmail:    get("EDITOR_EMAIL", ""),
		FrontendURL:    get("FRONTEND_URL", "http://localhost:3000"),
		SourcesFile:    get("SOURCES_FILE", "sources.yaml"),
	}

	c.Datastore = get("DATASTORE", "")
	if c.Datastore == "" {
		c.Datastore = "postgres"
		if c.DatabaseURL == "" && c.WrestlersFile != "" {
			c.Datastore = "file"
		}
	}

	if c.JWTSecret == "" && !c.IsProduction() {
		c.JWTSecret = devJWTSecret
	}

	var err error
	if c.IngestInterval, err = duration(get("INGEST_INTERVAL", "15m")); err != nil {
		return nil, fmt.Errorf("INGEST_INTERVAL: %w", err)
	}
	if c.StatsCacheTTL, err = duration(get("STATS_CACHE_TTL", "5m")); err != nil {
		return nil, fmt.Errorf("STATS_CACHE_TTL: %w", err)
	}

	floats := []struct {
		key string
		def float64
		dst *float64
	}{
		{"CREDIBILITY_WILSON_WEIGHT", 0.7, &c.Credibility.WilsonWeight},
		{"CREDIBILITY_SOURCE_WEIGHT", 0.3, &c.Credibility.SourceWeight},
		{"CREDIBILITY_CONFIRMED_THRESHOLD", 0.7, &c.Credibility.ConfirmedThreshold},
		{"CREDIBILITY_RUMOR_THRESHOLD", 0.3, &c.Credibility.RumorThreshold},
	}
	for _, f := range floats {
		*f.dst = f.def
		if raw, ok := lookup(f.key); ok && raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: invalid number %q", f.key, raw)
			}
			*f.dst = v
		}
	}

	if err := validation.Struct(c); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// duration accepts Go durations ("15m") and bare seconds ("900").
func duration(s string) (time.Duration, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}
