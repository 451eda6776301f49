package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	defaultDatabase = "hospital_management"
)

type Config struct {
	App struct {
		Env      string `env:"APP_ENV" envDefault:"development"`
		Timezone string `env:"APP_TIMEZONE" envDefault:"Local"`
	}

	HTTP struct {
		Port           string        `env:"PORT" envDefault:"5000"`
		CORSOrigins    []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
		RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
		APIBaseURL     string        `env:"API_BASE_URL"`
	}

	Mongo struct {
		URI      string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017/hospital_management"`
		Database string `env:"MONGODB_DATABASE"`
	}

	Auth struct {
		JWTSecret string        `env:"JWT_SECRET" envDefault:"change-me"`
		JWTExpiry time.Duration `env:"JWT_EXPIRES_IN" envDefault:"24h"`
	}

	Cache struct {
		RedisURL string        `env:"REDIS_URL"`
		TTL      time.Duration `env:"CACHE_TTL" envDefault:"10m"`
		Size     int           `env:"CACHE_SIZE" envDefault:"1024"`
	}

	Jobs struct {
		Enabled bool `env:"JOBS_ENABLED" envDefault:"true"`
	}

	SMTP struct {
		Host     string `env:"SMTP_HOST"`
		Port     int    `env:"SMTP_PORT" envDefault:"587"`
		Username string `env:"SMTP_USERNAME"`
		Password string `env:"SMTP_PASSWORD"`
		From     string `env:"SMTP_FROM"`
	}
}

/*
* Load .env if present
* Parse the environment into Config
* Derive the database name from the connection string when not set
 */
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file loaded")
	}
	return Parse()
}

// Parse reads Config from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	cfg.App.Env = strings.ToLower(strings.TrimSpace(cfg.App.Env))
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = DatabaseFromURI(cfg.Mongo.URI)
	}
	return cfg, nil
}

// DatabaseFromURI returns the path segment of a mongodb:// URI, or the default name.
func DatabaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultDatabase
	}
	name := strings.Trim(u.Path, "/")
	if name == "" {
		return defaultDatabase
	}
	return name
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == EnvDevelopment
}

func (c *Config) IsProduction() bool {
	return c.App.Env == EnvProduction
}

// Location resolves App.Timezone, falling back to the host zone.
func (c *Config) Location() *time.Location {
	if c.App.Timezone == "" || strings.EqualFold(c.App.Timezone, "Local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		log.Warn().Str("timezone", c.App.Timezone).Msg("unknown APP_TIMEZONE, using local zone")
		return time.Local
	}
	return loc
}

func (c *Config) MailEnabled() bool {
	return c.SMTP.Host != ""
}

func (c *Config) CacheEnabled() bool {
	return c.Cache.RedisURL != ""
}
