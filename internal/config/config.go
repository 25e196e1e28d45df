package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"

	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Env     string        `yaml:"env" env:"APP_ENV" env-default:"local"`
	HTTP    HTTPConfig    `yaml:"http"`
	Storage StorageConfig `yaml:"storage"`
	Remote  RemoteConfig  `yaml:"remote"`
	Session SessionConfig `yaml:"session"`
	Results ResultsConfig `yaml:"results"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr" env:"HTTP_ADDR" env-default:"0.0.0.0:8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"30s"`
	AllowedOrigins  []string      `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
}

type StorageConfig struct {
	Driver    string         `yaml:"driver" env:"STORAGE_DRIVER" env-default:"sqlite"`
	DSN       string         `yaml:"dsn" env:"STORAGE_DSN"`
	Namespace string         `yaml:"namespace" env:"STORAGE_NAMESPACE" env-default:"ballotbinders"`
	MaxBytes  int            `yaml:"max_bytes" env:"STORAGE_MAX_BYTES" env-default:"0"`
	Postgres  PostgresConfig `yaml:"postgres"`
}

type PostgresConfig struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"POSTGRES_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD"`
	DB       string `yaml:"db" env:"POSTGRES_DB" env-default:"ballotbinder"`
}

type RemoteConfig struct {
	GraphQLURL     string        `yaml:"graphql_url" env:"REMOTE_GRAPHQL_URL" env-required:"true"`
	Timeout        time.Duration `yaml:"timeout" env:"REMOTE_TIMEOUT" env-default:"10s"`
	MaxConcurrency int           `yaml:"max_concurrency" env:"REMOTE_MAX_CONCURRENCY" env-default:"8"`
}

type SessionConfig struct {
	Secret       string        `yaml:"secret" env:"SESSION_SECRET" env-required:"true"`
	TTL          time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"24h"`
	CookieDomain string        `yaml:"cookie_domain" env:"SESSION_COOKIE_DOMAIN"`
	CookieSecure bool          `yaml:"cookie_secure" env:"SESSION_COOKIE_SECURE" env-default:"true"`
}

type ResultsConfig struct {
	OtherThreshold float64 `yaml:"other_threshold" env:"RESULTS_OTHER_THRESHOLD" env-default:"0.05"`
}

// Load reads a .env file when present, then fills the config from the YAML
// file named by CONFIG_PATH or from the environment alone.
func Load() (*Config, error) {
	var cfg Config
	if err := read(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadStorage reads only the storage settings, so tools that touch the
// database do not need the remote or session settings.
func LoadStorage() (*StorageConfig, error) {
	var cfg struct {
		Storage StorageConfig `yaml:"storage"`
	}
	if err := read(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Storage.Validate(); err != nil {
		return nil, err
	}
	return &cfg.Storage, nil
}

func read(cfg any) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return fmt.Errorf("cannot read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("cannot read config from env: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if c.Remote.MaxConcurrency < 1 {
		return errors.New("remote max concurrency must be at least 1")
	}
	if c.Results.OtherThreshold < 0 || c.Results.OtherThreshold >= 1 {
		return fmt.Errorf("results other threshold %v out of range [0,1)", c.Results.OtherThreshold)
	}
	return nil
}

func (s *StorageConfig) Validate() error {
	switch s.Driver {
	case DriverMemory, DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", s.Driver)
	}
	if s.MaxBytes < 0 {
		return errors.New("storage max bytes must not be negative")
	}
	return nil
}

func (c *Config) StorageDSN() string {
	return c.Storage.ResolveDSN()
}

// ResolveDSN returns the configured DSN, building one from the POSTGRES_*
// settings for the postgres driver and defaulting to a local file for sqlite.
func (s *StorageConfig) ResolveDSN() string {
	if s.DSN != "" {
		return s.DSN
	}
	switch s.Driver {
	case DriverPostgres:
		p := s.Postgres
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(p.User, p.Password),
			Host:     net.JoinHostPort(p.Host, p.Port),
			Path:     p.DB,
			RawQuery: "sslmode=disable",
		}
		return u.String()
	case DriverSQLite:
		return "ballotbinder.db"
	}
	return ""
}
