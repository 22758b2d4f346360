package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/caarlos0/env/v11"
)

// DefaultDBPassword is the credential used when DB_PASSWORD is not set.
// It only exists so a local MariaDB container works out of the box.
const DefaultDBPassword = "my-secret-pw"

// Config holds everything resolved from the environment at startup.
type Config struct {
	Port              int    `env:"PORT" envDefault:"5000"`
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
	MetricsPath       string `env:"METRICS_PATH" envDefault:"/metrics"`
	CORSAllowedOrigin string `env:"CORS_ALLOWED_ORIGIN"`
	DB                DB     `envPrefix:"DB_"`

	// defaulted lists the variables that were absent and fell back to envDefault.
	defaulted []string
}

// DB is the connection-parameter record used to open a database session.
type DB struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"3306"`
	User     string `env:"USER" envDefault:"root"`
	Password string `env:"PASSWORD" envDefault:"my-secret-pw"`
	Name     string `env:"NAME" envDefault:"mysql"`
}

// Load resolves the configuration from the process environment.
func Load() (*Config, error) {
	return load(env.Options{})
}

// LoadFrom resolves the configuration from the given variables instead of
// the process environment.
func LoadFrom(environment map[string]string) (*Config, error) {
	return load(env.Options{Environment: environment})
}

func load(opts env.Options) (*Config, error) {
	var cfg Config
	opts.OnSet = func(tag string, _ interface{}, isDefault bool) {
		if isDefault {
			cfg.defaulted = append(cfg.defaulted, tag)
		}
	}

	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	// A variable that is set but empty keeps its empty value; only an
	// absent one falls back to the default.
	lookup := os.LookupEnv
	if opts.Environment != nil {
		lookup = func(key string) (string, bool) {
			v, ok := opts.Environment[key]
			return v, ok
		}
	}
	for key, field := range map[string]*string{
		"DB_HOST":     &cfg.DB.Host,
		"DB_USER":     &cfg.DB.User,
		"DB_PASSWORD": &cfg.DB.Password,
		"DB_NAME":     &cfg.DB.Name,
	} {
		if v, ok := lookup(key); ok && v == "" {
			*field = ""
			cfg.undefault(key)
		}
	}

	if err := cfg.validateMetricsPath(); err != nil {
		return nil, err
	}

	sort.Strings(cfg.defaulted)
	return &cfg, nil
}

// reservedPaths are served by the application itself.
var reservedPaths = []string{"/", "/db_version"}

func (c *Config) validateMetricsPath() error {
	if !strings.HasPrefix(c.MetricsPath, "/") || strings.ContainsAny(c.MetricsPath, ":*") {
		return fmt.Errorf("invalid METRICS_PATH %q: must be a static path starting with /", c.MetricsPath)
	}
	for _, p := range reservedPaths {
		if c.MetricsPath == p {
			return fmt.Errorf("invalid METRICS_PATH %q: path is already in use", c.MetricsPath)
		}
	}
	return nil
}

func (c *Config) undefault(key string) {
	kept := c.defaulted[:0]
	for _, name := range c.defaulted {
		if name != key {
			kept = append(kept, name)
		}
	}
	c.defaulted = kept
}

// Defaulted returns the names of the variables that were not set.
func (c *Config) Defaulted() []string {
	out := make([]string, len(c.defaulted))
	copy(out, c.defaulted)
	return out
}

// UsesDefaultPassword reports whether the database credential is the
// built-in fallback rather than something the operator supplied.
func (c *Config) UsesDefaultPassword() bool {
	for _, name := range c.defaulted {
		if name == "DB_PASSWORD" {
			return true
		}
	}
	return false
}

// Addr is the listen address, all interfaces.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
