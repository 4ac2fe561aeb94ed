// Package config loads server configuration from the environment and command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the server settings. Flags override environment values.
type Config struct {
	Port        int    `env:"PORT"         envDefault:"3001"`
	DatabaseURL string `env:"DATABASE_URL"`

	PostgresHost        string `env:"POSTGRES_HOST"        envDefault:"localhost"`
	PostgresPort        int    `env:"POSTGRES_PORT"        envDefault:"5432"`
	PostgresUser        string `env:"POSTGRES_USER"        envDefault:"postgres"`
	PostgresPassword    string `env:"POSTGRES_PASSWORD"`
	PostgresDB          string `env:"POSTGRES_DB"          envDefault:"goalplay"`
	PostgresSSL         bool   `env:"POSTGRES_SSL"`
	PostgresSynchronize bool   `env:"POSTGRES_SYNCHRONIZE"`

	APIPrefix      string        `env:"API_PREFIX"`
	JWTSecret      string        `env:"JWT_SECRET"`
	CORSOrigins    []string      `env:"CORS_ORIGINS"    envSeparator:"," envDefault:"http://localhost:3000,https://goalplay.app"`
	HealthAddr     string        `env:"HEALTH_ADDR"     envDefault:":9090"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`
	Dev            bool          `env:"LOG_DEV"`
}

// Load parses the environment, then applies flags from args (without the program name).
func Load(args []string) (*Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("inventory-server", flag.ContinueOnError)
	fs.IntVar(&c.Port, "port", c.Port, "HTTP listen port")
	fs.StringVar(&c.DatabaseURL, "dsn", c.DatabaseURL, "PostgreSQL DSN (overrides POSTGRES_* settings)")
	fs.StringVar(&c.JWTSecret, "jwt-key", c.JWTSecret, "HS256 signing key (required)")
	fs.StringVar(&c.APIPrefix, "prefix", c.APIPrefix, "route prefix for the API, e.g. /api")
	fs.StringVar(&c.HealthAddr, "health-addr", c.HealthAddr, "gRPC health listen address")
	fs.DurationVar(&c.RequestTimeout, "request-timeout", c.RequestTimeout, "per-request timeout")
	fs.BoolVar(&c.PostgresSynchronize, "migrate", c.PostgresSynchronize, "apply migrations at startup")
	fs.BoolVar(&c.Dev, "dev", c.Dev, "development logging")
	origins := fs.String("cors-origins", strings.Join(c.CORSOrigins, ","), "comma-separated allowed CORS origins")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	c.CORSOrigins = splitList(*origins)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("missing jwt signing key (JWT_SECRET or --jwt-key)")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("invalid request timeout %s", c.RequestTimeout)
	}
	return nil
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string { return ":" + strconv.Itoa(c.Port) }

// DSN returns DATABASE_URL when set, otherwise a URL assembled from the POSTGRES_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	sslmode := "disable"
	if c.PostgresSSL {
		sslmode = "require"
	}
	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(c.PostgresHost, strconv.Itoa(c.PostgresPort)),
		Path:     "/" + c.PostgresDB,
		RawQuery: "sslmode=" + sslmode,
	}
	if c.PostgresPassword != "" {
		u.User = url.UserPassword(c.PostgresUser, c.PostgresPassword)
	} else {
		u.User = url.User(c.PostgresUser)
	}
	return u.String()
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
