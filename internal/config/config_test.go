package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	c, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, 3001, c.Port)
	require.Equal(t, ":3001", c.Addr())
	require.Equal(t, ":9090", c.HealthAddr)
	require.Equal(t, 5*time.Second, c.RequestTimeout)
	require.Equal(t, []string{"http://localhost:3000", "https://goalplay.app"}, c.CORSOrigins)
	require.False(t, c.PostgresSynchronize)
	require.Equal(t, "postgres://postgres@localhost:5432/goalplay?sslmode=disable", c.DSN())
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("PORT", "8080")
	t.Setenv("CORS_ORIGINS", "https://a.example")

	c, err := Load([]string{
		"--port", "9000",
		"--jwt-key", "from-flag",
		"--cors-origins", "https://b.example, https://c.example",
		"--migrate",
	})
	require.NoError(t, err)
	require.Equal(t, 9000, c.Port)
	require.Equal(t, "from-flag", c.JWTSecret)
	require.Equal(t, []string{"https://b.example", "https://c.example"}, c.CORSOrigins)
	require.True(t, c.PostgresSynchronize)
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load(nil)
	require.ErrorContains(t, err, "jwt")
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("POSTGRES_PORT", "not-a-number")
	_, err := Load(nil)
	require.ErrorContains(t, err, "parse env")
}

func TestDSN(t *testing.T) {
	c := &Config{DatabaseURL: "postgres://u:p@db/x"}
	require.Equal(t, "postgres://u:p@db/x", c.DSN())

	c = &Config{
		PostgresHost: "db", PostgresPort: 6543, PostgresUser: "app",
		PostgresPassword: "p@ss", PostgresDB: "inv", PostgresSSL: true,
	}
	require.Equal(t, "postgres://app:p%40ss@db:6543/inv?sslmode=require", c.DSN())
}

func TestValidate(t *testing.T) {
	c := &Config{JWTSecret: "x", Port: 0, RequestTimeout: time.Second}
	require.Error(t, c.Validate())
	c.Port = 80
	require.NoError(t, c.Validate())
	c.RequestTimeout = 0
	require.Error(t, c.Validate())
}
