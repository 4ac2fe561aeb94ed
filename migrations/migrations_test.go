package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFS_ContainsAnnotatedMigrations(t *testing.T) {
	names, err := fs.Glob(FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, n := range names {
		b, err := fs.ReadFile(FS, n)
		require.NoError(t, err)
		body := string(b)
		require.Contains(t, body, "-- +goose Up", n)
		require.Contains(t, body, "-- +goose Down", n)
	}
}

func TestInit_OneActiveKitIndex(t *testing.T) {
	b, err := fs.ReadFile(FS, "00001_init.sql")
	require.NoError(t, err)
	body := string(b)
	require.True(t, strings.Contains(body, "UNIQUE (owned_player_id, version)"))
	require.True(t, strings.Contains(body, "ON player_kits (owned_player_id) WHERE is_active"))
}
