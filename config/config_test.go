package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "Stirling", cfg.Institution.Name)
	assert.Equal(t, "09:00:00", cfg.Institution.OpeningTime)
	assert.Equal(t, "18:00:00", cfg.Institution.ClosingTime)
	assert.Equal(t, 6, cfg.Institution.MaxDurationHours)
	assert.Equal(t, 20, cfg.Institution.MaxComputerCapacity)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ".", cfg.Database.Dir)
	assert.Equal(t, "silent", cfg.Database.LogLevel)
	assert.Equal(t, "legacy", cfg.Matching.OverlapPolicy)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Rooms)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
institution:
  name: "  Falkirk "
  max_duration_hours: 8
database:
  dir: /var/lib/roombook
matching:
  overlap_policy: strict
rooms:
  - number: 7
    computer_capacity: 16
    printer: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Falkirk", cfg.Institution.Name)
	assert.Equal(t, 8, cfg.Institution.MaxDurationHours)
	assert.Equal(t, "/var/lib/roombook", cfg.Database.Dir)
	assert.Equal(t, "strict", cfg.Matching.OverlapPolicy)
	require.Len(t, cfg.Rooms, 1)
	assert.Equal(t, RoomConfig{Number: 7, ComputerCapacity: 16, Printer: true}, cfg.Rooms[0])
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "Unknown driver", body: "database:\n  driver: mysql\n"},
		{name: "Postgres without dsn", body: "database:\n  driver: postgres\n"},
		{name: "Unknown field", body: "institution:\n  motto: learn\n"},
		{name: "Malformed yaml", body: "institution: [\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "Stirling", cfg.Institution.Name)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}
