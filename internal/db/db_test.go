package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"room-booking-backend/config"
)

func testConfig(t *testing.T) *config.DatabaseConfig {
	t.Helper()
	return &config.DatabaseConfig{
		Driver:       "sqlite",
		Dir:          t.TempDir(),
		LogLevel:     "silent",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "stirling_bookings.dat", FileName("Stirling"))
	assert.Equal(t, "forth valley_bookings.dat", FileName(" Forth Valley "))
}

func TestInit_CreatesFile(t *testing.T) {
	cfg := testConfig(t)
	path := Path(cfg, "Stirling")
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))

	gormDB, err := Init(cfg, "Stirling")
	require.NoError(t, err)
	defer Close(gormDB)

	_, err = os.Stat(path)
	assert.NoError(t, err)
	assert.True(t, gormDB.Migrator().HasTable(&MetaRecord{}))
	assert.True(t, gormDB.Migrator().HasTable(&ClientRecord{}))
	assert.True(t, gormDB.Migrator().HasTable(&BookingRecord{}))
}

func TestInit_CorruptFile(t *testing.T) {
	cfg := testConfig(t)
	garbage := make([]byte, 8192)
	for i := range garbage {
		garbage[i] = byte('x')
	}
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Dir, FileName("Stirling")), garbage, 0o644))

	_, err := Init(cfg, "Stirling")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.True(t, IsCorrupt(err))
}

func TestIsCorrupt(t *testing.T) {
	assert.False(t, IsCorrupt(os.ErrNotExist))
	assert.True(t, IsCorrupt(ErrCorrupt))
}
