package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"room-booking-backend/config"
	"room-booking-backend/internal/db"
	"room-booking-backend/internal/model"
)

// A helper function to create a mock database connection.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// newSqliteDB opens a migrated sqlite store file in a temporary directory.
func newSqliteDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := db.Init(&config.DatabaseConfig{
		Driver:       "sqlite",
		Dir:          t.TempDir(),
		LogLevel:     "silent",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, "Stirling")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(gormDB) })
	return gormDB
}

func sampleState(t *testing.T) *State {
	t.Helper()
	state := EmptyState("Stirling")

	jane, err := model.NewClient(1, "Jane Doe", "07345 555432", "jane@example.com")
	require.NoError(t, err)
	joe, err := model.NewClient(2, "Joe Bloggs", "(07345) 555432", "")
	require.NoError(t, err)
	state.Clients = []*model.Client{jane, joe}
	state.ClientIDCounter = 2

	catalog := model.DefaultCatalog()
	req1, err := model.NewRequirements(18, 2, civil.Date{Year: 2024, Month: 6, Day: 1}, civil.Time{Hour: 10})
	require.NoError(t, err)
	req2, err := model.NewRequirements(10, 1, civil.Date{Year: 2024, Month: 6, Day: 3}, civil.Time{Hour: 14, Minute: 30})
	require.NoError(t, err)

	b1, err := model.NewBooking(1, catalog[8], jane, req1)
	require.NoError(t, err)
	b3, err := model.NewBooking(3, catalog[9], joe, req2)
	require.NoError(t, err)
	state.Bookings[1] = b1
	state.Bookings[3] = b3
	state.RefNumCounter = 3
	return state
}

func TestGormStore_LoadEmpty(t *testing.T) {
	s := NewGormStore(newSqliteDB(t))

	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoState)
}

func TestGormStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewGormStore(newSqliteDB(t))
	state := sampleState(t)

	require.NoError(t, s.Save(ctx, state))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, state.Institution, loaded.Institution)
	assert.Equal(t, state.ClientIDCounter, loaded.ClientIDCounter)
	assert.Equal(t, state.RefNumCounter, loaded.RefNumCounter)
	assert.Equal(t, state.Clients, loaded.Clients)
	assert.Equal(t, state.Bookings, loaded.Bookings)

	// Bookings must share the loaded client instances.
	assert.Same(t, loaded.Clients[0], loaded.Bookings[1].Client())
	assert.Same(t, loaded.Clients[1], loaded.Bookings[3].Client())
}

func TestGormStore_SaveReplacesState(t *testing.T) {
	ctx := context.Background()
	s := NewGormStore(newSqliteDB(t))
	state := sampleState(t)
	require.NoError(t, s.Save(ctx, state))

	delete(state.Bookings, 1)
	require.NoError(t, state.Clients[1].SetPhone("07999 123456"))
	require.NoError(t, s.Save(ctx, state))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Bookings, 1)
	assert.Contains(t, loaded.Bookings, model.RefNum(3))
	assert.Equal(t, "07999 123456", loaded.Clients[1].Phone())
	assert.Equal(t, model.RefNum(3), loaded.RefNumCounter, "counters survive cancellation")
}

func TestGormStore_SchemaMismatch(t *testing.T) {
	ctx := context.Background()
	gormDB := newSqliteDB(t)
	s := NewGormStore(gormDB)
	require.NoError(t, s.Save(ctx, EmptyState("Stirling")))

	require.NoError(t, gormDB.Model(&db.MetaRecord{}).Where("id = ?", db.MetaID).
		Update("schema_version", db.SchemaVersion+1).Error)

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	assert.NotErrorIs(t, err, ErrNoState)
}

func TestGormStore_CorruptRows(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(t *testing.T, gormDB *gorm.DB)
	}{
		{
			name: "Booking for unknown client",
			mutate: func(t *testing.T, gormDB *gorm.DB) {
				require.NoError(t, gormDB.Model(&db.BookingRecord{}).Where("ref_num = ?", 1).
					Update("client_id", 42).Error)
			},
		},
		{
			name: "Unparseable booking date",
			mutate: func(t *testing.T, gormDB *gorm.DB) {
				require.NoError(t, gormDB.Model(&db.BookingRecord{}).Where("ref_num = ?", 1).
					Update("date", "01/06/2024").Error)
			},
		},
		{
			name: "Duration out of range",
			mutate: func(t *testing.T, gormDB *gorm.DB) {
				require.NoError(t, gormDB.Model(&db.BookingRecord{}).Where("ref_num = ?", 1).
					Update("duration_hours", 0).Error)
			},
		},
		{
			name: "Header row missing",
			mutate: func(t *testing.T, gormDB *gorm.DB) {
				require.NoError(t, gormDB.Where("1 = 1").Delete(&db.MetaRecord{}).Error)
			},
		},
		{
			name: "Client counter behind issued ids",
			mutate: func(t *testing.T, gormDB *gorm.DB) {
				require.NoError(t, gormDB.Model(&db.MetaRecord{}).Where("id = ?", db.MetaID).
					Update("client_id_counter", 1).Error)
			},
		},
		{
			name: "Reference counter behind issued numbers",
			mutate: func(t *testing.T, gormDB *gorm.DB) {
				require.NoError(t, gormDB.Model(&db.MetaRecord{}).Where("id = ?", db.MetaID).
					Update("ref_num_counter", 1).Error)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			gormDB := newSqliteDB(t)
			s := NewGormStore(gormDB)
			require.NoError(t, s.Save(ctx, sampleState(t)))

			tc.mutate(t, gormDB)

			_, err := s.Load(ctx)
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestGormStore_LoadAfterClearedHeaderOnEmptyStore(t *testing.T) {
	ctx := context.Background()
	gormDB := newSqliteDB(t)
	s := NewGormStore(gormDB)
	require.NoError(t, s.Save(ctx, EmptyState("Stirling")))
	require.NoError(t, gormDB.Where("1 = 1").Delete(&db.MetaRecord{}).Error)

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, ErrNoState)
}

func TestGormStore_LoadQueryError(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "ledger_meta"`).
		WillReturnError(errors.New("connection reset by peer"))

	_, err := s.Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoState)
	assert.NotErrorIs(t, err, ErrCorrupt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_SaveRollsBackOnFailure(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "bookings" WHERE 1 = 1`)).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err := s.Save(context.Background(), sampleState(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to clear bookings")
	assert.NoError(t, mock.ExpectationsWereMet())
}
