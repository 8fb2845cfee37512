package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gdg-garage/event-registration-api/internal/config"
	"github.com/gdg-garage/event-registration-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(&config.Config{DatabaseDriver: config.DriverSQLite, DatabasePath: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := setupTestDB(t)

	for _, idx := range []string{"idx_events_date_time", "idx_events_location"} {
		require.True(t, db.Migrator().HasIndex(&models.Event{}, idx), idx)
	}
	for _, idx := range []string{"idx_registrations_user_id", "idx_registrations_event_id", "idx_registrations_user_event"} {
		require.True(t, db.Migrator().HasIndex(&models.Registration{}, idx), idx)
	}
}

func TestMigrate_CapacityCheck(t *testing.T) {
	db := setupTestDB(t)
	at := time.Now().Add(time.Hour)

	for _, capacity := range []int{0, 1001} {
		err := db.Create(&models.Event{Title: "t", DateTime: at, Location: "l", Capacity: capacity}).Error
		require.Error(t, err, "capacity %d", capacity)
	}
	require.NoError(t, db.Create(&models.Event{Title: "t", DateTime: at, Location: "l", Capacity: 1000}).Error)
}

func TestMigrate_UniqueRegistration(t *testing.T) {
	db := setupTestDB(t)
	user := models.User{Name: "John", Email: "john@example.com"}
	event := models.Event{Title: "t", DateTime: time.Now().Add(time.Hour), Location: "l", Capacity: 5}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&event).Error)

	reg := models.Registration{UserID: user.ID, EventID: event.ID, RegisteredAt: time.Now()}
	require.NoError(t, db.Create(&reg).Error)

	dup := models.Registration{UserID: user.ID, EventID: event.ID, RegisteredAt: time.Now()}
	require.ErrorIs(t, db.Create(&dup).Error, gorm.ErrDuplicatedKey)
}

func TestMigrate_CascadeDelete(t *testing.T) {
	db := setupTestDB(t)
	user := models.User{Name: "John", Email: "john@example.com"}
	event := models.Event{Title: "t", DateTime: time.Now().Add(time.Hour), Location: "l", Capacity: 5}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&event).Error)
	require.NoError(t, db.Create(&models.Registration{UserID: user.ID, EventID: event.ID, RegisteredAt: time.Now()}).Error)

	require.NoError(t, db.Delete(&models.User{}, user.ID).Error)

	var count int64
	require.NoError(t, db.Model(&models.Registration{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestMigrate_ForeignKeysEnforced(t *testing.T) {
	db := setupTestDB(t)
	err := db.Create(&models.Registration{UserID: 42, EventID: 42, RegisteredAt: time.Now()}).Error
	require.Error(t, err)
}

func TestSeed_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()

	require.NoError(t, Seed(context.Background(), db, now))
	require.NoError(t, Seed(context.Background(), db, now))

	var users, events int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Event{}).Count(&events).Error)
	require.Equal(t, int64(len(sampleUsers)), users)
	require.Equal(t, int64(len(sampleEvents)), events)
}

func TestPostgresDSN(t *testing.T) {
	require.Equal(t,
		"postgres://u:p@db:5432/events?sslmode=disable&options=-c%20statement_timeout%3D3000",
		postgresDSN("postgres://u:p@db:5432/events?sslmode=disable", 3*time.Second))
	require.Equal(t,
		"host=db user=u options='-c statement_timeout=500'",
		postgresDSN("host=db user=u", 500*time.Millisecond))
	require.Equal(t, "host=db", postgresDSN("host=db", 0))
}

func TestSQLiteDSN(t *testing.T) {
	require.Equal(t, ":memory:?_foreign_keys=on&_busy_timeout=5000", sqliteDSN(":memory:"))
	require.Equal(t, "file:events.db?cache=shared&_foreign_keys=on&_busy_timeout=5000", sqliteDSN("file:events.db?cache=shared"))
}
