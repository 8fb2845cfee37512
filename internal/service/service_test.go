package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gdg-garage/event-registration-api/internal/apperrors"
	"github.com/gdg-garage/event-registration-api/internal/config"
	"github.com/gdg-garage/event-registration-api/internal/database"
	"github.com/gdg-garage/event-registration-api/internal/models"
	"github.com/gdg-garage/event-registration-api/internal/notifier"
	"github.com/gdg-garage/event-registration-api/internal/validation"
)

type recordingNotifier struct {
	mu      sync.Mutex
	notices []notifier.Notice
	err     error
	hook    func(ctx context.Context)
}

func (r *recordingNotifier) Notify(ctx context.Context, n notifier.Notice) error {
	if r.hook != nil {
		r.hook(ctx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
	return r.err
}

type fixture struct {
	db            *gorm.DB
	now           time.Time
	users         *UserService
	events        *EventService
	registrations *RegistrationService
	notifier      *recordingNotifier
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open(&config.Config{DatabaseDriver: config.DriverSQLite, DatabasePath: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	f := &fixture{
		db:       db,
		now:      time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC),
		notifier: &recordingNotifier{},
	}
	clock := WithClock(func() time.Time { return f.now })
	f.users = NewUserService(db, clock)
	f.events = NewEventService(db, clock)
	f.registrations = NewRegistrationService(db, f.notifier, clock)
	return f
}

func (f *fixture) createUser(t *testing.T, name string) *models.User {
	t.Helper()
	user, err := f.users.CreateUser(context.Background(), validation.NewUser{
		Name:  name,
		Email: fmt.Sprintf("%s@example.com", name),
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) createEvent(t *testing.T, title, location string, in time.Duration, capacity int) uint {
	t.Helper()
	id, err := f.events.CreateEvent(context.Background(), validation.NewEvent{
		Title:    title,
		DateTime: f.now.Add(in).Format(time.RFC3339),
		Location: location,
		Capacity: &capacity,
	})
	require.NoError(t, err)
	return id
}

// insertEvent bypasses validation so tests can place events in the past.
func (f *fixture) insertEvent(t *testing.T, at time.Time, capacity int) uint {
	t.Helper()
	event := models.Event{Title: "Archived", DateTime: at.UTC(), Location: "Nowhere", Capacity: capacity}
	require.NoError(t, f.db.Create(&event).Error)
	return event.ID
}

func key(userID, eventID uint) validation.RegistrationKey {
	return validation.RegistrationKey{UserID: int(userID), EventID: int(eventID)}
}

func requireKind(t *testing.T, err error, kind apperrors.Kind, msg string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, apperrors.KindOf(err), "error: %v", err)
	if msg != "" {
		require.Equal(t, msg, apperrors.Message(err))
	}
}

func registrationCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Registration{}).Count(&n).Error)
	return n
}
