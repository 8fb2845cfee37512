package service

import (
	"bytes"
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gdg-garage/event-registration-api/internal/apperrors"
	"github.com/gdg-garage/event-registration-api/internal/validation"
)

func TestCreateUser_RoundTrip(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created, err := f.users.CreateUser(ctx, validation.NewUser{Name: " John Doe ", Email: "John@Example.com"})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := f.users.GetUser(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "John Doe", got.Name)
	require.Equal(t, "john@example.com", got.Email)
	require.False(t, got.CreatedAt.IsZero())
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.users.CreateUser(ctx, validation.NewUser{Name: "John", Email: "john@example.com"})
	require.NoError(t, err)

	_, err = f.users.CreateUser(ctx, validation.NewUser{Name: "Johnny", Email: "  JOHN@example.COM"})
	requireKind(t, err, apperrors.KindConflict, "User with this email already exists")

	users, err := f.users.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestCreateUser_Invalid(t *testing.T) {
	f := setup(t)

	_, err := f.users.CreateUser(context.Background(), validation.NewUser{Name: "", Email: "nope"})
	requireKind(t, err, apperrors.KindValidation, "Invalid input data")

	users, err := f.users.ListUsers(context.Background())
	require.NoError(t, err)
	require.Empty(t, users)
}

func TestGetUser_NotFound(t *testing.T) {
	f := setup(t)
	_, err := f.users.GetUser(context.Background(), 99)
	requireKind(t, err, apperrors.KindNotFound, "User not found")
}

func TestListUsers_NewestFirst(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	first := f.createUser(t, "first")
	second := f.createUser(t, "second")
	third := f.createUser(t, "third")

	users, err := f.users.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	require.Equal(t, []uint{third.ID, second.ID, first.ID}, []uint{users[0].ID, users[1].ID, users[2].ID})
}

func TestGetUserRegistrations(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	user := f.createUser(t, "alice")
	later := f.createEvent(t, "Music Festival", "Los Angeles", 14*24*time.Hour, 1000)
	sooner := f.createEvent(t, "Workshop", "Chicago", 24*time.Hour, 50)
	f.createEvent(t, "Unrelated", "Boston", 48*time.Hour, 10)

	_, _, err := f.registrations.Register(ctx, key(user.ID, later))
	require.NoError(t, err)
	_, _, err = f.registrations.Register(ctx, key(user.ID, sooner))
	require.NoError(t, err)

	regs, err := f.users.GetUserRegistrations(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, regs, 2)
	require.Equal(t, sooner, regs[0].EventID)
	require.Equal(t, "Workshop", regs[0].Title)
	require.Equal(t, "Chicago", regs[0].Location)
	require.Equal(t, 50, regs[0].Capacity)
	require.True(t, f.now.Add(24*time.Hour).Equal(regs[0].DateTime))
	require.Equal(t, later, regs[1].EventID)
	require.False(t, regs[1].RegisteredAt.IsZero())
}

func TestGetUserRegistrations_Empty(t *testing.T) {
	f := setup(t)
	user := f.createUser(t, "bob")

	regs, err := f.users.GetUserRegistrations(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, regs)
	require.Empty(t, regs)

	_, err = f.users.GetUserRegistrations(context.Background(), user.ID+1)
	requireKind(t, err, apperrors.KindNotFound, "User not found")
}

func TestCreateUser_LogsWithoutUserData(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	f := setup(t)
	ctx := context.Background()
	_, err := f.users.CreateUser(ctx, validation.NewUser{Name: "Alice Secret", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = f.users.CreateUser(ctx, validation.NewUser{Name: "Alice Secret", Email: "alice@example.com"})
	requireKind(t, err, apperrors.KindConflict, "")
	_, err = f.users.GetUser(ctx, 999)
	requireKind(t, err, apperrors.KindNotFound, "")

	out := buf.String()
	require.NotContains(t, out, "alice@example.com")
	require.NotContains(t, out, "Alice Secret")
	require.NotContains(t, out, "record not found")
}
