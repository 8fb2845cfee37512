package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	require.Equal(t, KindNotFound, KindOf(NotFound("User not found")))
	require.Equal(t, KindConflict, KindOf(fmt.Errorf("register: %w", Conflict("dup", nil))))
	require.Equal(t, KindInternal, KindOf(errors.New("boom")))
	require.Equal(t, KindInternal, KindOf(nil))
}

func TestMessage(t *testing.T) {
	require.Equal(t, "Event is full", Message(BadRequest("Event is full")))
	require.Empty(t, Message(errors.New("driver: connection refused")))
}

func TestConflictUnwrap(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed")
	err := Conflict("User with this email already exists", cause)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "Conflict")
}

func TestKindString(t *testing.T) {
	require.Equal(t, "Validation Error", KindValidation.String())
	require.Equal(t, "Bad Request", KindBadRequest.String())
	require.Equal(t, "Internal Server Error", KindInternal.String())
}
