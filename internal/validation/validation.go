// Package validation holds the input rules for users, events and
// registrations. Structural checks run first and report every bad field;
// business checks on events run only once the input is well formed.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/gdg-garage/event-registration-api/internal/apperrors"
	"github.com/gdg-garage/event-registration-api/internal/models"
)

const invalidInput = "Invalid input data"

var fieldMessages = map[string]string{
	"name":      "Name is required and must be between 1 and 255 characters",
	"email":     "Valid email is required",
	"title":     "Title is required and must be between 1 and 255 characters",
	"date_time": "Date and time must be in ISO format",
	"location":  "Location is required and must be between 1 and 255 characters",
	"capacity":  "Capacity must be a positive integer between 1 and 1000",
	"user_id":   "Valid user ID is required",
	"event_id":  "Valid event ID is required",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("iso8601", func(fl validator.FieldLevel) bool {
		_, err := ParseDateTime(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("capacity", func(fl validator.FieldLevel) bool {
		return CapacityInRange(int(fl.Field().Int()))
	})
	return v
}

// NewUser is the payload for creating a user.
type NewUser struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,max=255,email"`
}

// NewEvent is the payload for creating an event. DateTime stays a string so
// that malformed timestamps are reported like any other bad field.
type NewEvent struct {
	Title    string `json:"title" validate:"required,max=255"`
	DateTime string `json:"date_time" validate:"required,iso8601"`
	Location string `json:"location" validate:"required,max=255"`
	Capacity *int   `json:"capacity" validate:"required,capacity"`
}

// RegistrationKey identifies a (user, event) pair.
type RegistrationKey struct {
	UserID  int `json:"user_id" validate:"gte=1"`
	EventID int `json:"event_id" validate:"gte=1"`
}

// User normalizes and validates a user payload.
func User(in NewUser) (NewUser, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	if err := check(in); err != nil {
		return NewUser{}, err
	}
	return in, nil
}

// Event validates an event payload against both tiers and returns the
// event ready to be stored.
func Event(in NewEvent, now time.Time) (models.Event, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Location = strings.TrimSpace(in.Location)
	if err := check(in); err != nil {
		return models.Event{}, err
	}

	at, _ := ParseDateTime(in.DateTime)
	if err := EventSchedule(*in.Capacity, at, now); err != nil {
		return models.Event{}, err
	}
	return models.Event{
		Title:    in.Title,
		DateTime: at,
		Location: in.Location,
		Capacity: *in.Capacity,
	}, nil
}

// Registration validates a (user, event) pair.
func Registration(key RegistrationKey) error {
	return check(key)
}

// EventSchedule applies the business rules of a new event: a bounded
// capacity and a date strictly after now.
func EventSchedule(capacity int, at, now time.Time) error {
	if !CapacityInRange(capacity) {
		return apperrors.Validation(fieldMessages["capacity"])
	}
	if !at.After(now) {
		return apperrors.Validation("Event date must be in the future")
	}
	return nil
}

// CapacityInRange reports whether capacity is within the allowed seat range.
func CapacityInRange(capacity int) bool {
	return capacity >= models.MinCapacity && capacity <= models.MaxCapacity
}

// NormalizeEmail canonicalizes an address before it is validated and stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func check(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	details := make([]apperrors.FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := fieldMessages[fe.Field()]
		if !ok {
			msg = fe.Error()
		}
		details = append(details, apperrors.FieldError{Field: fe.Field(), Message: msg})
	}
	return apperrors.Validation(invalidInput, details...)
}
