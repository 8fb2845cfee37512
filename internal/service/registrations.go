package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gdg-garage/event-registration-api/internal/apperrors"
	"github.com/gdg-garage/event-registration-api/internal/models"
	"github.com/gdg-garage/event-registration-api/internal/notifier"
	"github.com/gdg-garage/event-registration-api/internal/validation"
)

var (
	errEventInPast       = apperrors.BadRequest("Cannot register for past events")
	errEventFull         = apperrors.BadRequest("Event is full")
	errNotRegistered     = apperrors.NotFound("User is not registered for this event")
	errStatusKeyRequired = apperrors.BadRequest("Both user_id and event_id are required")
)

const (
	msgAlreadyRegistered = "User is already registered for this event"
	notifyTimeout        = 5 * time.Second
)

type RegistrationService struct {
	base
	notifier notifier.Notifier
}

func NewRegistrationService(db *gorm.DB, n notifier.Notifier, opts ...Option) *RegistrationService {
	if n == nil {
		n = notifier.Nop{}
	}
	return &RegistrationService{base: newBase(db, opts...), notifier: n}
}

// Register gives the user a seat on the event. The checks run in order
// inside one transaction: user exists, event exists, event is upcoming, no
// existing registration, a seat is free.
//
// The event row is read with FOR UPDATE, so on Postgres concurrent
// registrations for the same event queue behind each other and the seat
// count cannot be overshot. SQLite ignores the lock clause; there the pool
// holds a single connection and transactions never interleave. The unique
// (user_id, event_id) index still rejects a duplicate that slips past the
// read.
func (s *RegistrationService) Register(ctx context.Context, key validation.RegistrationKey) (*models.Registration, *models.Event, error) {
	if err := validation.Registration(key); err != nil {
		return nil, nil, err
	}
	userID, eventID := uint(key.UserID), uint(key.EventID)

	var (
		user  models.User
		event models.Event
		reg   models.Registration
	)
	checks := []precondition{
		userExists(userID, &user),
		func(tx *gorm.DB) error {
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&event, eventID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errEventNotFound
			}
			return err
		},
		func(*gorm.DB) error {
			if !event.DateTime.After(s.clock()) {
				return errEventInPast
			}
			return nil
		},
		func(tx *gorm.DB) error {
			registered, err := isRegistered(tx, userID, eventID)
			if err != nil {
				return err
			}
			if registered {
				return apperrors.Conflict(msgAlreadyRegistered, nil)
			}
			return nil
		},
		func(tx *gorm.DB) error {
			count, err := countRegistrations(tx, eventID)
			if err != nil {
				return err
			}
			if count >= event.Capacity {
				return errEventFull
			}
			return nil
		},
	}

	err := s.guarded(ctx, checks, func(tx *gorm.DB) error {
		reg = models.Registration{UserID: userID, EventID: eventID, RegisteredAt: s.clock()}
		return tx.Create(&reg).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, nil, apperrors.Conflict(msgAlreadyRegistered, err)
	}
	if err != nil {
		return nil, nil, wrapInternal("register", err)
	}

	s.notify(ctx, notifier.Notice{Action: notifier.ActionRegistered, User: user, Event: event, At: reg.RegisteredAt})
	return &reg, &event, nil
}

// CancelRegistration removes the user's seat. Past events may be cancelled.
func (s *RegistrationService) CancelRegistration(ctx context.Context, key validation.RegistrationKey) error {
	if err := validation.Registration(key); err != nil {
		return err
	}
	userID, eventID := uint(key.UserID), uint(key.EventID)

	var (
		user  models.User
		event models.Event
	)
	checks := []precondition{
		userExists(userID, &user),
		func(tx *gorm.DB) error {
			found, err := findEvent(tx, eventID)
			if err != nil {
				return err
			}
			event = *found
			return nil
		},
		func(tx *gorm.DB) error {
			registered, err := isRegistered(tx, userID, eventID)
			if err != nil {
				return err
			}
			if !registered {
				return errNotRegistered
			}
			return nil
		},
	}

	err := s.guarded(ctx, checks, func(tx *gorm.DB) error {
		return tx.Where("user_id = ? AND event_id = ?", userID, eventID).Delete(&models.Registration{}).Error
	})
	if err != nil {
		return wrapInternal("cancel registration", err)
	}

	s.notify(ctx, notifier.Notice{Action: notifier.ActionCancelled, User: user, Event: event, At: s.clock()})
	return nil
}

// GetRegistrationStatus reports whether the user is registered and since when.
func (s *RegistrationService) GetRegistrationStatus(ctx context.Context, userID, eventID int) (*models.RegistrationStatus, error) {
	if userID == 0 || eventID == 0 {
		return nil, errStatusKeyRequired
	}

	status := &models.RegistrationStatus{UserID: uint(userID), EventID: uint(eventID)}
	if userID < 0 || eventID < 0 {
		return status, nil
	}

	var reg models.Registration
	err := s.read(ctx).Where("user_id = ? AND event_id = ?", userID, eventID).Take(&reg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return status, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get registration status: %w", err)
	}
	status.IsRegistered = true
	status.RegistrationDate = &reg.RegisteredAt
	return status, nil
}

// notify runs after commit, detached from the request and bounded by
// notifyTimeout.
func (s *RegistrationService) notify(ctx context.Context, n notifier.Notice) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := s.notifier.Notify(ctx, n); err != nil {
		log.Printf("registrations: notify %s: %v", n.Action, err)
	}
}

func userExists(id uint, into *models.User) precondition {
	return func(tx *gorm.DB) error {
		err := tx.First(into, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errUserNotFound
		}
		return err
	}
}

func isRegistered(tx *gorm.DB, userID, eventID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.Registration{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check registration: %w", err)
	}
	return count > 0, nil
}

// wrapInternal passes classified errors through and annotates the rest.
func wrapInternal(op string, err error) error {
	if apperrors.KindOf(err) != apperrors.KindInternal {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
