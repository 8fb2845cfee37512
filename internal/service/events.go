package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/gdg-garage/event-registration-api/internal/apperrors"
	"github.com/gdg-garage/event-registration-api/internal/models"
	"github.com/gdg-garage/event-registration-api/internal/validation"
)

var errEventNotFound = apperrors.NotFound("Event not found")

type EventService struct {
	base
}

func NewEventService(db *gorm.DB, opts ...Option) *EventService {
	return &EventService{base: newBase(db, opts...)}
}

// EventDetails is an event together with everyone registered for it.
type EventDetails struct {
	models.Event
	Registrations []models.Registrant `json:"registrations"`
}

// CreateEvent validates the payload and stores the event. Nothing is written
// unless both validation tiers pass.
func (s *EventService) CreateEvent(ctx context.Context, in validation.NewEvent) (uint, error) {
	event, err := validation.Event(in, s.clock())
	if err != nil {
		return 0, err
	}

	err = s.guarded(ctx, nil, func(tx *gorm.DB) error {
		return tx.Create(&event).Error
	})
	if err != nil {
		return 0, fmt.Errorf("create event: %w", err)
	}
	return event.ID, nil
}

// GetEventDetails returns the event and its registrants in registration
// order, earliest first.
func (s *EventService) GetEventDetails(ctx context.Context, id uint) (*EventDetails, error) {
	event, err := findEvent(s.read(ctx), id)
	if err != nil {
		return nil, err
	}

	registrants := make([]models.Registrant, 0)
	err = s.read(ctx).
		Table("registrations AS r").
		Select("u.id, u.name, u.email, r.registered_at").
		Joins("JOIN users u ON u.id = r.user_id").
		Where("r.event_id = ?", id).
		Order("r.registered_at ASC, r.id ASC").
		Scan(&registrants).Error
	if err != nil {
		return nil, fmt.Errorf("list event registrants: %w", err)
	}
	return &EventDetails{Event: *event, Registrations: registrants}, nil
}

// ListUpcomingEvents returns events strictly after now, ordered by date and
// then by location.
func (s *EventService) ListUpcomingEvents(ctx context.Context) ([]models.Event, error) {
	events := make([]models.Event, 0)
	err := s.read(ctx).
		Where("date_time > ?", s.clock()).
		Order("date_time ASC, location ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	SortUpcoming(events)
	return events, nil
}

// SortUpcoming orders events by date and breaks ties on location using
// English collation, so the result does not depend on the store's collation.
func SortUpcoming(events []models.Event) {
	col := collate.New(language.English)
	slices.SortStableFunc(events, func(a, b models.Event) int {
		if c := a.DateTime.Compare(b.DateTime); c != 0 {
			return c
		}
		return col.CompareString(a.Location, b.Location)
	})
}

// GetEventStats reports how many seats of the event are taken.
func (s *EventService) GetEventStats(ctx context.Context, id uint) (*models.EventStats, error) {
	db := s.read(ctx)
	event, err := findEvent(db, id)
	if err != nil {
		return nil, err
	}

	count, err := countRegistrations(db, id)
	if err != nil {
		return nil, err
	}
	stats := models.NewEventStats(*event, count)
	return &stats, nil
}

func findEvent(db *gorm.DB, id uint) (*models.Event, error) {
	var event models.Event
	err := db.First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &event, nil
}

func countRegistrations(db *gorm.DB, eventID uint) (int, error) {
	var count int64
	if err := db.Model(&models.Registration{}).Where("event_id = ?", eventID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return int(count), nil
}
