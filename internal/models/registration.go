package models

import (
	"time"
)

// Registration links one user to one event. The (user, event) pair is unique
// and rows are removed with either side.
type Registration struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_registrations_user_event;index:idx_registrations_user_id" json:"user_id"`
	EventID      uint      `gorm:"not null;uniqueIndex:idx_registrations_user_event;index:idx_registrations_event_id" json:"event_id"`
	RegisteredAt time.Time `gorm:"not null" json:"registered_at"`
	User         User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Event        Event     `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
}

// Registrant is a user as listed on an event's detail page.
type Registrant struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}

// UserRegistration is an event as listed on a user's registrations page.
type UserRegistration struct {
	EventID      uint      `json:"event_id"`
	Title        string    `json:"title"`
	DateTime     time.Time `json:"date_time"`
	Location     string    `json:"location"`
	Capacity     int       `json:"capacity"`
	RegisteredAt time.Time `json:"registered_at"`
}

// RegistrationStatus reports whether a user holds a seat for an event.
type RegistrationStatus struct {
	UserID           uint       `json:"user_id"`
	EventID          uint       `json:"event_id"`
	IsRegistered     bool       `json:"is_registered"`
	RegistrationDate *time.Time `json:"registration_date"`
}
