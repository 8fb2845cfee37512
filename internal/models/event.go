package models

import "time"

const (
	MinCapacity = 1
	MaxCapacity = 1000
)

// Event is a dated activity with a fixed number of seats. Capacity never
// changes after creation.
type Event struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	DateTime  time.Time `gorm:"column:date_time;not null;index:idx_events_date_time" json:"date_time"`
	Location  string    `gorm:"size:255;not null;index:idx_events_location" json:"location"`
	Capacity  int       `gorm:"not null;check:chk_events_capacity,capacity BETWEEN 1 AND 1000" json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
}

// EventStats is the utilization view of an event. It is computed on read.
type EventStats struct {
	EventID            uint   `json:"event_id"`
	EventTitle         string `json:"event_title"`
	TotalRegistrations int    `json:"total_registrations"`
	RemainingCapacity  int    `json:"remaining_capacity"`
	PercentageUsed     int    `json:"percentage_used"`
	Capacity           int    `json:"capacity"`
}

// NewEventStats derives utilization figures from a registration count.
// PercentageUsed rounds half up.
func NewEventStats(event Event, registrations int) EventStats {
	return EventStats{
		EventID:            event.ID,
		EventTitle:         event.Title,
		TotalRegistrations: registrations,
		RemainingCapacity:  event.Capacity - registrations,
		PercentageUsed:     (200*registrations + event.Capacity) / (2 * event.Capacity),
		Capacity:           event.Capacity,
	}
}
