package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gdg-garage/event-registration-api/internal/models"
)

var sampleUsers = []models.User{
	{Name: "John Doe", Email: "john@example.com"},
	{Name: "Jane Smith", Email: "jane@example.com"},
	{Name: "Bob Johnson", Email: "bob@example.com"},
	{Name: "Alice Brown", Email: "alice@example.com"},
}

type sampleEvent struct {
	title    string
	daysOut  int
	location string
	capacity int
}

var sampleEvents = []sampleEvent{
	{title: "Tech Conference", daysOut: 7, location: "San Francisco", capacity: 500},
	{title: "Music Festival", daysOut: 14, location: "Los Angeles", capacity: 1000},
	{title: "Startup Meetup", daysOut: 3, location: "New York", capacity: 200},
	{title: "Workshop: Web Development", daysOut: 1, location: "Chicago", capacity: 50},
}

// Seed inserts sample users and upcoming events. Running it again leaves
// existing rows alone: users are matched by email, events by title.
func Seed(ctx context.Context, db *gorm.DB, now time.Time) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range sampleUsers {
			user := u
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&user).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", u.Email, err)
			}
		}

		for _, e := range sampleEvents {
			event := models.Event{
				Title:    e.title,
				DateTime: now.UTC().Add(time.Duration(e.daysOut) * 24 * time.Hour),
				Location: e.location,
				Capacity: e.capacity,
			}
			if err := tx.Where(models.Event{Title: e.title}).FirstOrCreate(&event).Error; err != nil {
				return fmt.Errorf("seed event %q: %w", e.title, err)
			}
		}

		log.Printf("Seeded %d users and %d events", len(sampleUsers), len(sampleEvents))
		return nil
	})
}
