package handlers

import (
	"context"

	"github.com/gdg-garage/event-registration-api/internal/models"
	"github.com/gdg-garage/event-registration-api/internal/service"
	"github.com/gdg-garage/event-registration-api/internal/validation"
)

type EventHandler struct {
	events *service.EventService
}

func NewEventHandler(events *service.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// CreateEventRequest leaves every field optional in the schema so that
// missing fields are reported by the validation layer with its own messages.
type CreateEventRequest struct {
	Body struct {
		Title    string `json:"title,omitempty" doc:"Event title" example:"Tech Conference 2026"`
		DateTime string `json:"date_time,omitempty" doc:"Start time, ISO 8601; UTC when no offset is given" example:"2026-12-15T09:00:00Z"`
		Location string `json:"location,omitempty" doc:"Venue" example:"San Francisco, CA"`
		Capacity *int   `json:"capacity,omitempty" doc:"Number of seats, 1 to 1000" example:"500"`
	}
}

type CreateEventResponse struct {
	Body struct {
		Message string `json:"message"`
		EventID uint   `json:"event_id"`
	}
}

type EventRequest struct {
	ID uint `path:"id" doc:"Event ID"`
}

type EventDetailsResponse struct {
	Body *service.EventDetails
}

type ListEventsResponse struct {
	Body struct {
		Count  int            `json:"count"`
		Events []models.Event `json:"events"`
	}
}

type EventStatsResponse struct {
	Body models.EventStats
}

func (h *EventHandler) HandleCreate(ctx context.Context, input *CreateEventRequest) (*CreateEventResponse, error) {
	id, err := h.events.CreateEvent(ctx, validation.NewEvent{
		Title:    input.Body.Title,
		DateTime: input.Body.DateTime,
		Location: input.Body.Location,
		Capacity: input.Body.Capacity,
	})
	if err != nil {
		return nil, fail("create event", err)
	}

	res := &CreateEventResponse{}
	res.Body.Message = "Event created successfully"
	res.Body.EventID = id
	return res, nil
}

func (h *EventHandler) HandleGet(ctx context.Context, input *EventRequest) (*EventDetailsResponse, error) {
	details, err := h.events.GetEventDetails(ctx, input.ID)
	if err != nil {
		return nil, fail("get event details", err)
	}
	return &EventDetailsResponse{Body: details}, nil
}

func (h *EventHandler) HandleListUpcoming(ctx context.Context, _ *struct{}) (*ListEventsResponse, error) {
	events, err := h.events.ListUpcomingEvents(ctx)
	if err != nil {
		return nil, fail("list upcoming events", err)
	}

	res := &ListEventsResponse{}
	res.Body.Count = len(events)
	res.Body.Events = events
	return res, nil
}

func (h *EventHandler) HandleStats(ctx context.Context, input *EventRequest) (*EventStatsResponse, error) {
	stats, err := h.events.GetEventStats(ctx, input.ID)
	if err != nil {
		return nil, fail("get event stats", err)
	}
	return &EventStatsResponse{Body: *stats}, nil
}
