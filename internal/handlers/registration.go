package handlers

import (
	"context"

	"github.com/gdg-garage/event-registration-api/internal/models"
	"github.com/gdg-garage/event-registration-api/internal/service"
	"github.com/gdg-garage/event-registration-api/internal/validation"
)

type RegistrationHandler struct {
	registrations *service.RegistrationService
}

func NewRegistrationHandler(registrations *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations}
}

type RegistrationRequest struct {
	Body struct {
		UserID  int `json:"user_id,omitempty" doc:"ID of the registering user" example:"1"`
		EventID int `json:"event_id,omitempty" doc:"ID of the event" example:"1"`
	}
}

func (r *RegistrationRequest) key() validation.RegistrationKey {
	return validation.RegistrationKey{UserID: r.Body.UserID, EventID: r.Body.EventID}
}

type RegistrationResponse struct {
	Body struct {
		Message    string `json:"message"`
		UserID     int    `json:"user_id"`
		EventID    int    `json:"event_id"`
		EventTitle string `json:"event_title"`
	}
}

type CancelRegistrationResponse struct {
	Body struct {
		Message string `json:"message"`
		UserID  int    `json:"user_id"`
		EventID int    `json:"event_id"`
	}
}

type RegistrationStatusRequest struct {
	UserID  int `query:"user_id" doc:"User ID"`
	EventID int `query:"event_id" doc:"Event ID"`
}

type RegistrationStatusResponse struct {
	Body *models.RegistrationStatus
}

func (h *RegistrationHandler) HandleRegister(ctx context.Context, input *RegistrationRequest) (*RegistrationResponse, error) {
	_, event, err := h.registrations.Register(ctx, input.key())
	if err != nil {
		return nil, fail("register for event", err)
	}

	res := &RegistrationResponse{}
	res.Body.Message = "Registration successful"
	res.Body.UserID = input.Body.UserID
	res.Body.EventID = input.Body.EventID
	res.Body.EventTitle = event.Title
	return res, nil
}

func (h *RegistrationHandler) HandleCancel(ctx context.Context, input *RegistrationRequest) (*CancelRegistrationResponse, error) {
	if err := h.registrations.CancelRegistration(ctx, input.key()); err != nil {
		return nil, fail("cancel registration", err)
	}

	res := &CancelRegistrationResponse{}
	res.Body.Message = "Registration cancelled successfully"
	res.Body.UserID = input.Body.UserID
	res.Body.EventID = input.Body.EventID
	return res, nil
}

func (h *RegistrationHandler) HandleStatus(ctx context.Context, input *RegistrationStatusRequest) (*RegistrationStatusResponse, error) {
	status, err := h.registrations.GetRegistrationStatus(ctx, input.UserID, input.EventID)
	if err != nil {
		return nil, fail("get registration status", err)
	}
	return &RegistrationStatusResponse{Body: status}, nil
}
