package handlers

import (
	"context"

	"github.com/gdg-garage/event-registration-api/internal/models"
	"github.com/gdg-garage/event-registration-api/internal/service"
	"github.com/gdg-garage/event-registration-api/internal/validation"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type CreateUserRequest struct {
	Body struct {
		Name  string `json:"name,omitempty" doc:"Full name" example:"John Doe"`
		Email string `json:"email,omitempty" doc:"Email address, unique across users" example:"john.doe@example.com"`
	}
}

type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CreateUserResponse struct {
	Body struct {
		Message string      `json:"message"`
		User    UserSummary `json:"user"`
	}
}

type UserRequest struct {
	ID uint `path:"id" doc:"User ID"`
}

type UserResponse struct {
	Body *models.User
}

type ListUsersResponse struct {
	Body struct {
		Count int           `json:"count"`
		Users []models.User `json:"users"`
	}
}

type UserRegistrationsResponse struct {
	Body struct {
		UserID        uint                      `json:"user_id"`
		Registrations []models.UserRegistration `json:"registrations"`
	}
}

func (h *UserHandler) HandleCreate(ctx context.Context, input *CreateUserRequest) (*CreateUserResponse, error) {
	user, err := h.users.CreateUser(ctx, validation.NewUser{Name: input.Body.Name, Email: input.Body.Email})
	if err != nil {
		return nil, fail("create user", err)
	}

	res := &CreateUserResponse{}
	res.Body.Message = "User created successfully"
	res.Body.User = UserSummary{ID: user.ID, Name: user.Name, Email: user.Email}
	return res, nil
}

func (h *UserHandler) HandleGet(ctx context.Context, input *UserRequest) (*UserResponse, error) {
	user, err := h.users.GetUser(ctx, input.ID)
	if err != nil {
		return nil, fail("get user details", err)
	}
	return &UserResponse{Body: user}, nil
}

func (h *UserHandler) HandleList(ctx context.Context, _ *struct{}) (*ListUsersResponse, error) {
	users, err := h.users.ListUsers(ctx)
	if err != nil {
		return nil, fail("list users", err)
	}

	res := &ListUsersResponse{}
	res.Body.Count = len(users)
	res.Body.Users = users
	return res, nil
}

func (h *UserHandler) HandleRegistrations(ctx context.Context, input *UserRequest) (*UserRegistrationsResponse, error) {
	registrations, err := h.users.GetUserRegistrations(ctx, input.ID)
	if err != nil {
		return nil, fail("get user registrations", err)
	}

	res := &UserRegistrationsResponse{}
	res.Body.UserID = input.ID
	res.Body.Registrations = registrations
	return res, nil
}
