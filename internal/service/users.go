package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gdg-garage/event-registration-api/internal/apperrors"
	"github.com/gdg-garage/event-registration-api/internal/models"
	"github.com/gdg-garage/event-registration-api/internal/validation"
)

var errUserNotFound = apperrors.NotFound("User not found")

type UserService struct {
	base
}

func NewUserService(db *gorm.DB, opts ...Option) *UserService {
	return &UserService{base: newBase(db, opts...)}
}

// CreateUser stores a new user. A duplicate email is detected by the unique
// index on insert rather than by a prior lookup.
func (s *UserService) CreateUser(ctx context.Context, in validation.NewUser) (*models.User, error) {
	in, err := validation.User(in)
	if err != nil {
		return nil, err
	}

	user := models.User{Name: in.Name, Email: in.Email}
	err = s.guarded(ctx, nil, func(tx *gorm.DB) error {
		return tx.Create(&user).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apperrors.Conflict("User with this email already exists", err)
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// GetUser fails with NotFound when no user has the id.
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.read(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// ListUsers returns every user, newest first.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	if err := s.read(ctx).Order("created_at DESC, id DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetUserRegistrations lists the events a user holds a seat for, soonest first.
func (s *UserService) GetUserRegistrations(ctx context.Context, id uint) ([]models.UserRegistration, error) {
	if _, err := s.GetUser(ctx, id); err != nil {
		return nil, err
	}

	regs := make([]models.UserRegistration, 0)
	err := s.read(ctx).
		Table("registrations AS r").
		Select("e.id AS event_id, e.title, e.date_time, e.location, e.capacity, r.registered_at").
		Joins("JOIN events e ON e.id = r.event_id").
		Where("r.user_id = ?", id).
		Order("e.date_time ASC, e.id ASC").
		Scan(&regs).Error
	if err != nil {
		return nil, fmt.Errorf("list user registrations: %w", err)
	}
	return regs, nil
}
