package domain

import (
	"context"
	"errors"
	"time"
)

type CreateMemberRequest struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	DateOfBirth time.Time
}

type UpdateMemberRequest struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	DateOfBirth time.Time
}

type Service interface {
	Create(context.Context, CreateMemberRequest) (Member, error)
	Update(context.Context, UpdateMemberRequest) (Member, error)
	GetByID(ctx context.Context, id string) (Member, error)
	List(ctx context.Context) ([]Member, error)
	SoftDelete(ctx context.Context, id string) error
}

var (
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidDateOfBirth = errors.New("invalid_date_of_birth")
	ErrAgeOutOfRange      = errors.New("age_out_of_range")
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
)
