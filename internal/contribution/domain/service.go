package domain

import (
	"context"
	"errors"
	"time"
)

type SubmitContributionRequest struct {
	MemberID         string
	Amount           float64
	Type             ContributionType
	ContributionDate *time.Time
}

// Service owns the contribution lifecycle: a submitted contribution is
// inserted pending, run through the payment step, and finishes success or
// failed. Every state-changing write invalidates the member's derived caches.
type Service interface {
	Submit(context.Context, SubmitContributionRequest) (Contribution, error)
	GetByID(ctx context.Context, id string) (Contribution, error)
	ListByMember(ctx context.Context, memberID string) ([]Contribution, error)
	UpdateStatus(ctx context.Context, id string, status ContributionStatus) error
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrInvalidType         = errors.New("invalid_type")
	ErrInvalidID           = errors.New("invalid_id")
	ErrMemberNotFound      = errors.New("member_not_found")
	ErrNotFound            = errors.New("not_found")
	ErrDuplicateMonthly    = errors.New("duplicate_monthly_contribution")
	ErrVoluntaryOutOfRange = errors.New("voluntary_amount_out_of_range")
	ErrPaymentFailed       = errors.New("payment_failed")
)
