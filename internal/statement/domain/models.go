package domain

import (
	"context"
	"errors"
	"time"

	contributiondomain "github.com/smallbiznis/pensio/internal/contribution/domain"
)

// Total is the cached aggregate over a member's successful contributions.
// Grand total is exactly the sum of the two subtotals.
type Total struct {
	MemberID  string  `json:"member_id"`
	Monthly   float64 `json:"monthly"`
	Voluntary float64 `json:"voluntary"`
	Total     float64 `json:"total"`
}

type Statement struct {
	MemberID      string                            `json:"member_id"`
	MemberName    string                            `json:"member_name"`
	StartDate     time.Time                         `json:"start_date"`
	EndDate       time.Time                         `json:"end_date"`
	Total         float64                           `json:"total"`
	Eligible      bool                              `json:"eligible"`
	Contributions []contributiondomain.Contribution `json:"contributions"`
}

func (s Statement) BenefitText() string {
	if s.Eligible {
		return "Eligible for benefits"
	}
	return "Not eligible for benefits"
}

// Service computes ledger aggregates and date-bounded statement views.
// Statement keeps every status in range; Render keeps successful rows only.
type Service interface {
	Total(ctx context.Context, memberID string) (Total, error)
	Statement(ctx context.Context, memberID string, start, end time.Time) (Statement, error)
	Render(ctx context.Context, memberID string, start, end time.Time) ([]byte, error)
}

var (
	ErrInvalidID              = errors.New("invalid_id")
	ErrMemberNotFound         = errors.New("member_not_found")
	ErrNoContributions        = errors.New("no_contributions")
	ErrNoContributionsInRange = errors.New("no_contributions_in_range")
)
