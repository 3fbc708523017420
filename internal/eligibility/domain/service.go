package domain

import (
	"context"
	"errors"
)

// MinimumContributionMonths is the contribution history a member needs,
// counted in whole calendar months from the earliest successful contribution.
const MinimumContributionMonths = 6

type Service interface {
	IsEligible(ctx context.Context, memberID string) (bool, error)
}

var ErrInvalidID = errors.New("invalid_id")
