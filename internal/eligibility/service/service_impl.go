package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pensio/internal/cache"
	"github.com/smallbiznis/pensio/internal/clock"
	"github.com/smallbiznis/pensio/internal/config"
	contributiondomain "github.com/smallbiznis/pensio/internal/contribution/domain"
	"github.com/smallbiznis/pensio/internal/eligibility/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	Cache       cache.Store
	Config      config.Config
	ContribRepo contributiondomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	cache       cache.Store
	ttl         time.Duration
	contribRepo contributiondomain.Repository
}

func New(p Params) domain.Service {
	ttl := p.Config.Cache.TTL
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("eligibility.service"),
		clock:       p.Clock,
		cache:       p.Cache,
		ttl:         ttl,
		contribRepo: p.ContribRepo,
	}
}

// IsEligible evaluates the benefit rule over the member's successful
// contribution history. Both outcomes are cached for the TTL window; caching
// the negative spares members with no history from recomputation on every
// check.
func (s *Service) IsEligible(ctx context.Context, rawMemberID string) (bool, error) {
	memberID, err := snowflake.ParseString(strings.TrimSpace(rawMemberID))
	if err != nil || memberID == 0 {
		return false, domain.ErrInvalidID
	}

	return cache.Fetch(ctx, s.cache, cache.MemberEligibilityKey(memberID.String()), s.ttl, func(ctx context.Context) (bool, error) {
		contributions, err := s.contribRepo.FindByMember(ctx, s.db, memberID)
		if err != nil {
			return false, err
		}

		var first time.Time
		for _, c := range contributions {
			if c.Status != contributiondomain.StatusSuccess {
				continue
			}
			if first.IsZero() || c.ContributionDate.Before(first) {
				first = c.ContributionDate
			}
		}
		if first.IsZero() {
			return false, nil
		}

		now := s.clock.Now()
		months := (now.Year()-first.Year())*12 + int(now.Month()) - int(first.Month())
		if months < 0 {
			// First successful contribution is dated in the future; treat as
			// not yet eligible rather than letting the comparison wrap.
			return false, nil
		}

		eligible := months >= domain.MinimumContributionMonths
		s.log.Debug("eligibility evaluated",
			zap.String("member_id", memberID.String()),
			zap.Int("months_contributed", months),
			zap.Bool("eligible", eligible),
		)
		return eligible, nil
	})
}
