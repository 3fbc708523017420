package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pensio/internal/cache"
	"github.com/smallbiznis/pensio/internal/clock"
	"github.com/smallbiznis/pensio/internal/config"
	"github.com/smallbiznis/pensio/internal/contribution/domain"
	memberdomain "github.com/smallbiznis/pensio/internal/member/domain"
	"github.com/smallbiznis/pensio/internal/payment"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Cache      cache.Store
	Config     config.Config
	Repo       domain.Repository
	MemberRepo memberdomain.Repository
	Processor  payment.Processor
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	cache      cache.Store
	ttl        time.Duration
	repo       domain.Repository
	memberRepo memberdomain.Repository
	processor  payment.Processor
}

func New(p Params) domain.Service {
	ttl := p.Config.Cache.TTL
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("contribution.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		cache:      p.Cache,
		ttl:        ttl,
		repo:       p.Repo,
		memberRepo: p.MemberRepo,
		processor:  p.Processor,
	}
}

// Submit runs the full lifecycle for one contribution: validate, insert
// pending, charge, finish success or failed. Validation failures reject
// before any ledger write. The member's derived caches are invalidated on
// either terminal status, because the new row changes historical aggregates
// either way.
func (s *Service) Submit(ctx context.Context, req domain.SubmitContributionRequest) (domain.Contribution, error) {
	if req.Amount <= 0 {
		return domain.Contribution{}, domain.ErrInvalidAmount
	}
	if !req.Type.Valid() {
		return domain.Contribution{}, domain.ErrInvalidType
	}

	memberID, err := snowflake.ParseString(strings.TrimSpace(req.MemberID))
	if err != nil || memberID == 0 {
		return domain.Contribution{}, domain.ErrInvalidID
	}

	exists, err := s.memberRepo.ExistsActive(ctx, s.db, memberID)
	if err != nil {
		return domain.Contribution{}, err
	}
	if !exists {
		return domain.Contribution{}, domain.ErrMemberNotFound
	}

	now := s.clock.Now()
	if err := s.applyTypeRule(ctx, memberID, req, now); err != nil {
		return domain.Contribution{}, err
	}

	contributionDate := now
	if req.ContributionDate != nil && !req.ContributionDate.IsZero() {
		contributionDate = req.ContributionDate.UTC()
	}

	contribution := domain.Contribution{
		ID:               s.genID.Generate(),
		MemberID:         memberID,
		Amount:           req.Amount,
		ContributionDate: contributionDate,
		Type:             req.Type,
		Status:           domain.StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Insert(ctx, s.db, &contribution); err != nil {
		return domain.Contribution{}, err
	}

	status := domain.StatusSuccess
	chargeErr := s.processor.Charge(ctx, contribution)
	if chargeErr != nil {
		s.log.Warn("payment step failed",
			zap.String("contribution_id", contribution.ID.String()),
			zap.Error(chargeErr),
		)
		status = domain.StatusFailed
	}

	if err := s.setStatus(ctx, contribution.ID, status); err != nil {
		// The pending row is committed; the caches must not outlive it.
		s.invalidateMemberCaches(ctx, memberID)
		return domain.Contribution{}, err
	}
	contribution.Status = status

	s.invalidateMemberCaches(ctx, memberID)

	if chargeErr != nil {
		return contribution, domain.ErrPaymentFailed
	}

	s.log.Info("contribution processed",
		zap.String("contribution_id", contribution.ID.String()),
		zap.String("member_id", memberID.String()),
		zap.Float64("amount", contribution.Amount),
		zap.String("type", string(contribution.Type)),
	)
	return contribution, nil
}

func (s *Service) applyTypeRule(ctx context.Context, memberID snowflake.ID, req domain.SubmitContributionRequest, now time.Time) error {
	switch req.Type {
	case domain.TypeMonthly:
		existing, err := s.repo.FindByMember(ctx, s.db, memberID)
		if err != nil {
			return err
		}
		for _, c := range existing {
			if c.Type != domain.TypeMonthly || c.Status == domain.StatusFailed {
				continue
			}
			if c.InMonth(now) {
				return domain.ErrDuplicateMonthly
			}
		}
	case domain.TypeVoluntary:
		if req.Amount <= 0 || req.Amount > domain.VoluntaryMaxAmount {
			return domain.ErrVoluntaryOutOfRange
		}
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Contribution, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return domain.Contribution{}, err
	}

	return cache.Fetch(ctx, s.cache, cache.ContributionKey(id.String()), s.ttl, func(ctx context.Context) (domain.Contribution, error) {
		contribution, err := s.repo.FindByID(ctx, s.db, id)
		if err != nil {
			return domain.Contribution{}, err
		}
		if contribution == nil {
			return domain.Contribution{}, domain.ErrNotFound
		}
		return *contribution, nil
	})
}

func (s *Service) ListByMember(ctx context.Context, rawMemberID string) ([]domain.Contribution, error) {
	memberID, err := s.parseID(rawMemberID)
	if err != nil {
		return nil, err
	}

	return cache.Fetch(ctx, s.cache, cache.MemberContributionsKey(memberID.String()), s.ttl, func(ctx context.Context) ([]domain.Contribution, error) {
		return s.repo.FindByMember(ctx, s.db, memberID)
	})
}

// UpdateStatus transitions a contribution and keeps the caches honest: the
// row entry is invalidated then eagerly repopulated (this is the one write
// path that refreshes instead of waiting for the next read), and the member's
// aggregate keys are invalidated.
func (s *Service) UpdateStatus(ctx context.Context, rawID string, status domain.ContributionStatus) error {
	id, err := s.parseID(rawID)
	if err != nil {
		return err
	}

	existing, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}

	if err := s.setStatus(ctx, id, status); err != nil {
		s.invalidateMemberCaches(ctx, existing.MemberID)
		return err
	}

	s.invalidateMemberCaches(ctx, existing.MemberID)
	return nil
}

// Delete is the administrative hard delete: the row leaves the ledger and
// every cache that mentions it.
func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := s.parseID(rawID)
	if err != nil {
		return err
	}

	existing, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}

	if err := s.repo.Delete(ctx, s.db, id); err != nil {
		return err
	}

	_ = s.cache.Remove(ctx, cache.ContributionKey(id.String()))
	s.invalidateMemberCaches(ctx, existing.MemberID)

	s.log.Info("contribution deleted", zap.String("contribution_id", id.String()))
	return nil
}

func (s *Service) setStatus(ctx context.Context, id snowflake.ID, status domain.ContributionStatus) error {
	if err := s.repo.UpdateStatus(ctx, s.db, id, status); err != nil {
		return err
	}

	key := cache.ContributionKey(id.String())
	_ = s.cache.Remove(ctx, key)

	// Eager repopulate: a status transition is always followed by a read of
	// the same row, so skip the guaranteed miss.
	updated, err := s.repo.FindByID(ctx, s.db, id)
	if err == nil && updated != nil {
		_ = s.cache.Set(ctx, key, *updated, s.ttl)
	}
	return nil
}

func (s *Service) invalidateMemberCaches(ctx context.Context, memberID snowflake.ID) {
	raw := memberID.String()
	_ = s.cache.Remove(ctx, cache.MemberContributionsKey(raw))
	_ = s.cache.Remove(ctx, cache.MemberTotalKey(raw))
	_ = s.cache.Remove(ctx, cache.MemberEligibilityKey(raw))

	s.log.Debug("member caches invalidated", zap.String("member_id", raw))
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
