package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pensio/internal/cache"
	"github.com/smallbiznis/pensio/internal/config"
	contributiondomain "github.com/smallbiznis/pensio/internal/contribution/domain"
	eligibilitydomain "github.com/smallbiznis/pensio/internal/eligibility/domain"
	memberdomain "github.com/smallbiznis/pensio/internal/member/domain"
	"github.com/smallbiznis/pensio/internal/providers/pdf"
	"github.com/smallbiznis/pensio/internal/statement/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB             *gorm.DB
	Log            *zap.Logger
	Cache          cache.Store
	Config         config.Config
	ContribRepo    contributiondomain.Repository
	MemberRepo     memberdomain.Repository
	EligibilitySvc eligibilitydomain.Service
	PDF            pdf.Provider
}

type Service struct {
	db             *gorm.DB
	log            *zap.Logger
	cache          cache.Store
	ttl            time.Duration
	contribRepo    contributiondomain.Repository
	memberRepo     memberdomain.Repository
	eligibilitySvc eligibilitydomain.Service
	pdf            pdf.Provider
}

func New(p Params) domain.Service {
	ttl := p.Config.Cache.TTL
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &Service{
		db:             p.DB,
		log:            p.Log.Named("statement.service"),
		cache:          p.Cache,
		ttl:            ttl,
		contribRepo:    p.ContribRepo,
		memberRepo:     p.MemberRepo,
		eligibilitySvc: p.EligibilitySvc,
		pdf:            p.PDF,
	}
}

// Total sums successful contributions, split by type then recombined. The
// split and the grand total come from one pass over one list, so the grand
// total is the sum of the subtotals by construction.
func (s *Service) Total(ctx context.Context, rawMemberID string) (domain.Total, error) {
	memberID, err := s.parseID(rawMemberID)
	if err != nil {
		return domain.Total{}, err
	}

	return cache.Fetch(ctx, s.cache, cache.MemberTotalKey(memberID.String()), s.ttl, func(ctx context.Context) (domain.Total, error) {
		contributions, err := s.contribRepo.FindByMember(ctx, s.db, memberID)
		if err != nil {
			return domain.Total{}, err
		}

		total := domain.Total{MemberID: memberID.String()}
		for _, c := range contributions {
			if c.Status != contributiondomain.StatusSuccess {
				continue
			}
			switch c.Type {
			case contributiondomain.TypeMonthly:
				total.Monthly += c.Amount
			case contributiondomain.TypeVoluntary:
				total.Voluntary += c.Amount
			}
		}
		total.Total = total.Monthly + total.Voluntary
		return total, nil
	})
}

// Statement returns the member's contributions inside [start, end] inclusive,
// all statuses. Computed fresh each call; only the aggregates behind it are
// cached.
func (s *Service) Statement(ctx context.Context, rawMemberID string, start, end time.Time) (domain.Statement, error) {
	return s.buildStatement(ctx, rawMemberID, start, end, false)
}

// Render produces the statement document, restricted to successful rows.
func (s *Service) Render(ctx context.Context, rawMemberID string, start, end time.Time) ([]byte, error) {
	statement, err := s.buildStatement(ctx, rawMemberID, start, end, true)
	if err != nil {
		return nil, err
	}

	data := pdf.StatementData{
		MemberName: statement.MemberName,
		MemberID:   statement.MemberID,
		StartDate:  statement.StartDate.Format("2006-01-02"),
		EndDate:    statement.EndDate.Format("2006-01-02"),
		Total:      formatAmount(statement.Total),
		Benefit:    statement.BenefitText(),
	}
	for _, c := range statement.Contributions {
		data.Rows = append(data.Rows, pdf.StatementRow{
			Date:   c.ContributionDate.Format("2006-01-02"),
			Type:   string(c.Type),
			Amount: formatAmount(c.Amount),
		})
	}

	payload, err := s.pdf.GenerateStatement(ctx, data)
	if err != nil {
		return nil, err
	}

	s.log.Info("statement document generated",
		zap.String("member_id", statement.MemberID),
		zap.Int("rows", len(statement.Contributions)),
	)
	return payload, nil
}

func (s *Service) buildStatement(ctx context.Context, rawMemberID string, start, end time.Time, successOnly bool) (domain.Statement, error) {
	memberID, err := s.parseID(rawMemberID)
	if err != nil {
		return domain.Statement{}, err
	}

	contributions, err := s.contribRepo.FindByMember(ctx, s.db, memberID)
	if err != nil {
		return domain.Statement{}, err
	}
	if len(contributions) == 0 {
		return domain.Statement{}, domain.ErrNoContributions
	}

	filtered := make([]contributiondomain.Contribution, 0, len(contributions))
	for _, c := range contributions {
		if c.ContributionDate.Before(start) || c.ContributionDate.After(end) {
			continue
		}
		if successOnly && c.Status != contributiondomain.StatusSuccess {
			continue
		}
		filtered = append(filtered, c)
	}
	if len(filtered) == 0 {
		return domain.Statement{}, domain.ErrNoContributionsInRange
	}

	member, err := s.memberRepo.FindByID(ctx, s.db, memberID)
	if err != nil {
		return domain.Statement{}, err
	}
	if member == nil {
		return domain.Statement{}, domain.ErrMemberNotFound
	}

	var total float64
	for _, c := range filtered {
		total += c.Amount
	}

	eligible, err := s.eligibilitySvc.IsEligible(ctx, memberID.String())
	if err != nil {
		return domain.Statement{}, err
	}

	return domain.Statement{
		MemberID:      memberID.String(),
		MemberName:    member.FullName(),
		StartDate:     start,
		EndDate:       end,
		Total:         total,
		Eligible:      eligible,
		Contributions: filtered,
	}, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func formatAmount(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
