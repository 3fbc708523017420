package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pensio/internal/clock"
	"github.com/smallbiznis/pensio/internal/member/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("member.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateMemberRequest) (domain.Member, error) {
	now := s.clock.Now()

	member := domain.Member{
		ID:          s.genID.Generate(),
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       strings.TrimSpace(req.Email),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		DateOfBirth: req.DateOfBirth.UTC(),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.validate(member, now); err != nil {
		return domain.Member{}, err
	}

	if err := s.repo.Insert(ctx, s.db, &member); err != nil {
		return domain.Member{}, err
	}

	s.log.Info("member created",
		zap.String("member_id", member.ID.String()),
		zap.Int("age", member.AgeAt(now)),
	)
	return member, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateMemberRequest) (domain.Member, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Member{}, err
	}

	existing, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Member{}, err
	}
	if existing == nil {
		return domain.Member{}, domain.ErrNotFound
	}

	now := s.clock.Now()
	existing.FirstName = strings.TrimSpace(req.FirstName)
	existing.LastName = strings.TrimSpace(req.LastName)
	existing.Email = strings.TrimSpace(req.Email)
	existing.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	existing.DateOfBirth = req.DateOfBirth.UTC()
	existing.UpdatedAt = now

	if err := s.validate(*existing, now); err != nil {
		return domain.Member{}, err
	}

	if err := s.repo.Update(ctx, s.db, existing); err != nil {
		return domain.Member{}, err
	}
	return *existing, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Member, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return domain.Member{}, err
	}

	member, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Member{}, err
	}
	if member == nil {
		return domain.Member{}, domain.ErrNotFound
	}
	return *member, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Member, error) {
	return s.repo.FindAll(ctx, s.db)
}

// SoftDelete flips the active flag. The member row and its contributions
// remain in the ledger.
func (s *Service) SoftDelete(ctx context.Context, rawID string) error {
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

	return s.repo.SoftDelete(ctx, s.db, id, s.clock.Now())
}

func (s *Service) validate(member domain.Member, now time.Time) error {
	if member.FirstName == "" || member.LastName == "" {
		return domain.ErrInvalidName
	}
	if member.Email == "" || !strings.Contains(member.Email, "@") {
		return domain.ErrInvalidEmail
	}
	if member.DateOfBirth.IsZero() {
		return domain.ErrInvalidDateOfBirth
	}
	if !member.HasValidAgeAt(now) {
		return domain.ErrAgeOutOfRange
	}
	return nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
