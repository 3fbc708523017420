package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/pensio/internal/cache"
	"github.com/smallbiznis/pensio/internal/clock"
	"github.com/smallbiznis/pensio/internal/config"
	contributiondomain "github.com/smallbiznis/pensio/internal/contribution/domain"
	eligibilitydomain "github.com/smallbiznis/pensio/internal/eligibility/domain"
	memberdomain "github.com/smallbiznis/pensio/internal/member/domain"
	obsmetrics "github.com/smallbiznis/pensio/internal/observability/metrics"
	"github.com/smallbiznis/pensio/internal/providers/email"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	jobValidate           = "validate_contributions"
	jobRetryFailed        = "retry_failed_contributions"
	jobRefreshEligibility = "refresh_eligibility"

	validateMaxAttempts = 3
)

type Params struct {
	fx.In

	DB             *gorm.DB
	Log            *zap.Logger
	Clock          clock.Clock
	Cache          cache.Store
	AppConfig      config.Config
	Config         Config `optional:"true"`
	ContribRepo    contributiondomain.Repository
	ContribSvc     contributiondomain.Service
	MemberRepo     memberdomain.Repository
	EligibilitySvc eligibilitydomain.Service
	Email          email.Provider
}

// Scheduler runs the three reconciliation jobs. Each job is idempotent, has
// no ordering relation to the others, and shares nothing with the request
// path except the ledger and the cache.
type Scheduler struct {
	db             *gorm.DB
	log            *zap.Logger
	cfg            Config
	clock          clock.Clock
	cache          cache.Store
	opsRecipient   string
	contribRepo    contributiondomain.Repository
	contribSvc     contributiondomain.Service
	memberRepo     memberdomain.Repository
	eligibilitySvc eligibilitydomain.Service
	email          email.Provider
}

var ErrInvalidConfig = fmt.Errorf("scheduler: missing dependency")

func New(p Params) (*Scheduler, error) {
	if p.DB == nil || p.Log == nil || p.Clock == nil || p.Cache == nil ||
		p.ContribRepo == nil || p.ContribSvc == nil || p.MemberRepo == nil ||
		p.EligibilitySvc == nil || p.Email == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		db:             p.DB,
		log:            p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:            p.Config.withDefaults(),
		clock:          p.Clock,
		cache:          p.Cache,
		opsRecipient:   p.AppConfig.Email.OpsRecipient,
		contribRepo:    p.ContribRepo,
		contribSvc:     p.ContribSvc,
		memberRepo:     p.MemberRepo,
		eligibilitySvc: p.EligibilitySvc,
		email:          p.Email,
	}, nil
}

func (s *Scheduler) runJob(parent context.Context, name string, fn func(ctx context.Context) error) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, s.cfg.JobTimeout)
	defer cancel()

	log := s.log.With(
		zap.String("job", name),
		zap.String("run_id", uuid.NewString()),
	)
	schedMetrics := obsmetrics.Scheduler()
	schedMetrics.IncJobRun(name)
	log.Info("job started")

	err := fn(ctx)
	duration := s.clock.Now().Sub(start)
	schedMetrics.ObserveJobDuration(name, duration)

	if err != nil {
		schedMetrics.IncJobError(name)
		log.Error("job failed", zap.Duration("duration", duration), zap.Error(err))
		return err
	}

	log.Info("job completed", zap.Duration("duration", duration))
	return nil
}

// ValidateContributions is a detection-only pass: it logs any ledger row with
// a non-positive amount and mutates nothing. The scan itself is retried on
// transient failure.
func (s *Scheduler) ValidateContributions(ctx context.Context) error {
	return s.runJob(ctx, jobValidate, func(ctx context.Context) error {
		var lastErr error
		for attempt := 1; attempt <= validateMaxAttempts; attempt++ {
			contributions, err := s.contribRepo.FindAll(ctx, s.db)
			if err != nil {
				lastErr = err
				s.log.Warn("validation scan failed",
					zap.Int("attempt", attempt),
					zap.Error(err),
				)
				continue
			}

			invalid := 0
			for _, c := range contributions {
				if c.Amount <= 0 {
					invalid++
					s.log.Warn("invalid contribution detected",
						zap.String("contribution_id", c.ID.String()),
						zap.String("member_id", c.MemberID.String()),
						zap.Float64("amount", c.Amount),
					)
				}
			}

			obsmetrics.Scheduler().AddItemsProcessed(jobValidate, len(contributions))
			s.log.Info("validation scan complete",
				zap.Int("scanned", len(contributions)),
				zap.Int("invalid", invalid),
			)
			return nil
		}
		return fmt.Errorf("validation scan failed after %d attempts: %w", validateMaxAttempts, lastErr)
	})
}

// RetryFailedContributions resets every failed contribution to pending so it
// re-enters processing. One item's persistence failure never aborts the
// batch: the item stays failed, ops gets an email, and the loop continues.
func (s *Scheduler) RetryFailedContributions(ctx context.Context) error {
	return s.runJob(ctx, jobRetryFailed, func(ctx context.Context) error {
		failed, err := s.contribRepo.FindByStatus(ctx, s.db, contributiondomain.StatusFailed)
		if err != nil {
			return fmt.Errorf("scan failed contributions: %w", err)
		}

		processed, skipped := 0, 0
		for _, c := range failed {
			if err := s.contribSvc.UpdateStatus(ctx, c.ID.String(), contributiondomain.StatusPending); err != nil {
				skipped++
				s.log.Error("retry failed for contribution",
					zap.String("contribution_id", c.ID.String()),
					zap.Error(err),
				)
				s.notifyRetryFailure(ctx, c, err)
				continue
			}
			processed++
		}

		schedMetrics := obsmetrics.Scheduler()
		schedMetrics.AddItemsProcessed(jobRetryFailed, processed)
		schedMetrics.AddItemsFailed(jobRetryFailed, skipped)
		s.log.Info("retry batch complete",
			zap.Int("processed", processed),
			zap.Int("skipped", skipped),
		)
		return nil
	})
}

// RefreshEligibility recomputes eligibility for every active member. The
// useful side effect is cache repopulation; nothing is stored on the member.
func (s *Scheduler) RefreshEligibility(ctx context.Context) error {
	return s.runJob(ctx, jobRefreshEligibility, func(ctx context.Context) error {
		members, err := s.memberRepo.FindAll(ctx, s.db)
		if err != nil {
			return fmt.Errorf("scan members: %w", err)
		}

		refreshed, skipped := 0, 0
		for _, m := range members {
			raw := m.ID.String()
			// Drop the cached value first so the engine recomputes from the
			// ledger instead of serving the unexpired entry back.
			_ = s.cache.Remove(ctx, cache.MemberEligibilityKey(raw))

			eligible, err := s.eligibilitySvc.IsEligible(ctx, raw)
			if err != nil {
				skipped++
				s.log.Error("eligibility refresh failed",
					zap.String("member_id", raw),
					zap.Error(err),
				)
				continue
			}
			refreshed++
			s.log.Info("member eligibility refreshed",
				zap.String("member_id", raw),
				zap.Bool("eligible", eligible),
			)
		}

		schedMetrics := obsmetrics.Scheduler()
		schedMetrics.AddItemsProcessed(jobRefreshEligibility, refreshed)
		schedMetrics.AddItemsFailed(jobRefreshEligibility, skipped)
		return nil
	})
}

func (s *Scheduler) notifyRetryFailure(ctx context.Context, c contributiondomain.Contribution, cause error) {
	subject := fmt.Sprintf("Transaction Failed - Contribution ID %s", c.ID.String())
	body := fmt.Sprintf(
		"Contribution %s for member %s could not be reset for retry.<br>Error: %s<br>The item remains failed and will be picked up by the next run.",
		c.ID.String(), c.MemberID.String(), cause.Error(),
	)
	if err := s.email.Send(ctx, []string{s.opsRecipient}, subject, body); err != nil {
		s.log.Warn("retry failure notification not sent",
			zap.String("contribution_id", c.ID.String()),
			zap.Error(err),
		)
	}
}

// RunForever drives the three jobs on independent tickers until the context
// is cancelled. Job errors are already logged and counted inside runJob.
func (s *Scheduler) RunForever(ctx context.Context) {
	validate := time.NewTicker(s.cfg.ValidateInterval)
	retry := time.NewTicker(s.cfg.RetryFailedInterval)
	eligibility := time.NewTicker(s.cfg.EligibilityInterval)
	defer validate.Stop()
	defer retry.Stop()
	defer eligibility.Stop()

	s.log.Info("scheduler running",
		zap.Duration("validate_interval", s.cfg.ValidateInterval),
		zap.Duration("retry_failed_interval", s.cfg.RetryFailedInterval),
		zap.Duration("eligibility_interval", s.cfg.EligibilityInterval),
	)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-validate.C:
			_ = s.ValidateContributions(ctx)
		case <-retry.C:
			_ = s.RetryFailedContributions(ctx)
		case <-eligibility.C:
			_ = s.RefreshEligibility(ctx)
		}
	}
}
