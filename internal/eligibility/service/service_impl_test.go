package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/pensio/internal/cache"
	"github.com/smallbiznis/pensio/internal/clock"
	"github.com/smallbiznis/pensio/internal/config"
	contributiondomain "github.com/smallbiznis/pensio/internal/contribution/domain"
	contributionrepo "github.com/smallbiznis/pensio/internal/contribution/repository"
	"github.com/smallbiznis/pensio/internal/eligibility/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc   domain.Service
	db    *gorm.DB
	store *cache.MemoryStore
	clk   *clock.FakeClock
	node  *snowflake.Node
}

func setup(t *testing.T, now time.Time) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&contributiondomain.Contribution{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(now)
	store := cache.NewMemoryStore(clk)

	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		Clock:       clk,
		Cache:       store,
		Config:      config.Config{Cache: config.CacheConfig{TTL: 10 * time.Minute}},
		ContribRepo: contributionrepo.Provide(),
	})

	return &fixture{svc: svc, db: db, store: store, clk: clk, node: node}
}

func (f *fixture) insertContribution(t *testing.T, memberID snowflake.ID, date time.Time, status contributiondomain.ContributionStatus) {
	t.Helper()
	contribution := contributiondomain.Contribution{
		ID:               f.node.Generate(),
		MemberID:         memberID,
		Amount:           100,
		ContributionDate: date,
		Type:             contributiondomain.TypeMonthly,
		Status:           status,
		CreatedAt:        date,
		UpdatedAt:        date,
	}
	require.NoError(t, contributionrepo.Provide().Insert(context.Background(), f.db, &contribution))
}

func TestIsEligibleSixMonthBoundary(t *testing.T) {
	first := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"five months elapsed", time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), false},
		{"six months at month start", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), true},
		{"well past threshold", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := setup(t, tc.now)
			memberID := f.node.Generate()
			f.insertContribution(t, memberID, first, contributiondomain.StatusSuccess)

			eligible, err := f.svc.IsEligible(context.Background(), memberID.String())
			require.NoError(t, err)
			require.Equal(t, tc.want, eligible)
		})
	}
}

func TestIsEligibleIgnoresNonSuccessfulHistory(t *testing.T) {
	now := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	f := setup(t, now)
	memberID := f.node.Generate()

	f.insertContribution(t, memberID, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), contributiondomain.StatusFailed)
	f.insertContribution(t, memberID, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), contributiondomain.StatusPending)
	// Earliest success is recent, so the failed January row must not count.
	f.insertContribution(t, memberID, time.Date(2024, 11, 10, 0, 0, 0, 0, time.UTC), contributiondomain.StatusSuccess)

	eligible, err := f.svc.IsEligible(context.Background(), memberID.String())
	require.NoError(t, err)
	require.False(t, eligible)
}

func TestIsEligibleNoContributions(t *testing.T) {
	f := setup(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC))
	memberID := f.node.Generate()

	eligible, err := f.svc.IsEligible(context.Background(), memberID.String())
	require.NoError(t, err)
	require.False(t, eligible)
}

func TestIsEligibleFutureDatedFirstSuccess(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	f := setup(t, now)
	memberID := f.node.Generate()
	f.insertContribution(t, memberID, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), contributiondomain.StatusSuccess)

	eligible, err := f.svc.IsEligible(context.Background(), memberID.String())
	require.NoError(t, err)
	require.False(t, eligible)
}

func TestIsEligibleNegativeResultIsCached(t *testing.T) {
	f := setup(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC))
	memberID := f.node.Generate()
	ctx := context.Background()

	eligible, err := f.svc.IsEligible(ctx, memberID.String())
	require.NoError(t, err)
	require.False(t, eligible)

	// Old enough to qualify, but the cached negative still answers.
	f.insertContribution(t, memberID, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), contributiondomain.StatusSuccess)

	eligible, err = f.svc.IsEligible(ctx, memberID.String())
	require.NoError(t, err)
	require.False(t, eligible)

	// Dropping the key forces a recompute from the ledger.
	require.NoError(t, f.store.Remove(ctx, cache.MemberEligibilityKey(memberID.String())))
	eligible, err = f.svc.IsEligible(ctx, memberID.String())
	require.NoError(t, err)
	require.True(t, eligible)
}

func TestIsEligibleInvalidID(t *testing.T) {
	f := setup(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC))

	_, err := f.svc.IsEligible(context.Background(), "not-a-number")
	require.ErrorIs(t, err, domain.ErrInvalidID)
}
