package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/pensio/internal/clock"
	"github.com/smallbiznis/pensio/internal/member/domain"
	memberrepo "github.com/smallbiznis/pensio/internal/member/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setup(t *testing.T) (domain.Service, *gorm.DB, *clock.FakeClock) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Member{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  memberrepo.Provide(),
	})
	return svc, db, clk
}

func validRequest() domain.CreateMemberRequest {
	return domain.CreateMemberRequest{
		FirstName:   "Ana",
		LastName:    "Silva",
		Email:       "ana@example.com",
		PhoneNumber: "+6281200001111",
		DateOfBirth: time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateMember(t *testing.T) {
	svc, _, _ := setup(t)

	member, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotZero(t, member.ID)
	require.True(t, member.IsActive)

	got, err := svc.GetByID(context.Background(), member.ID.String())
	require.NoError(t, err)
	require.Equal(t, "Ana Silva", got.FullName())
}

func TestCreateMemberAgeBounds(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	cases := []struct {
		name      string
		birthYear int
		wantErr   error
	}{
		{"exactly 18", 2006, nil},
		{"exactly 70", 1954, nil},
		{"too young", 2010, domain.ErrAgeOutOfRange},
		{"too old", 1950, domain.ErrAgeOutOfRange},
	}

	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			req.Email = fmt.Sprintf("member%d@example.com", i)
			req.DateOfBirth = time.Date(tc.birthYear, 1, 1, 0, 0, 0, 0, time.UTC)

			_, err := svc.Create(ctx, req)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCreateMemberValidation(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	req := validRequest()
	req.FirstName = "  "
	_, err := svc.Create(ctx, req)
	require.ErrorIs(t, err, domain.ErrInvalidName)

	req = validRequest()
	req.Email = "not-an-email"
	_, err = svc.Create(ctx, req)
	require.ErrorIs(t, err, domain.ErrInvalidEmail)

	req = validRequest()
	req.DateOfBirth = time.Time{}
	_, err = svc.Create(ctx, req)
	require.ErrorIs(t, err, domain.ErrInvalidDateOfBirth)
}

func TestUpdateMember(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	member, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, domain.UpdateMemberRequest{
		ID:          member.ID.String(),
		FirstName:   "Ana",
		LastName:    "Souza",
		Email:       "ana.souza@example.com",
		PhoneNumber: member.PhoneNumber,
		DateOfBirth: member.DateOfBirth,
	})
	require.NoError(t, err)
	require.Equal(t, "Ana Souza", updated.FullName())
	require.Equal(t, "ana.souza@example.com", updated.Email)
}

func TestSoftDeleteHidesMemberFromList(t *testing.T) {
	svc, db, _ := setup(t)
	ctx := context.Background()

	member, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(ctx, member.ID.String()))

	members, err := svc.List(ctx)
	require.NoError(t, err)
	require.Empty(t, members)

	// The row stays; only the active flag flips.
	got, err := svc.GetByID(ctx, member.ID.String())
	require.NoError(t, err)
	require.False(t, got.IsActive)

	active, err := memberrepo.Provide().ExistsActive(ctx, db, member.ID)
	require.NoError(t, err)
	require.False(t, active)
}

func TestGetByIDUnknown(t *testing.T) {
	svc, _, _ := setup(t)

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), node.Generate().String())
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetByID(context.Background(), "zzz")
	require.ErrorIs(t, err, domain.ErrInvalidID)
}
