package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, contribution *Contribution) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Contribution, error)
	FindByMember(ctx context.Context, db *gorm.DB, memberID snowflake.ID) ([]Contribution, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Contribution, error)
	FindByStatus(ctx context.Context, db *gorm.DB, status ContributionStatus) ([]Contribution, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status ContributionStatus) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
