package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, member *Member) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Member, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Member, error)
	Update(ctx context.Context, db *gorm.DB, member *Member) error
	SoftDelete(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error
	ExistsActive(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)
}
