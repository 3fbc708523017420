package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pensio/internal/contribution/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, contribution *domain.Contribution) error {
	return db.WithContext(ctx).Create(contribution).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Contribution, error) {
	var contribution domain.Contribution
	err := db.WithContext(ctx).
		Model(&domain.Contribution{}).
		Where("id = ?", id).
		Limit(1).
		Find(&contribution).Error
	if err != nil {
		return nil, err
	}
	if contribution.ID == 0 {
		return nil, nil
	}
	return &contribution, nil
}

func (r *repo) FindByMember(ctx context.Context, db *gorm.DB, memberID snowflake.ID) ([]domain.Contribution, error) {
	var contributions []domain.Contribution
	err := db.WithContext(ctx).
		Model(&domain.Contribution{}).
		Where("member_id = ?", memberID).
		Order("contribution_date asc, id asc").
		Find(&contributions).Error
	if err != nil {
		return nil, err
	}
	return contributions, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Contribution, error) {
	var contributions []domain.Contribution
	err := db.WithContext(ctx).
		Model(&domain.Contribution{}).
		Order("contribution_date asc, id asc").
		Find(&contributions).Error
	if err != nil {
		return nil, err
	}
	return contributions, nil
}

func (r *repo) FindByStatus(ctx context.Context, db *gorm.DB, status domain.ContributionStatus) ([]domain.Contribution, error) {
	var contributions []domain.Contribution
	err := db.WithContext(ctx).
		Model(&domain.Contribution{}).
		Where("status = ?", status).
		Order("contribution_date asc, id asc").
		Find(&contributions).Error
	if err != nil {
		return nil, err
	}
	return contributions, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status domain.ContributionStatus) error {
	result := db.WithContext(ctx).
		Model(&domain.Contribution{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": gorm.Expr("CURRENT_TIMESTAMP")})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Contribution{}).Error
}
