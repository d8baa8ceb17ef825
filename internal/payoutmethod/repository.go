package payoutmethod

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindFirstActive(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) (*PayoutMethod, error)
	FindByID(ctx context.Context, db *gorm.DB, id string) (*PayoutMethod, error)
}

type repo struct{}

func NewRepository() Repository {
	return &repo{}
}

func (r *repo) FindFirstActive(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) (*PayoutMethod, error) {
	var item PayoutMethod
	err := db.WithContext(ctx).Raw(
		`SELECT id, owner_id, display_name, is_active, created_at
		 FROM payout_methods
		 WHERE owner_id = ? AND is_active = ?
		 ORDER BY created_at ASC, id ASC
		 LIMIT 1`,
		ownerID,
		true,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == "" {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id string) (*PayoutMethod, error) {
	var item PayoutMethod
	err := db.WithContext(ctx).Raw(
		`SELECT id, owner_id, display_name, is_active, created_at
		 FROM payout_methods
		 WHERE id = ?
		 LIMIT 1`,
		id,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == "" {
		return nil, nil
	}
	return &item, nil
}
