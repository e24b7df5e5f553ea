package repository

import (
	"context"

	"gorm.io/gorm"

	"yoohoo/internal/model"
)

// WaiverRepository persists liability waivers.
type WaiverRepository interface {
	Create(ctx context.Context, w *model.LiabilityWaiver) error
	ListByUser(ctx context.Context, uid string) ([]model.LiabilityWaiver, error)
}

type waiverRepository struct {
	db *gorm.DB
}

// NewWaiverRepository creates a new waiver repository.
func NewWaiverRepository(db *gorm.DB) WaiverRepository {
	return &waiverRepository{db: db}
}

func (r *waiverRepository) Create(ctx context.Context, w *model.LiabilityWaiver) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *waiverRepository) ListByUser(ctx context.Context, uid string) ([]model.LiabilityWaiver, error) {
	var out []model.LiabilityWaiver
	err := r.db.WithContext(ctx).Where("user_id = ?", uid).Order("accepted_at DESC").Find(&out).Error
	return out, err
}
