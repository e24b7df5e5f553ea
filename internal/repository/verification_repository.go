package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yoohoo/internal/model"
)

// VerificationRepository persists admin verification outcomes.
type VerificationRepository interface {
	Upsert(ctx context.Context, v *model.Verification) error
	ListByUser(ctx context.Context, uid string) ([]model.Verification, error)
}

type verificationRepository struct {
	db *gorm.DB
}

// NewVerificationRepository creates a new verification repository.
func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

// Upsert writes one row per user and verification type.
func (r *verificationRepository) Upsert(ctx context.Context, v *model.Verification) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "type"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "verified_at", "verified_by", "notes", "updated_at"}),
	}).Create(v).Error
}

func (r *verificationRepository) ListByUser(ctx context.Context, uid string) ([]model.Verification, error) {
	var out []model.Verification
	err := r.db.WithContext(ctx).Where("user_id = ?", uid).Find(&out).Error
	return out, err
}
