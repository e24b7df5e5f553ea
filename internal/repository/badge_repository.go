package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"yoohoo/internal/model"
)

// BadgeRepository persists badge requests and awarded badges.
type BadgeRepository interface {
	CreateRequest(ctx context.Context, req *model.BadgeRequest) error
	FindRequest(ctx context.Context, id uuid.UUID) (*model.BadgeRequest, error)
	UpdateRequest(ctx context.Context, req *model.BadgeRequest) error
	ListRequestsByUser(ctx context.Context, uid string, status model.ReviewStatus) ([]model.BadgeRequest, error)
	HasPendingRequest(ctx context.Context, uid, badgeType string) (bool, error)
	CountPendingRequests(ctx context.Context) (int64, error)

	ListBadgesByUser(ctx context.Context, uid string, publicOnly bool) ([]model.UserBadge, error)
	HasBadge(ctx context.Context, uid, badgeType string) (bool, error)

	// Approve marks req approved and awards badge in one transaction.
	Approve(ctx context.Context, req *model.BadgeRequest, badge *model.UserBadge) error
}

type badgeRepository struct {
	db *gorm.DB
}

// NewBadgeRepository creates a new badge repository.
func NewBadgeRepository(db *gorm.DB) BadgeRepository {
	return &badgeRepository{db: db}
}

func (r *badgeRepository) CreateRequest(ctx context.Context, req *model.BadgeRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *badgeRepository) FindRequest(ctx context.Context, id uuid.UUID) (*model.BadgeRequest, error) {
	var req model.BadgeRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *badgeRepository) UpdateRequest(ctx context.Context, req *model.BadgeRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *badgeRepository) ListRequestsByUser(ctx context.Context, uid string, status model.ReviewStatus) ([]model.BadgeRequest, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", uid)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []model.BadgeRequest
	err := q.Order("submitted_at DESC").Find(&out).Error
	return out, err
}

func (r *badgeRepository) HasPendingRequest(ctx context.Context, uid, badgeType string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.BadgeRequest{}).
		Where("user_id = ? AND badge_type = ? AND status = ?", uid, badgeType, model.ReviewPending).
		Count(&n).Error
	return n > 0, err
}

func (r *badgeRepository) CountPendingRequests(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.BadgeRequest{}).Where("status = ?", model.ReviewPending).Count(&n).Error
	return n, err
}

func (r *badgeRepository) ListBadgesByUser(ctx context.Context, uid string, publicOnly bool) ([]model.UserBadge, error) {
	cond := map[string]any{"user_id": uid}
	if publicOnly {
		cond["public"] = true
	}
	var out []model.UserBadge
	err := r.db.WithContext(ctx).Where(cond).Order("approved_at DESC").Find(&out).Error
	return out, err
}

func (r *badgeRepository) HasBadge(ctx context.Context, uid, badgeType string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.UserBadge{}).
		Where("user_id = ? AND badge_type = ?", uid, badgeType).
		Count(&n).Error
	return n > 0, err
}

func (r *badgeRepository) Approve(ctx context.Context, req *model.BadgeRequest, badge *model.UserBadge) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(req).Error; err != nil {
			return err
		}
		return tx.Create(badge).Error
	})
}
