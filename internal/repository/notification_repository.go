package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"yoohoo/internal/model"
)

// NotificationRepository defines notification persistence operations.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListForUser(ctx context.Context, uid string, unreadOnly bool) ([]model.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID, uid string) error
	MarkAllRead(ctx context.Context, uid string) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepository) ListForUser(ctx context.Context, uid string, unreadOnly bool) ([]model.Notification, error) {
	cond := map[string]any{"user_id": uid}
	if unreadOnly {
		cond["read"] = false
	}
	q := r.db.WithContext(ctx).Where(cond)
	var out []model.Notification
	err := q.Order("created_at DESC").Limit(100).Find(&out).Error
	return out, err
}

// MarkRead returns gorm.ErrRecordNotFound when the notification is not the user's.
func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID, uid string) error {
	res := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, uid).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := r.db.WithContext(ctx).Model(&model.Notification{}).
			Where("id = ? AND user_id = ?", id, uid).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, uid string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where(map[string]any{"user_id": uid, "read": false}).
		Update("read", true)
	return res.RowsAffected, res.Error
}
