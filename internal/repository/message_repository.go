package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"yoohoo/internal/model"
)

// MessageRepository defines exchange message persistence operations.
type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	ListByExchange(ctx context.Context, exchangeID uuid.UUID) ([]model.Message, error)
	MarkRead(ctx context.Context, exchangeID uuid.UUID, readerID string, at time.Time) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *model.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *messageRepository) ListByExchange(ctx context.Context, exchangeID uuid.UUID) ([]model.Message, error) {
	var out []model.Message
	err := r.db.WithContext(ctx).Where("exchange_id = ?", exchangeID).Order("created_at ASC").Find(&out).Error
	return out, err
}

// MarkRead stamps every unread message in the exchange not sent by readerID.
func (r *messageRepository) MarkRead(ctx context.Context, exchangeID uuid.UUID, readerID string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("exchange_id = ? AND sender_id <> ? AND read_at IS NULL", exchangeID, readerID).
		Update("read_at", at)
	return res.RowsAffected, res.Error
}
