package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"yoohoo/internal/model"
)

// PaymentRepository defines payment persistence operations.
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	Update(ctx context.Context, payment *model.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	FindByIntentID(ctx context.Context, intentID string) (*model.Payment, error)
	ListByUser(ctx context.Context, uid string) ([]model.Payment, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository.
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create creates a new payment record.
func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// Update updates an existing payment record.
func (r *paymentRepository) Update(ctx context.Context, payment *model.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// FindByID finds a payment by ID.
func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	var payment model.Payment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// FindByIntentID finds a payment by its Stripe payment intent.
func (r *paymentRepository) FindByIntentID(ctx context.Context, intentID string) (*model.Payment, error) {
	var payment model.Payment
	if err := r.db.WithContext(ctx).Where("stripe_payment_intent_id = ?", intentID).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListByUser lists a user's payments, newest first.
func (r *paymentRepository) ListByUser(ctx context.Context, uid string) ([]model.Payment, error) {
	var out []model.Payment
	err := r.db.WithContext(ctx).Where("user_id = ?", uid).Order("created_at DESC").Find(&out).Error
	return out, err
}
