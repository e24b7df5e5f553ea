package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentStatus represents the status of a payment.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
	PaymentStatusCancelled  PaymentStatus = "cancelled"
)

// Payment is a charge collected through a Stripe payment intent.
type Payment struct {
	ID                    uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID                string          `json:"userId" gorm:"size:128;not null;index"`
	ExchangeID            *uuid.UUID      `json:"exchangeId,omitempty" gorm:"type:char(36);index"`
	Amount                decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Currency              string          `json:"currency" gorm:"size:3;not null"`
	Status                PaymentStatus   `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Description           string          `json:"description,omitempty" gorm:"size:255"`
	StripePaymentIntentID string          `json:"stripePaymentIntentId,omitempty" gorm:"size:64;index"`
	FailureMessage        string          `json:"failureMessage,omitempty" gorm:"size:255"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
	DeletedAt             gorm.DeletedAt  `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
