package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType classifies in-app notifications.
type NotificationType string

const (
	NotificationExchangeRequest    NotificationType = "exchange_request"
	NotificationExchangeAccepted   NotificationType = "exchange_accepted"
	NotificationExchangeDeclined   NotificationType = "exchange_declined"
	NotificationMessageReceived    NotificationType = "message_received"
	NotificationPaymentReceived    NotificationType = "payment_received"
	NotificationReviewReceived     NotificationType = "review_received"
	NotificationSystemAnnouncement NotificationType = "system_announcement"
	NotificationInsuranceReviewed  NotificationType = "insurance_reviewed"
	NotificationInsuranceExpiring  NotificationType = "insurance_expiring"
	NotificationJobApplication     NotificationType = "job_application"
	NotificationApplicationUpdate  NotificationType = "application_update"
)

// Notification is an in-app alert for a user.
type Notification struct {
	ID        uuid.UUID         `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    string            `json:"userId" gorm:"size:128;not null;index"`
	Type      NotificationType  `json:"type" gorm:"type:varchar(32);not null"`
	Title     string            `json:"title" gorm:"size:100;not null"`
	Message   string            `json:"message" gorm:"size:500;not null"`
	Data      map[string]string `json:"data,omitempty" gorm:"serializer:json;type:text"`
	Read      bool              `json:"read" gorm:"default:false;index"`
	CreatedAt time.Time         `json:"createdAt"`
}

// BeforeCreate sets UUID before creating the record.
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
