package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExchangeStatus is the lifecycle state of a skill exchange.
type ExchangeStatus string

const (
	ExchangeStatusPending   ExchangeStatus = "pending"
	ExchangeStatusAccepted  ExchangeStatus = "accepted"
	ExchangeStatusScheduled ExchangeStatus = "scheduled"
	ExchangeStatusCompleted ExchangeStatus = "completed"
	ExchangeStatusCancelled ExchangeStatus = "cancelled"
	ExchangeStatusDeclined  ExchangeStatus = "declined"
)

// Terminal reports whether no further transitions are possible.
func (s ExchangeStatus) Terminal() bool {
	return s == ExchangeStatusCompleted || s == ExchangeStatusCancelled || s == ExchangeStatusDeclined
}

// SkillExchange pairs a skill offered with a skill requested between two users.
type SkillExchange struct {
	ID             uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	RequesterID    string         `json:"requesterId" gorm:"size:128;not null;index"`
	ProviderID     string         `json:"providerId" gorm:"size:128;not null;index"`
	SkillOffered   string         `json:"skillOffered" gorm:"size:100;not null"`
	SkillRequested string         `json:"skillRequested" gorm:"size:100;not null"`
	Message        string         `json:"message,omitempty" gorm:"size:1000"`
	Status         ExchangeStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	ScheduledAt    *time.Time     `json:"scheduledAt,omitempty"`
	CompletedAt    *time.Time     `json:"completedAt,omitempty"`
	Rating         *int           `json:"rating,omitempty"`
	Review         string         `json:"review,omitempty" gorm:"size:500"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (e *SkillExchange) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// IsParticipant reports whether uid is the requester or the provider.
func (e *SkillExchange) IsParticipant(uid string) bool {
	return e.RequesterID == uid || e.ProviderID == uid
}

// Counterpart returns the other participant's id.
func (e *SkillExchange) Counterpart(uid string) string {
	if e.RequesterID == uid {
		return e.ProviderID
	}
	return e.RequesterID
}
