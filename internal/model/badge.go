package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BadgeRequest is a provider's application for a badge.
type BadgeRequest struct {
	ID          uuid.UUID    `json:"id" gorm:"type:char(36);primaryKey"`
	UserID      string       `json:"userId" gorm:"size:128;not null;index"`
	BadgeType   string       `json:"badgeType" gorm:"size:64;not null;index"`
	DocumentIDs []string     `json:"documentIds" gorm:"serializer:json;type:text"`
	Notes       string       `json:"notes,omitempty" gorm:"size:500"`
	Status      ReviewStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	ReviewNotes string       `json:"reviewNotes,omitempty" gorm:"size:500"`
	ReviewedBy  string       `json:"reviewedBy,omitempty" gorm:"size:128"`
	ReviewedAt  *time.Time   `json:"reviewedAt,omitempty"`
	SubmittedAt time.Time    `json:"submittedAt" gorm:"autoCreateTime"`
}

// BeforeCreate sets UUID before creating the record.
func (b *BadgeRequest) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// UserBadge is an approved badge held by a user.
type UserBadge struct {
	ID         uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	UserID     string     `json:"userId" gorm:"size:128;not null;index"`
	BadgeType  string     `json:"badgeType" gorm:"size:64;not null"`
	RequestID  *uuid.UUID `json:"requestId,omitempty" gorm:"type:char(36)"`
	ApprovedBy string     `json:"approvedBy,omitempty" gorm:"size:128"`
	ApprovedAt time.Time  `json:"approvedAt"`
	Public     bool       `json:"public"`
}

// BeforeCreate sets UUID before creating the record.
func (b *UserBadge) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
