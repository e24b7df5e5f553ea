package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmergencyContact is who to call during a high-risk session.
type EmergencyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship,omitempty"`
}

// LiabilityWaiver records a user's acceptance of the liability terms for an activity.
type LiabilityWaiver struct {
	ID                  uuid.UUID         `json:"id" gorm:"type:char(36);primaryKey"`
	UserID              string            `json:"userId" gorm:"size:128;not null;index"`
	SkillCategory       string            `json:"skillCategory" gorm:"size:100;not null"`
	RiskLevel           string            `json:"riskLevel" gorm:"size:16;not null"`
	ActivityDescription string            `json:"activityDescription,omitempty" gorm:"type:text"`
	EmergencyContact    *EmergencyContact `json:"emergencyContact,omitempty" gorm:"serializer:json;type:text"`
	ExchangeID          *uuid.UUID        `json:"exchangeId,omitempty" gorm:"type:char(36)"`
	IPAddress           string            `json:"ipAddress" gorm:"size:64"`
	UserAgent           string            `json:"userAgent" gorm:"size:255"`
	Version             string            `json:"version" gorm:"size:16"`
	AcceptedAt          time.Time         `json:"acceptedAt" gorm:"autoCreateTime"`
}

// BeforeCreate sets UUID before creating the record.
func (w *LiabilityWaiver) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
