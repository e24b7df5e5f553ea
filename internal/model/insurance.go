package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InsuranceStatus is the verification state of a submitted policy.
type InsuranceStatus string

const (
	InsurancePendingVerification InsuranceStatus = "pending_verification"
	InsuranceApproved            InsuranceStatus = "approved"
	InsuranceRejected            InsuranceStatus = "rejected"
	InsuranceExpired             InsuranceStatus = "expired"
)

// InsurancePolicy is a provider's insurance submission.
type InsurancePolicy struct {
	ID                uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID            string          `json:"userId" gorm:"size:128;not null;index"`
	InsuranceType     string          `json:"insuranceType" gorm:"size:64;not null;index"`
	PolicyNumber      string          `json:"policyNumber" gorm:"size:50;not null"`
	InsuranceCompany  string          `json:"insuranceCompany" gorm:"size:100;not null"`
	CoverageAmount    decimal.Decimal `json:"coverageAmount" gorm:"type:decimal(14,2);not null"`
	EffectiveDate     time.Time       `json:"effectiveDate"`
	ExpirationDate    time.Time       `json:"expirationDate" gorm:"index"`
	DocumentIDs       []string        `json:"documentIds" gorm:"serializer:json;type:text"`
	AdditionalDetails string          `json:"additionalDetails,omitempty" gorm:"size:1000"`
	Status            InsuranceStatus `json:"status" gorm:"type:varchar(24);not null;index"`
	VerifiedAt        *time.Time      `json:"verifiedAt,omitempty"`
	VerifiedBy        string          `json:"verifiedBy,omitempty" gorm:"size:128"`
	VerificationNotes string          `json:"verificationNotes,omitempty" gorm:"size:1000"`
	ReminderAt        *time.Time      `json:"reminderAt,omitempty" gorm:"index"`
	RemindedAt        *time.Time      `json:"-"`
	SubmittedAt       time.Time       `json:"submittedAt" gorm:"autoCreateTime"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (p *InsurancePolicy) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// EffectiveStatus reports expired for approved policies past their end date.
func (p *InsurancePolicy) EffectiveStatus(now time.Time) InsuranceStatus {
	if p.ExpirationDate.Before(now) && p.Status != InsuranceRejected {
		return InsuranceExpired
	}
	return p.Status
}

// InsuranceReminderPrefs controls how a provider hears about expiring policies.
type InsuranceReminderPrefs struct {
	UserID         string    `json:"userId" gorm:"primaryKey;size:128"`
	EmailReminders bool      `json:"emailReminders"`
	SMSReminders   bool      `json:"smsReminders"`
	ReminderDays   []int     `json:"reminderDays" gorm:"serializer:json;type:text"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
