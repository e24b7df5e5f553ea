package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewStatus is the moderation state shared by documents, verifications and badge requests.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// DocumentTypeInsurance marks an insurance certificate.
const DocumentTypeInsurance = "insurance"

// Document is a compliance file uploaded by a provider.
type Document struct {
	ID             uuid.UUID    `json:"id" gorm:"type:char(36);primaryKey"`
	UserID         string       `json:"userId" gorm:"size:128;not null;index"`
	Type           string       `json:"type" gorm:"size:64;not null;index"`
	InsuranceType  string       `json:"insuranceType,omitempty" gorm:"size:64"`
	CoverageAmount int64        `json:"coverageAmount,omitempty"`
	FileName       string       `json:"fileName" gorm:"size:255"`
	ContentType    string       `json:"contentType" gorm:"size:128"`
	Size           int64        `json:"size"`
	ObjectKey      string       `json:"-" gorm:"size:512"`
	Status         ReviewStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	ReviewNotes    string       `json:"reviewNotes,omitempty" gorm:"size:500"`
	ReviewedBy     string       `json:"reviewedBy,omitempty" gorm:"size:128"`
	ReviewedAt     *time.Time   `json:"reviewedAt,omitempty"`
	ExpiresAt      *time.Time   `json:"expiresAt,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`

	// URL is a short-lived download link, filled on read.
	URL string `json:"url,omitempty" gorm:"-"`
}

// BeforeCreate sets UUID before creating the record.
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// Verification is the admin-recorded outcome of one verification type for a user.
type Verification struct {
	ID         uuid.UUID    `json:"id" gorm:"type:char(36);primaryKey"`
	UserID     string       `json:"userId" gorm:"size:128;not null;uniqueIndex:idx_user_verification"`
	Type       string       `json:"verificationType" gorm:"size:64;not null;uniqueIndex:idx_user_verification"`
	Status     ReviewStatus `json:"status" gorm:"type:varchar(20);not null"`
	VerifiedAt *time.Time   `json:"verifiedAt"`
	VerifiedBy string       `json:"verifiedBy" gorm:"size:128"`
	Notes      string       `json:"notes,omitempty" gorm:"size:500"`
	UpdatedAt  time.Time    `json:"updatedAt"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// BeforeCreate sets UUID before creating the record.
func (v *Verification) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
