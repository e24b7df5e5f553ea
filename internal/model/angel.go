package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AngelJobStatus is the lifecycle state of an odd-job posting.
type AngelJobStatus string

const (
	AngelJobOpen      AngelJobStatus = "open"
	AngelJobAssigned  AngelJobStatus = "assigned"
	AngelJobCompleted AngelJobStatus = "completed"
)

// ApplicationStatus is the poster's decision on an application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// JobLocation is where an odd job takes place.
type JobLocation struct {
	City    string `json:"city" gorm:"size:100;index"`
	State   string `json:"state,omitempty" gorm:"size:64"`
	Address string `json:"address,omitempty" gorm:"size:255"`
}

// AngelJob is an odd-job posting on the Angel's List.
type AngelJob struct {
	ID             uuid.UUID        `json:"id" gorm:"type:char(36);primaryKey"`
	PostedBy       string           `json:"postedBy" gorm:"size:128;not null;index"`
	Title          string           `json:"title" gorm:"size:200;not null"`
	Description    string           `json:"description" gorm:"type:text;not null"`
	Category       string           `json:"category" gorm:"size:64;not null;index"`
	Location       JobLocation      `json:"location" gorm:"embedded;embeddedPrefix:location_"`
	HourlyRate     *decimal.Decimal `json:"hourlyRate" gorm:"type:decimal(10,2)"`
	EstimatedHours *float64         `json:"estimatedHours"`
	Skills         []string         `json:"skills" gorm:"serializer:json;type:text"`
	Urgency        string           `json:"urgency" gorm:"size:16;not null;default:'normal';index"`
	Featured       bool             `json:"featured" gorm:"index"`
	Status         AngelJobStatus   `json:"status" gorm:"type:varchar(16);not null;default:'open';index"`
	AssignedTo     string           `json:"assignedTo,omitempty" gorm:"size:128;index"`
	AssignedAt     *time.Time       `json:"assignedAt,omitempty"`
	CompletedAt    *time.Time       `json:"completedAt,omitempty"`
	CompletedBy    string           `json:"completedBy,omitempty" gorm:"size:128"`
	Rating         *int             `json:"rating,omitempty"`
	Review         string           `json:"review,omitempty" gorm:"size:1000"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`

	ApplicationCount int64 `json:"applicationCount" gorm:"-"`
}

// BeforeCreate sets UUID before creating the record.
func (j *AngelJob) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// AngelApplication is one helper's offer to take a job.
type AngelApplication struct {
	ID              uuid.UUID         `json:"id" gorm:"type:char(36);primaryKey"`
	JobID           uuid.UUID         `json:"jobId" gorm:"type:char(36);not null;uniqueIndex:idx_job_applicant"`
	ApplicantID     string            `json:"applicantId" gorm:"size:128;not null;uniqueIndex:idx_job_applicant;index"`
	Message         string            `json:"message,omitempty" gorm:"size:1000"`
	ProposedRate    *decimal.Decimal  `json:"proposedRate" gorm:"type:decimal(10,2)"`
	Status          ApplicationStatus `json:"status" gorm:"type:varchar(16);not null;default:'pending'"`
	ResponseMessage string            `json:"responseMessage,omitempty" gorm:"size:500"`
	RespondedAt     *time.Time        `json:"respondedAt,omitempty"`
	AppliedAt       time.Time         `json:"appliedAt" gorm:"autoCreateTime"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (a *AngelApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
