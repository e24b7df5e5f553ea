package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageType classifies exchange messages.
type MessageType string

const (
	MessageTypeText             MessageType = "text"
	MessageTypeSystem           MessageType = "system"
	MessageTypeScheduleProposal MessageType = "schedule_proposal"
	MessageTypeExchangeRequest  MessageType = "exchange_request"
)

// Message is a chat line inside an exchange.
type Message struct {
	ID         uuid.UUID   `json:"id" gorm:"type:char(36);primaryKey"`
	ExchangeID uuid.UUID   `json:"exchangeId" gorm:"type:char(36);not null;index"`
	SenderID   string      `json:"senderId" gorm:"size:128;not null"`
	Content    string      `json:"content" gorm:"type:text;not null"`
	Type       MessageType `json:"type" gorm:"type:varchar(32);not null;default:'text'"`
	ReadAt     *time.Time  `json:"readAt,omitempty"`
	CreatedAt  time.Time   `json:"createdAt" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
