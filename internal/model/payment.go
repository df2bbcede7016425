package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Payment struct {
	ID           string        `gorm:"primaryKey;type:uuid" json:"id"`
	AttendeeID   string        `gorm:"not null;type:uuid;uniqueIndex" json:"attendeeId"`
	Amount       float64       `gorm:"not null" json:"amount"`
	Status       PaymentStatus `gorm:"not null;default:PENDING;size:16" json:"status"`
	ProviderRef  *string       `json:"providerRef,omitempty"`
	ErrorMessage *string       `json:"errorMessage,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	return nil
}
