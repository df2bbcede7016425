package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Ticket struct {
	ID          string     `gorm:"primaryKey;type:uuid" json:"id"`
	AttendeeID  string     `gorm:"not null;type:uuid;uniqueIndex" json:"attendeeId"`
	Code        string     `gorm:"not null;uniqueIndex" json:"code"`
	IssuedAt    time.Time  `gorm:"not null" json:"issuedAt"`
	CheckedIn   bool       `gorm:"not null;default:false" json:"checkedIn"`
	CheckedInAt *time.Time `json:"checkedInAt"`
}

func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	return nil
}
