package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Event struct {
	ID              string   `gorm:"primaryKey;type:uuid" json:"id"`
	Title           string   `gorm:"not null" json:"title"`
	BannerURL       string   `json:"bannerURL"`
	RequiresPayment bool     `gorm:"not null;default:false" json:"requiresPayment"`
	Amount          *float64 `json:"amount"`
	// Caller defined registration form, stored as-is. Responses are not
	// checked against it
	FormFields  datatypes.JSON `json:"formFields"`
	IsClosed    bool           `gorm:"not null;default:false;index:idx_events_open_ends_at,priority:1" json:"isClosed"`
	StartsAt    *time.Time     `json:"startsAt"`
	EndsAt      *time.Time     `gorm:"index:idx_events_open_ends_at,priority:2" json:"endsAt"`
	CreatedByID string         `gorm:"not null;index;size:16" json:"createdById"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`

	Attendees []Attendee `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	return nil
}

// PublicEvent is what unauthenticated attendees get to see before registering
type PublicEvent struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	BannerURL       string         `json:"bannerURL"`
	RequiresPayment bool           `json:"requiresPayment"`
	Amount          *float64       `json:"amount"`
	FormFields      datatypes.JSON `json:"formFields"`
	StartsAt        *time.Time     `json:"startsAt"`
	EndsAt          *time.Time     `json:"endsAt"`
	IsClosed        bool           `json:"isClosed"`
}
