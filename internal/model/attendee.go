package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Attendee is a single registration of a person for an event. A person can
// register only once per event, which the (email, event_id) index enforces
type Attendee struct {
	ID            string            `gorm:"primaryKey;type:uuid" json:"id"`
	EventID       string            `gorm:"not null;type:uuid;uniqueIndex:idx_attendees_email_event,priority:2" json:"eventId"`
	FullName      string            `gorm:"not null" json:"fullName"`
	Email         string            `gorm:"not null;uniqueIndex:idx_attendees_email_event,priority:1" json:"email"`
	FormResponses datatypes.JSONMap `json:"formResponses"`
	PaymentStatus PaymentStatus     `gorm:"not null;default:PENDING;size:16" json:"paymentStatus"`
	TicketCode    string            `gorm:"not null" json:"ticketCode"`
	CheckedIn     bool              `gorm:"not null;default:false" json:"checkedIn"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`

	Payment *Payment `gorm:"foreignKey:AttendeeID;constraint:OnDelete:CASCADE" json:"payment,omitempty"`
	Ticket  *Ticket  `gorm:"foreignKey:AttendeeID;constraint:OnDelete:CASCADE" json:"ticket,omitempty"`
}

func (a *Attendee) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	return nil
}
