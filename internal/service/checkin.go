package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	msgCheckedIn        = "Check-in successful"
	msgAlreadyCheckedIn = "Ticket already checked in"
)

type CheckInStore interface {
	// CheckIn must mark the ticket and its attendee in one transaction and
	// keep the first check-in time
	CheckIn(ctx context.Context, ticketID, operatorID string, now time.Time) (*CheckInResult, error)
}

type CheckInResult struct {
	Message          string    `json:"message"`
	TicketID         string    `json:"ticketId"`
	AttendeeID       string    `json:"attendeeId"`
	CheckedInAt      time.Time `json:"checkedInAt"`
	AlreadyCheckedIn bool      `json:"alreadyCheckedIn"`
}

type CheckInService struct {
	store CheckInStore
	now   func() time.Time
}

func NewCheckInService(s CheckInStore) *CheckInService {
	return &CheckInService{
		store: s,
		now:   time.Now,
	}
}

// CheckIn admits the holder of a ticket. Checking in twice is not an error,
// the result says so and the original time is kept
func (c *CheckInService) CheckIn(ctx context.Context, ticketID, operatorID string) (*CheckInResult, error) {
	res, err := c.store.CheckIn(ctx, ticketID, operatorID, c.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("check in ticket %s: %w", ticketID, err)
	}

	res.Message = msgCheckedIn
	if res.AlreadyCheckedIn {
		res.Message = msgAlreadyCheckedIn
	}

	zap.L().Info("Ticket checked in",
		zap.String("ticket_id", res.TicketID),
		zap.String("attendee_id", res.AttendeeID),
		zap.Bool("repeated", res.AlreadyCheckedIn))

	return res, nil
}
