package store

import (
	"bitwise74/event-api/internal/model"
	"bitwise74/event-api/internal/service"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// CheckIn flips the ticket and its attendee to checked in within a single
// transaction. When operatorID is set it has to be the creator of the event
// the ticket belongs to
func (s *Store) CheckIn(ctx context.Context, ticketID, operatorID string, now time.Time) (*service.CheckInResult, error) {
	if !validID(ticketID) {
		return nil, service.ErrTicketNotFound
	}

	res := &service.CheckInResult{TicketID: ticketID}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ticket model.Ticket

		if err := tx.Where("id = ?", ticketID).First(&ticket).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return service.ErrTicketNotFound
			}

			return err
		}

		res.AlreadyCheckedIn = ticket.CheckedIn

		if operatorID != "" {
			var owners []string

			err := tx.
				Model(&model.Event{}).
				Joins("JOIN attendees ON attendees.event_id = events.id").
				Where("attendees.id = ?", ticket.AttendeeID).
				Pluck("events.created_by_id", &owners).
				Error
			if err != nil {
				return err
			}

			if len(owners) == 0 {
				return service.ErrAttendeeNotFound
			}

			if owners[0] != operatorID {
				return service.ErrNotEventOwner
			}
		}

		err := tx.
			Model(&model.Ticket{}).
			Where("id = ?", ticket.ID).
			Updates(map[string]any{
				"checked_in":    true,
				"checked_in_at": gorm.Expr("COALESCE(checked_in_at, ?)", now),
			}).
			Error
		if err != nil {
			return err
		}

		upd := tx.
			Model(&model.Attendee{}).
			Where("id = ?", ticket.AttendeeID).
			Update("checked_in", true)
		if upd.Error != nil {
			return upd.Error
		}

		if upd.RowsAffected == 0 {
			return service.ErrAttendeeNotFound
		}

		if err := tx.Where("id = ?", ticket.ID).First(&ticket).Error; err != nil {
			return err
		}

		res.AttendeeID = ticket.AttendeeID
		if ticket.CheckedInAt != nil {
			res.CheckedInAt = *ticket.CheckedInAt
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}
