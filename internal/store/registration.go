package store

import (
	"bitwise74/event-api/internal/model"
	"bitwise74/event-api/internal/service"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) AttendeeExists(ctx context.Context, eventID, email string) (bool, error) {
	if !validID(eventID) {
		return false, nil
	}

	var count int64

	err := s.db.
		WithContext(ctx).
		Model(&model.Attendee{}).
		Where("event_id = ? AND email = ?", eventID, email).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (s *Store) FindEvent(ctx context.Context, eventID string) (*model.Event, error) {
	if !validID(eventID) {
		return nil, service.ErrEventNotFound
	}

	var event model.Event

	err := s.db.
		WithContext(ctx).
		Where("id = ?", eventID).
		First(&event).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrEventNotFound
		}

		return nil, err
	}

	return &event, nil
}

// CreateRegistration writes the attendee, its ticket and the optional payment
// in one transaction. The event is looked up again inside the transaction so a
// deleted or closed event never gets new rows
func (s *Store) CreateRegistration(ctx context.Context, r *service.Registration) error {
	if r == nil || r.Attendee == nil || r.Ticket == nil {
		return errors.New("incomplete registration")
	}

	if !validID(r.Attendee.EventID) {
		return service.ErrEventNotFound
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event model.Event

		err := tx.
			Select("id", "is_closed").
			Where("id = ?", r.Attendee.EventID).
			First(&event).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return service.ErrEventNotFound
			}

			return fmt.Errorf("failed to lock event, %w", err)
		}

		if event.IsClosed {
			return service.ErrEventClosed
		}

		if err := tx.Omit(clause.Associations).Create(r.Attendee).Error; err != nil {
			return err
		}

		r.Ticket.AttendeeID = r.Attendee.ID
		if err := tx.Omit(clause.Associations).Create(r.Ticket).Error; err != nil {
			return err
		}

		if r.Payment != nil {
			r.Payment.AttendeeID = r.Attendee.ID
			if err := tx.Create(r.Payment).Error; err != nil {
				return err
			}
		}

		return nil
	})

	return translate(err)
}
