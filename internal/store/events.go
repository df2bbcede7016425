package store

import (
	"bitwise74/event-api/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// CloseEndedEvents closes every open event that ended before now and returns
// the ids it closed. Closed events are never reopened here
func (s *Store) CloseEndedEvents(ctx context.Context, now time.Time) ([]string, error) {
	var ids []string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Model(&model.Event{}).
			Where("is_closed = ? AND ends_at IS NOT NULL AND ends_at < ?", false, now.UTC()).
			Pluck("id", &ids).
			Error
		if err != nil {
			return err
		}

		if len(ids) == 0 {
			return nil
		}

		return tx.
			Model(&model.Event{}).
			Where("id IN ? AND is_closed = ?", ids, false).
			Update("is_closed", true).
			Error
	})
	if err != nil {
		return nil, err
	}

	return ids, nil
}
