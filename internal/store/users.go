package store

import (
	"bitwise74/event-api/internal/model"
	"context"
	"time"
)

// ClearExpiredResetTokens forgets password reset tokens that can't be used
// anymore and reports how many users were touched
func (s *Store) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.
		WithContext(ctx).
		Model(&model.User{}).
		Where("reset_token_expiry IS NOT NULL AND reset_token_expiry < ?", now.UTC()).
		Updates(map[string]any{
			"reset_token":        nil,
			"reset_token_expiry": nil,
		})

	return res.RowsAffected, res.Error
}
