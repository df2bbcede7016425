// Package store is the gorm backed persistence used by the workflows in
// internal/service
package store

import (
	"bitwise74/event-api/internal/service"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// translate maps constraint errors onto the errors the workflows understand.
// Sentinels returned from inside a transaction pass through untouched
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return service.ErrAlreadyRegistered
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return service.ErrEventNotFound
	}

	return err
}

// Drivers without an error translator still report the constraint in the
// message
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "SQLSTATE 23505")
}

// Postgres refuses to compare a uuid column with garbage, so ids are checked
// before they reach a query
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
