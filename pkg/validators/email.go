// Package validators contains validators found throughout the application
// that have been abstracted away from the main code
package validators

import (
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrEmailEmpty   = errors.New("no email address provided")
	ErrEmailInvalid = errors.New("invalid email address provided")
)

func EmailValidator(e string) error {
	if e == "" {
		return ErrEmailEmpty
	}

	addr, err := mail.ParseAddress(e)
	if err != nil {
		return ErrEmailInvalid
	}

	// "Ana <ana@x.com>" parses fine but isn't a bare address
	if addr.Address != e {
		return ErrEmailInvalid
	}

	return nil
}

// NormalizeEmail is applied before anything is stored or compared so that
// registrations don't differ only by case
func NormalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
