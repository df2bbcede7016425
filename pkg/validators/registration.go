package validators

import (
	"bitwise74/event-api/internal/model"
	"errors"
	"strings"
)

var (
	ErrFullNameEmpty        = errors.New("full name can't be empty")
	ErrFullNameTooLong      = errors.New("full name is too long")
	ErrFormResponsesMissing = errors.New("form responses must be a JSON object")
	ErrPaymentStatusInvalid = errors.New("payment status must be one of PENDING, SUCCESS, FAILED, REFUNDED")
)

const maxFullNameLen = 255

func FullNameValidator(n string) error {
	n = strings.TrimSpace(n)
	if n == "" {
		return ErrFullNameEmpty
	}

	if len(n) > maxFullNameLen {
		return ErrFullNameTooLong
	}

	return nil
}

// FormResponsesValidator only checks the shape. An empty object is fine
func FormResponsesValidator(r map[string]any) error {
	if r == nil {
		return ErrFormResponsesMissing
	}

	return nil
}

// PaymentStatusValidator parses an optional, client supplied payment status.
// An empty string means PENDING
func PaymentStatusValidator(s string) (model.PaymentStatus, error) {
	if s == "" {
		return model.PaymentPending, nil
	}

	status := model.PaymentStatus(strings.ToUpper(s))
	if !status.Valid() {
		return "", ErrPaymentStatusInvalid
	}

	return status, nil
}
