package validators

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	ErrTitleEmpty       = errors.New("title can't be empty")
	ErrTitleTooLong     = errors.New("title is too long")
	ErrAmountMissing    = errors.New("amount is required for paid events")
	ErrAmountInvalid    = errors.New("amount must be bigger than 0")
	ErrFormFieldsFormat = errors.New("form fields must be a JSON array of objects")
	ErrEventWindow      = errors.New("event must end after it starts")
)

const maxTitleLen = 255

// EventOpts holds the event fields that need checking on create and update
type EventOpts struct {
	Title           string
	RequiresPayment bool
	Amount          *float64
	FormFields      json.RawMessage
	StartsAt        *time.Time
	EndsAt          *time.Time
}

func EventValidator(o *EventOpts) error {
	title := strings.TrimSpace(o.Title)
	if title == "" {
		return ErrTitleEmpty
	}

	if len(title) > maxTitleLen {
		return ErrTitleTooLong
	}

	if o.RequiresPayment {
		if o.Amount == nil {
			return ErrAmountMissing
		}

		if *o.Amount <= 0 {
			return ErrAmountInvalid
		}
	}

	if err := FormFieldsValidator(o.FormFields); err != nil {
		return err
	}

	if o.StartsAt != nil && o.EndsAt != nil && !o.EndsAt.After(*o.StartsAt) {
		return ErrEventWindow
	}

	return nil
}

// FormFieldsValidator accepts an absent schema or an array of objects. What
// the objects contain is up to the event creator
func FormFieldsValidator(raw json.RawMessage) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var fields []map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ErrFormFieldsFormat
	}

	return nil
}
