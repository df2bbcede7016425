package model

import (
	"database/sql/driver"
	"fmt"
	"slices"
)

// PaymentStatus is shared by attendees and payments
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentSuccess  PaymentStatus = "SUCCESS"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

var paymentStatuses = []PaymentStatus{PaymentPending, PaymentSuccess, PaymentFailed, PaymentRefunded}

func (s PaymentStatus) Valid() bool {
	return slices.Contains(paymentStatuses, s)
}

// Value implements the driver.Valuer interface.
// Unknown statuses never reach the database, an empty one is stored as PENDING
func (s PaymentStatus) Value() (driver.Value, error) {
	if s == "" {
		return string(PaymentPending), nil
	}

	if !s.Valid() {
		return nil, fmt.Errorf("unknown payment status, %s", string(s))
	}

	return string(s), nil
}

// Scan implements the sql.Scanner interface.
func (s *PaymentStatus) Scan(value any) error {
	if value == nil {
		*s = PaymentPending
		return nil
	}

	str, ok := value.(string)
	if !ok {
		b, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("failed to scan PaymentStatus, %v", value)
		}

		str = string(b)
	}

	status := PaymentStatus(str)
	if !status.Valid() {
		return fmt.Errorf("unknown payment status in database, %s", str)
	}

	*s = status
	return nil
}
