package service

import (
	"errors"
	"fmt"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrAttendeeNotFound = errors.New("attendee not found")
)

var (
	ErrAlreadyRegistered = errors.New("you have already registered for this event")
	ErrEventClosed       = errors.New("registration for this event is closed")
	ErrNotEventOwner     = errors.New("only the event creator can do this")
)

var (
	ErrInvalidRegistration = errors.New("invalid registration")
	ErrMissingTicketCode   = errors.New("ticket code is required to send email")
	ErrDelivery            = errors.New("failed to deliver email")
)

// DeliveryError is returned when a registration was stored but the ticket
// email could not be sent. The registration stays in place and the ticket can
// be re-sent later
type DeliveryError struct {
	Registration *Registration
	Err          error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("registration %s stored but ticket email failed: %v", e.Registration.Attendee.ID, e.Err)
}

func (e *DeliveryError) Unwrap() []error {
	return []error{ErrDelivery, e.Err}
}
