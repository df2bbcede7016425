package service

import (
	"bitwise74/event-api/internal/model"
	"bitwise74/event-api/pkg/validators"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegistrationStore is the persistence the registration workflow needs.
// CreateRegistration must write everything in one transaction and report
// ErrEventNotFound or ErrAlreadyRegistered when the database says so
type RegistrationStore interface {
	AttendeeExists(ctx context.Context, eventID, email string) (bool, error)
	FindEvent(ctx context.Context, eventID string) (*model.Event, error)
	CreateRegistration(ctx context.Context, r *Registration) error
}

type TicketSender interface {
	SendTicket(ctx context.Context, t *TicketEmail) error
}

// Registration is everything created for one attendee. Payment is only set
// for events that require payment
type Registration struct {
	Event    *model.Event
	Attendee *model.Attendee
	Ticket   *model.Ticket
	Payment  *model.Payment
}

type RegisterInput struct {
	EventID       string
	FullName      string
	Email         string
	FormResponses map[string]any
	// Optional, defaults to PENDING. Payments are confirmed elsewhere
	PaymentStatus string
}

type Registrar struct {
	store   RegistrationStore
	sender  TicketSender
	now     func() time.Time
	newCode func() string
}

func NewRegistrar(s RegistrationStore, t TicketSender) *Registrar {
	return &Registrar{
		store:   s,
		sender:  t,
		now:     time.Now,
		newCode: uuid.NewString,
	}
}

// Register stores a new attendee with its ticket and mails the ticket out.
// When only the mail fails a *DeliveryError holding the stored registration
// is returned
func (r *Registrar) Register(ctx context.Context, in RegisterInput) (*Registration, error) {
	email := validators.NormalizeEmail(in.Email)

	if err := validateRegistration(in.FullName, email, in.FormResponses); err != nil {
		return nil, err
	}

	status, err := validators.PaymentStatusValidator(in.PaymentStatus)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRegistration, err)
	}

	found, err := r.store.AttendeeExists(ctx, in.EventID, email)
	if err != nil {
		return nil, fmt.Errorf("check existing registration: %w", err)
	}

	if found {
		return nil, ErrAlreadyRegistered
	}

	event, err := r.store.FindEvent(ctx, in.EventID)
	if err != nil {
		return nil, fmt.Errorf("find event: %w", err)
	}

	if event.IsClosed {
		return nil, ErrEventClosed
	}

	now := r.now().UTC()
	code := r.newCode()

	reg := &Registration{
		Event: event,
		Attendee: &model.Attendee{
			EventID:       event.ID,
			FullName:      strings.TrimSpace(in.FullName),
			Email:         email,
			FormResponses: in.FormResponses,
			PaymentStatus: status,
			TicketCode:    code,
		},
		Ticket: &model.Ticket{
			Code:     code,
			IssuedAt: now,
		},
	}

	if event.RequiresPayment {
		var amount float64
		if event.Amount != nil {
			amount = *event.Amount
		}

		reg.Payment = &model.Payment{
			Amount: amount,
			Status: status,
		}
	}

	if err := r.store.CreateRegistration(ctx, reg); err != nil {
		return nil, fmt.Errorf("create registration: %w", err)
	}

	zap.L().Info("Attendee registered",
		zap.String("event_id", event.ID),
		zap.String("attendee_id", reg.Attendee.ID),
		zap.String("ticket_id", reg.Ticket.ID))

	err = r.sender.SendTicket(ctx, &TicketEmail{
		Attendee: reg.Attendee,
		Event:    event,
		Ticket:   reg.Ticket,
	})
	if err != nil {
		zap.L().Error("Ticket email failed after registration was stored",
			zap.Bool("partial_success", true),
			zap.String("event_id", event.ID),
			zap.String("attendee_id", reg.Attendee.ID),
			zap.String("ticket_id", reg.Ticket.ID),
			zap.Error(err))

		return reg, &DeliveryError{Registration: reg, Err: err}
	}

	return reg, nil
}

func validateRegistration(fullName, email string, responses map[string]any) error {
	errs := []error{
		validators.FullNameValidator(fullName),
		validators.EmailValidator(email),
		validators.FormResponsesValidator(responses),
	}

	for _, err := range errs {
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRegistration, err)
		}
	}

	return nil
}

// IsValidation tells if err was caused by bad input rather than state
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidRegistration)
}
