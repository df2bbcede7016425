package service

import (
	"bitwise74/event-api/internal/model"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"gopkg.in/gomail.v2"
)

type mockRegistrationStore struct {
	mock.Mock
}

func (m *mockRegistrationStore) AttendeeExists(ctx context.Context, eventID, email string) (bool, error) {
	args := m.Called(ctx, eventID, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockRegistrationStore) FindEvent(ctx context.Context, eventID string) (*model.Event, error) {
	args := m.Called(ctx, eventID)
	e, _ := args.Get(0).(*model.Event)
	return e, args.Error(1)
}

func (m *mockRegistrationStore) CreateRegistration(ctx context.Context, r *Registration) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

type mockTicketSender struct {
	mock.Mock
}

func (m *mockTicketSender) SendTicket(ctx context.Context, t *TicketEmail) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

type mockCheckInStore struct {
	mock.Mock
}

func (m *mockCheckInStore) CheckIn(ctx context.Context, ticketID, operatorID string, now time.Time) (*CheckInResult, error) {
	args := m.Called(ctx, ticketID, operatorID, now)
	r, _ := args.Get(0).(*CheckInResult)
	return r, args.Error(1)
}

type mockEventCloser struct {
	mock.Mock
}

func (m *mockEventCloser) CloseEndedEvents(ctx context.Context, now time.Time) ([]string, error) {
	args := m.Called(ctx, now)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

// fakeDialer records messages instead of talking to an SMTP server
type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}

	f.sent = append(f.sent, m...)
	return nil
}
