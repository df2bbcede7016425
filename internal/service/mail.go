package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Dialer sends finished messages. *gomail.Dialer satisfies it
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends every mail the service produces over SMTP. Nothing is retried,
// a failed send is reported to the caller wrapped in ErrDelivery
type Mailer struct {
	dialer Dialer
	from   string
	loc    *time.Location
}

func NewMailer(d Dialer, from string, loc *time.Location) *Mailer {
	if loc == nil {
		loc = time.UTC
	}

	return &Mailer{
		dialer: d,
		from:   from,
		loc:    loc,
	}
}

// NewMailerFromConfig builds a Mailer from the mail.* config keys
func NewMailerFromConfig() (*Mailer, error) {
	loc, err := time.LoadLocation(viper.GetString("mail.timezone"))
	if err != nil {
		return nil, fmt.Errorf("invalid mail.timezone, %w", err)
	}

	d := gomail.NewDialer(
		viper.GetString("mail.host"),
		viper.GetInt("mail.port"),
		viper.GetString("mail.user"),
		viper.GetString("mail.password"),
	)

	return NewMailer(d, viper.GetString("mail.sender"), loc), nil
}

// SendTicket mails the rendered ticket with its QR code embedded inline
func (m *Mailer) SendTicket(ctx context.Context, t *TicketEmail) error {
	r, err := RenderTicket(t, m.loc)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", t.Attendee.Email)
	msg.SetHeader("Subject", r.Subject)
	msg.SetBody("text/html", r.HTML)
	msg.Embed(r.ImageName, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(r.QR)
		return err
	}))

	if err := m.send(ctx, msg); err != nil {
		return err
	}

	zap.L().Debug("Ticket email sent", zap.String("attendee_id", t.Attendee.ID))
	return nil
}

func (m *Mailer) send(ctx context.Context, msg *gomail.Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}

	return nil
}
