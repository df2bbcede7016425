package service

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

var resetTmpl = template.Must(template.New("reset").Parse(
	`Click <a href="{{.Link}}">here</a> to choose a new password.<br><br>This link will expire in {{.Hours}} hours. If you didn't ask for it you can ignore this email.`,
))

// SendResetMail mails a password reset link. The link has to be absolute
func (m *Mailer) SendResetMail(ctx context.Context, sendTo, link string, validFor time.Duration) error {
	if strings.EqualFold(sendTo, m.from) {
		return errors.New("invalid email address")
	}

	var body strings.Builder

	err := resetTmpl.Execute(&body, struct {
		Link  string
		Hours int
	}{link, int(validFor.Hours())})
	if err != nil {
		return fmt.Errorf("failed to render reset mail, %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", sendTo)
	msg.SetHeader("Subject", "Reset your password")
	msg.SetBody("text/html", body.String())

	return m.send(ctx, msg)
}
