package service

import (
	"bitwise74/event-api/internal/model"
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/skip2/go-qrcode"
)

const (
	qrSize       = 150
	qrImageName  = "ticket-qr.png"
	startsLayout = "Monday, January 2, 2006 at 03:04 PM MST"
	startsTBD    = "Date & Time TBD"
)

// TicketEmail is what gets rendered into the ticket mail
type TicketEmail struct {
	Attendee *model.Attendee
	Event    *model.Event
	Ticket   *model.Ticket
}

type RenderedTicket struct {
	Subject string
	HTML    string
	// PNG encoded QR code holding the ticket code. The HTML refers to it as
	// cid:ImageName so it has to be embedded under that name
	QR        []byte
	ImageName string
}

var ticketTmpl = template.Must(template.New("ticket").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Your Event Ticket</title>
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; background-color: #f4f4f4; padding: 20px; line-height: 1.6;">
<div style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; overflow: hidden;">
  <div style="background-color: #007bff; color: #ffffff; padding: 20px; text-align: center;">
    <h1 style="margin: 0; font-size: 24px;">Ticket Confirmation</h1>
  </div>
  <div style="padding: 30px;">
    <p>Hello <strong>{{.Name}}</strong>,</p>
    <p>Thank you for registering. Here is your ticket for <strong>{{.Title}}</strong>.</p>
    <div style="margin-bottom: 20px; padding: 15px; border: 1px dashed #cccccc; border-radius: 4px;">
      <strong>EVENT NAME:</strong> {{.Title}}<br>
      <strong>DATE &amp; TIME:</strong> {{.Starts}}<br>
      <strong>ATTENDEE:</strong> {{.Name}}<br>
      <strong>EMAIL:</strong> {{.Email}}<br>
      <strong>TICKET CODE:</strong> <code>{{.Code}}</code>
    </div>
    <p>Please bring this email (digital or print) to the event. The QR code below will be scanned at check-in.</p>
    <div style="text-align: center; margin-top: 30px; padding-top: 20px; border-top: 1px solid #eeeeee;">
      <h3>Your Entry QR Code</h3>
      <img src="cid:{{.Image}}" alt="QR Code for Ticket" width="{{.Size}}" height="{{.Size}}" style="display: block; margin: 10px auto;">
      <small><strong>Ticket Code:</strong> {{.Code}}</small>
    </div>
  </div>
  <div style="background-color: #f9f9f9; padding: 15px; text-align: center; font-size: 12px; color: #777777;">
    <p>This is an automated email. Please do not reply.</p>
  </div>
</div>
</body>
</html>
`))

type ticketView struct {
	Name   string
	Email  string
	Title  string
	Starts string
	Code   string
	Image  string
	Size   int
}

// RenderTicket builds the ticket mail. The start time is shown in loc, a nil
// loc means UTC
func RenderTicket(t *TicketEmail, loc *time.Location) (*RenderedTicket, error) {
	if t == nil || t.Attendee == nil || t.Event == nil {
		return nil, fmt.Errorf("%w: incomplete ticket", ErrDelivery)
	}

	code := t.Attendee.TicketCode
	if t.Ticket != nil && t.Ticket.Code != "" {
		code = t.Ticket.Code
	}

	if code == "" {
		return nil, ErrMissingTicketCode
	}

	png, err := qrcode.Encode(code, qrcode.High, qrSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code, %w", err)
	}

	if loc == nil {
		loc = time.UTC
	}

	starts := startsTBD
	if t.Event.StartsAt != nil {
		starts = t.Event.StartsAt.In(loc).Format(startsLayout)
	}

	var buf bytes.Buffer

	err = ticketTmpl.Execute(&buf, ticketView{
		Name:   t.Attendee.FullName,
		Email:  t.Attendee.Email,
		Title:  t.Event.Title,
		Starts: starts,
		Code:   code,
		Image:  qrImageName,
		Size:   qrSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render ticket, %w", err)
	}

	return &RenderedTicket{
		Subject:   "Your Ticket for " + t.Event.Title,
		HTML:      buf.String(),
		QR:        png,
		ImageName: qrImageName,
	}, nil
}
