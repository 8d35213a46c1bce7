package notifications

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/mkof14/digital-invest-sub001/internal/models"
)

const TemplateBookingConfirmation = "booking_confirmation"

const defaultBookingSubject = "Your consultation is booked"

const defaultBookingBody = `<!DOCTYPE html>
<html>
<body>
  <p>Hello {{.Name}},</p>
  <p>Your consultation has been scheduled. The details:</p>
  <ul>
    <li>Date: {{.Date}}</li>
    <li>Time: {{.Start}} - {{.End}}</li>
    <li>Topic: {{.Topic}}</li>
    <li>Reference: {{.BookingID}}</li>
  </ul>
  <p>We will confirm the appointment shortly. If you need to reschedule,
  reply to this email with your reference number.</p>
</body>
</html>`

type bookingEmailData struct {
	Name      string
	Date      string
	Start     string
	End       string
	Topic     string
	BookingID string
}

// SendBookingConfirmation renders the booking confirmation (admin
// override first, built-in fallback) and delivers it to the visitor.
func (c *BrevoClient) SendBookingConfirmation(ctx context.Context, booking models.Booking) (string, error) {
	if c == nil {
		return "", errors.New("brevo client is nil")
	}

	subject, body := c.resolveTemplate(ctx, TemplateBookingConfirmation, defaultBookingSubject, defaultBookingBody)
	data := bookingEmailData{
		Name:      booking.Name,
		Date:      booking.Date,
		Start:     booking.Time,
		End:       booking.EndTime,
		Topic:     booking.Topic,
		BookingID: booking.ID,
	}

	html, err := renderEmail(TemplateBookingConfirmation, body, defaultBookingBody, data)
	if err != nil {
		return "", err
	}
	return c.sendHTML(ctx, booking.Email, booking.Name, subject, html)
}

// renderEmail executes the chosen body template, falling back to the
// built-in body when an admin override fails to parse or execute.
func renderEmail(name, body, fallback string, data interface{}) (string, error) {
	if html, err := executeTemplate(name, body, data); err == nil {
		return html, nil
	}
	html, err := executeTemplate(name+"_default", fallback, data)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return html, nil
}

func executeTemplate(name, body string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(body)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
