package notifications

import (
	"context"
	"errors"

	"github.com/mkof14/digital-invest-sub001/internal/leads"
)

const (
	TemplateLeadNotification = "lead_notification"
	TemplateLeadConfirmation = "lead_confirmation"
)

const defaultLeadNotificationSubject = "New investor inquiry"

const defaultLeadNotificationBody = `<!DOCTYPE html>
<html>
<body>
  <p>A new inquiry arrived through the website:</p>
  <ul>
    <li>Name: {{.Name}}</li>
    <li>Organization: {{.Organization}}</li>
    <li>Email: {{.Email}}</li>
    <li>Phone: {{.Phone}}</li>
    <li>Subject: {{.Subject}}</li>
  </ul>
  <p>{{.Message}}</p>
  <p>Lead reference: {{.LeadID}}</p>
</body>
</html>`

const defaultLeadConfirmationSubject = "We received your inquiry"

const defaultLeadConfirmationBody = `<!DOCTYPE html>
<html>
<body>
  <p>Hello {{.Name}},</p>
  <p>Thank you for reaching out. Our team reviews every inquiry and will
  get back to you within two business days.</p>
  <p>Your reference: {{.LeadID}}</p>
</body>
</html>`

type leadEmailData struct {
	Name         string
	Organization string
	Email        string
	Phone        string
	Subject      string
	Message      string
	LeadID       string
}

type LeadMailer struct {
	client     *BrevoClient
	inboxEmail string
}

// NewLeadMailer wires the Brevo client to the leads flow. inboxEmail is
// the internal address that receives new-lead notifications.
func NewLeadMailer(client *BrevoClient, inboxEmail string) *LeadMailer {
	if client == nil || inboxEmail == "" {
		return nil
	}
	return &LeadMailer{client: client, inboxEmail: inboxEmail}
}

func leadData(lead leads.Lead) leadEmailData {
	return leadEmailData{
		Name:         lead.Name,
		Organization: lead.Organization,
		Email:        lead.Email,
		Phone:        lead.Phone,
		Subject:      lead.Subject,
		Message:      lead.Message,
		LeadID:       lead.ID,
	}
}

// SendLeadNotification alerts the internal inbox about a new lead.
func (m *LeadMailer) SendLeadNotification(ctx context.Context, lead leads.Lead) (string, error) {
	if m == nil {
		return "", errors.New("lead mailer is nil")
	}
	subject, body := m.client.resolveTemplate(ctx, TemplateLeadNotification, defaultLeadNotificationSubject, defaultLeadNotificationBody)
	html, err := renderEmail(TemplateLeadNotification, body, defaultLeadNotificationBody, leadData(lead))
	if err != nil {
		return "", err
	}
	return m.client.sendHTML(ctx, m.inboxEmail, "", subject, html)
}

// SendLeadConfirmation acknowledges the inquiry to the visitor. Leads
// without an email address are skipped silently.
func (m *LeadMailer) SendLeadConfirmation(ctx context.Context, lead leads.Lead) (string, error) {
	if m == nil {
		return "", errors.New("lead mailer is nil")
	}
	if lead.Email == "" {
		return "", nil
	}
	subject, body := m.client.resolveTemplate(ctx, TemplateLeadConfirmation, defaultLeadConfirmationSubject, defaultLeadConfirmationBody)
	html, err := renderEmail(TemplateLeadConfirmation, body, defaultLeadConfirmationBody, leadData(lead))
	if err != nil {
		return "", err
	}
	return m.client.sendHTML(ctx, lead.Email, lead.Name, subject, html)
}
