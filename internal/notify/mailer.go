package notify

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/leadchat/leadchat/internal/domain"
)

// Mailer sends lead and escalation alerts over SMTP.
type Mailer struct {
	dialer   *gomail.Dialer
	from     string
	to       string
	business string
}

// NewMailer creates an SMTP-backed Notifier.
func NewMailer(host string, port int, username, password, from, to, businessName string) *Mailer {
	return &Mailer{
		dialer:   gomail.NewDialer(host, port, username, password),
		from:     from,
		to:       to,
		business: businessName,
	}
}

// NotifyLead emails the business about a newly captured lead.
func (m *Mailer) NotifyLead(ctx context.Context, lead *domain.Lead) error {
	body := fmt.Sprintf(`A new lead was captured by the chat widget.

Name: %s
Email: %s
Phone: %s
Company: %s
Service interest: %s
Preferred contact time: %s
Message: %s
Captured at: %s
Session: %s`,
		lead.Name, lead.Email, lead.Phone,
		orNA(lead.Company), orNA(lead.ServiceInterest), orNA(lead.PreferredContactTime),
		orNA(lead.Message), lead.CapturedAt.Format("2006-01-02 15:04:05"), lead.SessionID)

	subject := fmt.Sprintf("New Lead: %s - %s", lead.Name, m.business)
	return m.send(ctx, subject, body)
}

// NotifyEscalation emails the business about a human-escalation request,
// including the conversation transcript.
func (m *Mailer) NotifyEscalation(ctx context.Context, esc *domain.Escalation) error {
	var transcript strings.Builder
	for _, msg := range esc.Transcript {
		fmt.Fprintf(&transcript, "%s: %s\n", strings.ToUpper(string(msg.Sender)), msg.Content)
	}

	body := fmt.Sprintf(`A visitor asked to speak with a human representative.

Reason: %s
Session: %s
Contact: %s / %s / %s
Created at: %s

Conversation:
%s`,
		esc.Reason, esc.SessionID,
		orNA(esc.Contact.Name), orNA(esc.Contact.Email), orNA(esc.Contact.Phone),
		esc.CreatedAt.Format("2006-01-02 15:04:05"), transcript.String())

	subject := fmt.Sprintf("Human Escalation Required - %s", m.business)
	return m.send(ctx, subject, body)
}

func (m *Mailer) send(ctx context.Context, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
