// Package notify delivers lead and escalation alerts to the business.
// Delivery is fire-and-forget: failures are logged and never surfaced to
// the conversation flow or allowed to reverse a saved record.
package notify

import (
	"context"

	"github.com/leadchat/leadchat/internal/domain"
)

// Notifier delivers alerts for captured leads and escalation requests.
type Notifier interface {
	NotifyLead(ctx context.Context, lead *domain.Lead) error
	NotifyEscalation(ctx context.Context, esc *domain.Escalation) error
}

// Nop is a Notifier that does nothing. Used when email notifications are
// disabled.
type Nop struct{}

func (Nop) NotifyLead(context.Context, *domain.Lead) error             { return nil }
func (Nop) NotifyEscalation(context.Context, *domain.Escalation) error { return nil }
