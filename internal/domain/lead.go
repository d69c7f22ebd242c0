package domain

import "time"

// LeadStatus tracks a captured lead through follow-up.
type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadConverted LeadStatus = "converted"
	LeadLost      LeadStatus = "lost"
)

// Lead is a contact record captured from the widget's lead form.
type Lead struct {
	ID                   string     `json:"id"`
	SessionID            string     `json:"session_id"`
	Name                 string     `json:"name"`
	Email                string     `json:"email"`
	Phone                string     `json:"phone"`
	Company              string     `json:"company,omitempty"`
	ServiceInterest      string     `json:"service_interest,omitempty"`
	PreferredContactTime string     `json:"preferred_contact_time,omitempty"`
	Message              string     `json:"message,omitempty"`
	CapturedAt           time.Time  `json:"captured_at"`
	Status               LeadStatus `json:"status"`
	Source               string     `json:"source,omitempty"`
}

// LeadForm is the raw lead-capture form submission, validated before a
// Lead record is created.
type LeadForm struct {
	SessionID            string `json:"session_id" binding:"required"`
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Phone                string `json:"phone"`
	Company              string `json:"company,omitempty"`
	ServiceInterest      string `json:"service_interest,omitempty"`
	PreferredContactTime string `json:"preferred_contact_time,omitempty"`
	Message              string `json:"message,omitempty"`
}

// EscalationStatus tracks a human-escalation request.
type EscalationStatus string

const (
	EscalationPending  EscalationStatus = "pending"
	EscalationResolved EscalationStatus = "resolved"
)

// UserContact is the optional contact info attached to an escalation.
type UserContact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Escalation is a request to hand the conversation to a human, carrying
// the transcript at the time of the request.
type Escalation struct {
	ID         string           `json:"id"`
	SessionID  string           `json:"session_id"`
	Transcript []Message        `json:"transcript"`
	Contact    UserContact      `json:"contact,omitempty"`
	Reason     string           `json:"reason"`
	CreatedAt  time.Time        `json:"created_at"`
	Status     EscalationStatus `json:"status"`
	ResolvedAt *time.Time       `json:"resolved_at,omitempty"`
	ResolvedBy string           `json:"resolved_by,omitempty"`
}

// EscalationRequest is the widget's explicit escalation submission.
type EscalationRequest struct {
	SessionID string      `json:"session_id" binding:"required"`
	Reason    string      `json:"reason"`
	Contact   UserContact `json:"contact,omitempty"`
}
