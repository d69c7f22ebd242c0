package domain

import "time"

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// SessionStatus is the lifecycle state of a chat session.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionEscalated SessionStatus = "escalated"
)

// Message is a single chat message. Messages are immutable once appended
// to a session log. Intent and Confidence are set only on bot messages.
type Message struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Content    string    `json:"content"`
	Sender     Sender    `json:"sender"`
	Timestamp  time.Time `json:"timestamp"`
	Intent     Intent    `json:"intent,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
}

// Session is one widget conversation. The message log is append-only;
// status becomes escalated if the session was ever escalated, otherwise
// completed once the session ends.
type Session struct {
	ID           string        `json:"id"`
	StartTime    time.Time     `json:"start_time"`
	EndTime      *time.Time    `json:"end_time,omitempty"`
	Messages     []Message     `json:"messages"`
	LeadCaptured bool          `json:"lead_captured"`
	Escalated    bool          `json:"escalated"`
	Status       SessionStatus `json:"status"`
	Metadata     SessionMeta   `json:"metadata"`
}

// SessionMeta carries optional client context recorded at session start.
type SessionMeta struct {
	UserAgent string `json:"user_agent,omitempty"`
	Referrer  string `json:"referrer,omitempty"`
}

// ChatRequest is the request to send a chat message.
type ChatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

// ChatResponse is the result of one conversation turn.
type ChatResponse struct {
	SessionID         string  `json:"session_id"`
	Reply             Message `json:"reply"`
	Intent            Intent  `json:"intent"`
	Confidence        float64 `json:"confidence"`
	EscalationOffered bool    `json:"escalation_offered"`
	LeadFormPending   bool    `json:"lead_form_pending"`
}

// SessionState is the observable widget state for one session.
type SessionState struct {
	SessionID         string        `json:"session_id"`
	Messages          []Message     `json:"messages"`
	IsTyping          bool          `json:"is_typing"`
	EscalationOffered bool          `json:"escalation_offered"`
	LeadFormShown     bool          `json:"lead_form_shown"`
	LeadCaptured      bool          `json:"lead_captured"`
	Escalated         bool          `json:"escalated"`
	Status            SessionStatus `json:"status"`
}

// Stats summarizes activity for the admin dashboard.
type Stats struct {
	TotalConversations int     `json:"total_conversations"`
	TotalMessages      int     `json:"total_messages"`
	TotalLeads         int     `json:"total_leads"`
	TotalEscalations   int     `json:"total_escalations"`
	EscalationRate     float64 `json:"escalation_rate"`
	ConvertedLeads     int     `json:"converted_leads"`
}
