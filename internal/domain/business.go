package domain

import (
	"fmt"
	"strings"
)

// BusinessContext is the read-only configuration bundle describing the
// business the widget fronts. It is supplied once per deployment and
// never mutated by the conversation core.
type BusinessContext struct {
	Name          string   `json:"name" mapstructure:"name"`
	Industry      string   `json:"industry" mapstructure:"industry"`
	Services      []string `json:"services" mapstructure:"services"`
	Pricing       string   `json:"pricing" mapstructure:"pricing"`
	BusinessHours string   `json:"business_hours" mapstructure:"business_hours"`
	ContactEmail  string   `json:"contact_email" mapstructure:"contact_email"`
	ContactPhone  string   `json:"contact_phone" mapstructure:"contact_phone"`
}

// PromptContext renders the business facts as a block for LLM prompts.
func (b BusinessContext) PromptContext() string {
	return strings.TrimSpace(fmt.Sprintf(`Business Name: %s
Industry: %s
Services: %s
Pricing: %s
Business Hours: %s
Contact Email: %s
Contact Phone: %s`,
		b.Name, b.Industry, strings.Join(b.Services, ", "),
		b.Pricing, b.BusinessHours, b.ContactEmail, b.ContactPhone))
}

// WidgetSettings holds UI configuration served to the embedded widget.
type WidgetSettings struct {
	Theme          string   `json:"theme" mapstructure:"theme"`
	PrimaryColor   string   `json:"primary_color" mapstructure:"primary_color"`
	Position       string   `json:"position" mapstructure:"position"`
	WelcomeMessage string   `json:"welcome_message" mapstructure:"welcome_message"`
	Placeholder    string   `json:"placeholder" mapstructure:"placeholder"`
	QuickReplies   []string `json:"quick_replies" mapstructure:"quick_replies"`
}

// Features toggles optional widget behaviors.
type Features struct {
	LeadCapture        bool `json:"lead_capture" mapstructure:"lead_capture"`
	HumanEscalation    bool `json:"human_escalation" mapstructure:"human_escalation"`
	EmailNotifications bool `json:"email_notifications" mapstructure:"email_notifications"`
}

// DefaultWidgetSettings returns the default widget configuration.
func DefaultWidgetSettings() WidgetSettings {
	return WidgetSettings{
		Theme:          "light",
		PrimaryColor:   "#3b82f6",
		Position:       "bottom-right",
		WelcomeMessage: "Hi! I'm your AI Assistant. How can I help you today?",
		Placeholder:    "Type your message...",
	}
}
