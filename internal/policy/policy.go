// Package policy holds the pure decision functions that gate escalation
// and lead capture. Both are total functions with no hidden state.
package policy

import "github.com/leadchat/leadchat/internal/domain"

// MinConfidenceThreshold is the confidence below which a reply is
// considered unreliable.
const MinConfidenceThreshold = 0.6

// ShouldEscalate reports whether a human-escalation affordance should be
// offered after a reply. The boundary is strict: confidence exactly at
// the threshold does not escalate.
func ShouldEscalate(confidence float64, intent domain.Intent) bool {
	if confidence < MinConfidenceThreshold {
		return true
	}
	return intent == domain.IntentUnknown
}

// ShouldPromptLead reports whether the lead-capture form should be
// offered. Only booking and pricing intents qualify, only above the
// confidence threshold (strict), and never once a lead is captured.
func ShouldPromptLead(intent domain.Intent, confidence float64, alreadyCaptured bool) bool {
	if alreadyCaptured {
		return false
	}
	if intent != domain.IntentBooking && intent != domain.IntentPricing {
		return false
	}
	return confidence > MinConfidenceThreshold
}
