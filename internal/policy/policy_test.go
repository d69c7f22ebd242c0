package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leadchat/leadchat/internal/domain"
)

func TestShouldEscalate(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		intent     domain.Intent
		want       bool
	}{
		{"below threshold", 0.59, domain.IntentGeneral, true},
		{"exactly at threshold", 0.6, domain.IntentGeneral, false},
		{"above threshold", 0.9, domain.IntentGeneral, false},
		{"unknown intent escalates regardless of confidence", 0.9, domain.IntentUnknown, true},
		{"unknown intent with low confidence", 0.1, domain.IntentUnknown, true},
		{"fallback confidence", 0.2, domain.IntentBooking, true},
		{"high confidence factual", 0.85, domain.IntentPricing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldEscalate(tt.confidence, tt.intent))
		})
	}
}

func TestShouldPromptLead(t *testing.T) {
	tests := []struct {
		name            string
		intent          domain.Intent
		confidence      float64
		alreadyCaptured bool
		want            bool
	}{
		{"booking above threshold", domain.IntentBooking, 0.61, false, true},
		{"booking exactly at threshold", domain.IntentBooking, 0.60, false, false},
		{"booking already captured", domain.IntentBooking, 0.9, true, false},
		{"pricing above threshold", domain.IntentPricing, 0.8, false, true},
		{"pricing already captured", domain.IntentPricing, 0.8, true, false},
		{"services never prompts", domain.IntentServices, 0.95, false, false},
		{"general never prompts", domain.IntentGeneral, 0.95, false, false},
		{"unknown never prompts", domain.IntentUnknown, 0.95, false, false},
		{"booking below threshold", domain.IntentBooking, 0.3, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldPromptLead(tt.intent, tt.confidence, tt.alreadyCaptured))
		})
	}
}
