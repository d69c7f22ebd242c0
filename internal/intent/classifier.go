// Package intent provides keyword-based intent classification for user
// utterances. Classification is a pure function: deliberately simple,
// stateless, and swappable for a stronger classifier without touching
// the orchestrator contract.
package intent

import (
	"strings"

	"github.com/leadchat/leadchat/internal/domain"
)

// classifierOrder is the fixed evaluation order. Ties on match count
// keep the earliest intent in this order.
var classifierOrder = []domain.Intent{
	domain.IntentPricing,
	domain.IntentServices,
	domain.IntentBooking,
	domain.IntentContact,
	domain.IntentHours,
	domain.IntentFAQ,
}

var keywords = map[domain.Intent][]string{
	domain.IntentPricing:  {"price", "cost", "pricing", "how much", "fee", "charge", "rate", "pkr", "rupees"},
	domain.IntentServices: {"service", "offer", "provide", "do you have", "available", "what do you"},
	domain.IntentBooking:  {"book", "appointment", "schedule", "meeting", "visit", "reserve"},
	domain.IntentContact:  {"contact", "reach", "call", "email", "phone", "address", "location"},
	domain.IntentHours:    {"hours", "open", "close", "timing", "when", "available time"},
	domain.IntentFAQ:      {"how", "what", "why", "where", "who", "can you"},
}

const (
	noMatchConfidence = 0.3
	baseConfidence    = 0.5
	perMatchBoost     = 0.15
	maxConfidence     = 0.95
)

// Classify maps raw text to an intent and a confidence estimate. Input
// is lower-cased and each intent's trigger phrases are counted as
// substring matches; the intent with the strictly greatest count wins.
// Zero matches yield IntentGeneral with confidence 0.3.
func Classify(text string) (domain.Intent, float64) {
	lower := strings.ToLower(text)

	detected := domain.IntentGeneral
	maxMatches := 0
	for _, it := range classifierOrder {
		matches := 0
		for _, kw := range keywords[it] {
			if strings.Contains(lower, kw) {
				matches++
			}
		}
		if matches > maxMatches {
			maxMatches = matches
			detected = it
		}
	}

	if maxMatches == 0 {
		return domain.IntentGeneral, noMatchConfidence
	}

	confidence := baseConfidence + float64(maxMatches)*perMatchBoost
	if confidence > maxConfidence {
		confidence = maxConfidence
	}
	return detected, confidence
}
