package domain

// Intent is the coarse category of a user utterance. The set is closed:
// keyword matching falls back to IntentGeneral, IntentUnknown is reserved
// for classifier failure.
type Intent string

const (
	IntentPricing  Intent = "pricing"
	IntentServices Intent = "services"
	IntentBooking  Intent = "booking"
	IntentContact  Intent = "contact"
	IntentHours    Intent = "hours"
	IntentFAQ      Intent = "faq"
	IntentGeneral  Intent = "general"
	IntentUnknown  Intent = "unknown"
)

// FactualIntents are the intents answerable directly from the business
// context; replies for these score higher confidence.
var FactualIntents = []Intent{IntentPricing, IntentServices, IntentHours}

// IsFactual reports whether the intent is answerable from business facts.
func (i Intent) IsFactual() bool {
	for _, f := range FactualIntents {
		if i == f {
			return true
		}
	}
	return false
}
