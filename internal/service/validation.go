package service

import (
	"regexp"
	"strings"

	"github.com/leadchat/leadchat/internal/domain"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^(\+92|0)?[0-9]{10,11}$`)
	phoneStrip   = strings.NewReplacer("-", "", " ", "")
)

const (
	nameMinLength    = 2
	nameMaxLength    = 50
	messageMaxLength = 500
)

// ValidationErrors maps field names to human-readable problems.
type ValidationErrors map[string]string

// ValidateLeadForm checks a lead-capture submission field by field.
// Invalid forms are rejected before they reach the orchestrator.
func ValidateLeadForm(form *domain.LeadForm) ValidationErrors {
	errs := ValidationErrors{}

	name := strings.TrimSpace(form.Name)
	switch {
	case name == "":
		errs["name"] = "Name is required"
	case len(name) < nameMinLength || len(name) > nameMaxLength:
		errs["name"] = "Name must be between 2 and 50 characters"
	}

	email := strings.TrimSpace(form.Email)
	switch {
	case email == "":
		errs["email"] = "Email is required"
	case !emailPattern.MatchString(email):
		errs["email"] = "Please enter a valid email address"
	}

	phone := strings.TrimSpace(form.Phone)
	switch {
	case phone == "":
		errs["phone"] = "Phone number is required"
	case !phonePattern.MatchString(phoneStrip.Replace(phone)):
		errs["phone"] = "Please enter a valid phone number"
	}

	if msg := strings.TrimSpace(form.Message); len(msg) > messageMaxLength {
		errs["message"] = "Message is too long (max 500 characters)"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
