package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leadchat/leadchat/internal/domain"
)

func validForm() *domain.LeadForm {
	return &domain.LeadForm{
		SessionID: "session-1",
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Phone:     "0300-1234567",
		Message:   "Please call me back about pricing.",
	}
}

func TestValidateLeadFormAccepted(t *testing.T) {
	assert.Nil(t, ValidateLeadForm(validForm()))
}

func TestValidateLeadFormName(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr string
	}{
		{"missing", "", "Name is required"},
		{"whitespace only", "   ", "Name is required"},
		{"too short", "J", "Name must be between 2 and 50 characters"},
		{"too long", strings.Repeat("a", 51), "Name must be between 2 and 50 characters"},
		{"at max", strings.Repeat("a", 50), ""},
		{"at min", "Jo", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			form.Name = tt.value
			errs := ValidateLeadForm(form)
			if tt.wantErr == "" {
				assert.Empty(t, errs["name"])
			} else {
				assert.Equal(t, tt.wantErr, errs["name"])
			}
		})
	}
}

func TestValidateLeadFormEmail(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr string
	}{
		{"missing", "", "Email is required"},
		{"no at sign", "jane.example.com", "Please enter a valid email address"},
		{"no domain dot", "jane@example", "Please enter a valid email address"},
		{"embedded space", "jane doe@example.com", "Please enter a valid email address"},
		{"valid", "jane@example.com", ""},
		{"valid with plus", "jane+widget@example.co.uk", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			form.Email = tt.value
			errs := ValidateLeadForm(form)
			if tt.wantErr == "" {
				assert.Empty(t, errs["email"])
			} else {
				assert.Equal(t, tt.wantErr, errs["email"])
			}
		})
	}
}

func TestValidateLeadFormPhone(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr string
	}{
		{"missing", "", "Phone number is required"},
		{"letters", "call-me-maybe", "Please enter a valid phone number"},
		{"too short", "12345", "Please enter a valid phone number"},
		{"plain digits", "3001234567", ""},
		{"leading zero", "03001234567", ""},
		{"country code", "+923001234567", ""},
		{"dashes and spaces stripped", "0300 123-4567", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			form.Phone = tt.value
			errs := ValidateLeadForm(form)
			if tt.wantErr == "" {
				assert.Empty(t, errs["phone"])
			} else {
				assert.Equal(t, tt.wantErr, errs["phone"])
			}
		})
	}
}

func TestValidateLeadFormMessage(t *testing.T) {
	form := validForm()
	form.Message = strings.Repeat("x", 501)
	errs := ValidateLeadForm(form)
	assert.Equal(t, "Message is too long (max 500 characters)", errs["message"])

	form.Message = strings.Repeat("x", 500)
	assert.Nil(t, ValidateLeadForm(form))

	// Optional field: empty is fine.
	form.Message = ""
	assert.Nil(t, ValidateLeadForm(form))
}

func TestValidateLeadFormCollectsAllFieldErrors(t *testing.T) {
	errs := ValidateLeadForm(&domain.LeadForm{})
	assert.Len(t, errs, 3)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "phone")
}
