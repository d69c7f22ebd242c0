package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/leadchat/leadchat/internal/domain"
	"github.com/leadchat/leadchat/internal/notify"
)

// LeadStore persists leads and escalations.
type LeadStore interface {
	CreateLead(lead *domain.Lead) error
	CreateEscalation(esc *domain.Escalation) error
}

// LeadService captures leads and escalation requests from the widget.
// Notification delivery is fire-and-forget: a saved record is never
// reversed because an email failed.
type LeadService struct {
	store        LeadStore
	orchestrator *Orchestrator
	notifier     notify.Notifier
	features     domain.Features
	logger       *zap.Logger
}

// NewLeadService creates a new lead service.
func NewLeadService(store LeadStore, orchestrator *Orchestrator, notifier notify.Notifier, features domain.Features, logger *zap.Logger) *LeadService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadService{
		store:        store,
		orchestrator: orchestrator,
		notifier:     notifier,
		features:     features,
		logger:       logger,
	}
}

// SubmitLead validates and records a lead-capture form submission. On
// success the conversation is marked captured so the lead policy stops
// firing for it.
func (s *LeadService) SubmitLead(ctx context.Context, form *domain.LeadForm) (*domain.Lead, ValidationErrors, error) {
	if !s.features.LeadCapture {
		return nil, nil, domain.ErrFeatureDisabled
	}

	if errs := ValidateLeadForm(form); errs != nil {
		return nil, errs, nil
	}

	lead := &domain.Lead{
		SessionID:            form.SessionID,
		Name:                 strings.TrimSpace(form.Name),
		Email:                strings.TrimSpace(form.Email),
		Phone:                strings.TrimSpace(form.Phone),
		Company:              strings.TrimSpace(form.Company),
		ServiceInterest:      strings.TrimSpace(form.ServiceInterest),
		PreferredContactTime: strings.TrimSpace(form.PreferredContactTime),
		Message:              strings.TrimSpace(form.Message),
		CapturedAt:           time.Now(),
		Status:               domain.LeadNew,
		Source:               "chat_widget",
	}

	if err := s.store.CreateLead(lead); err != nil {
		return nil, nil, fmt.Errorf("failed to save lead: %w", err)
	}

	if err := s.orchestrator.MarkLeadCaptured(form.SessionID); err != nil {
		// The lead is saved either way; an unknown session only means the
		// in-memory flags cannot be updated.
		s.logger.Warn("failed to mark lead captured", zap.String("session_id", form.SessionID), zap.Error(err))
	}

	s.notifyLead(lead)

	s.logger.Info("lead captured",
		zap.String("lead_id", lead.ID),
		zap.String("session_id", lead.SessionID))

	return lead, nil, nil
}

// RequestEscalation records a request to hand the conversation to a
// human, with the transcript at the time of the request.
func (s *LeadService) RequestEscalation(ctx context.Context, req *domain.EscalationRequest) (*domain.Escalation, error) {
	if !s.features.HumanEscalation {
		return nil, domain.ErrFeatureDisabled
	}

	transcript, err := s.orchestrator.Transcript(req.SessionID)
	if err != nil {
		return nil, err
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = "Visitor requested human assistance"
	}

	esc := &domain.Escalation{
		SessionID:  req.SessionID,
		Transcript: transcript,
		Contact:    req.Contact,
		Reason:     reason,
		CreatedAt:  time.Now(),
		Status:     domain.EscalationPending,
	}

	if err := s.store.CreateEscalation(esc); err != nil {
		return nil, fmt.Errorf("failed to save escalation: %w", err)
	}

	if err := s.orchestrator.MarkEscalated(req.SessionID); err != nil {
		s.logger.Warn("failed to mark session escalated", zap.String("session_id", req.SessionID), zap.Error(err))
	}

	s.notifyEscalation(esc)

	s.logger.Info("escalation recorded",
		zap.String("escalation_id", esc.ID),
		zap.String("session_id", esc.SessionID))

	return esc, nil
}

func (s *LeadService) notifyLead(lead *domain.Lead) {
	if !s.features.EmailNotifications {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.notifier.NotifyLead(ctx, lead); err != nil {
			s.logger.Warn("lead notification failed", zap.String("lead_id", lead.ID), zap.Error(err))
		}
	}()
}

func (s *LeadService) notifyEscalation(esc *domain.Escalation) {
	if !s.features.EmailNotifications {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.notifier.NotifyEscalation(ctx, esc); err != nil {
			s.logger.Warn("escalation notification failed", zap.String("escalation_id", esc.ID), zap.Error(err))
		}
	}()
}
