package service

import (
	"context"

	"github.com/leadchat/leadchat/internal/config"
	"github.com/leadchat/leadchat/internal/domain"
)

// WidgetConfigResponse is the configuration bundle served to the
// embedded widget at load time.
type WidgetConfigResponse struct {
	Settings domain.WidgetSettings `json:"settings"`
	Features domain.Features       `json:"features"`
	Business BusinessInfo          `json:"business"`
	BaseURL  string                `json:"base_url"`
}

// BusinessInfo is the subset of the business context shown to visitors.
type BusinessInfo struct {
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
}

// WidgetService handles the widget-facing operations.
type WidgetService struct {
	cfg          *config.Config
	orchestrator *Orchestrator
	leadService  *LeadService
}

// NewWidgetService creates a new widget service.
func NewWidgetService(cfg *config.Config, orchestrator *Orchestrator, leadService *LeadService) *WidgetService {
	return &WidgetService{
		cfg:          cfg,
		orchestrator: orchestrator,
		leadService:  leadService,
	}
}

// GetConfig returns the widget configuration.
func (s *WidgetService) GetConfig(ctx context.Context) *WidgetConfigResponse {
	return &WidgetConfigResponse{
		Settings: s.cfg.Widget.Settings,
		Features: s.cfg.Widget.Features,
		Business: BusinessInfo{
			Name:         s.cfg.Business.Name,
			ContactEmail: s.cfg.Business.ContactEmail,
			ContactPhone: s.cfg.Business.ContactPhone,
		},
		BaseURL: s.cfg.Server.BaseURL,
	}
}

// InitializeSession creates or resumes a widget session.
func (s *WidgetService) InitializeSession(ctx context.Context, sessionID string, meta domain.SessionMeta) (*domain.SessionState, error) {
	return s.orchestrator.InitializeSession(sessionID, meta)
}

// Chat runs one conversation turn.
func (s *WidgetService) Chat(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	return s.orchestrator.SendMessage(ctx, req.SessionID, req.Message)
}

// GetState returns a session's observable state.
func (s *WidgetService) GetState(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	return s.orchestrator.State(sessionID)
}

// EndSession finalizes a session.
func (s *WidgetService) EndSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.orchestrator.EndSession(ctx, sessionID)
}

// SetChatOpen tracks the widget open/closed state.
func (s *WidgetService) SetChatOpen(ctx context.Context, sessionID string, open bool) error {
	return s.orchestrator.SetChatOpen(sessionID, open)
}

// SubmitLead validates and records a lead form submission.
func (s *WidgetService) SubmitLead(ctx context.Context, form *domain.LeadForm) (*domain.Lead, ValidationErrors, error) {
	return s.leadService.SubmitLead(ctx, form)
}

// DismissLeadForm closes the lead form without capturing.
func (s *WidgetService) DismissLeadForm(ctx context.Context, sessionID string) error {
	return s.orchestrator.DismissLeadForm(sessionID)
}

// RequestEscalation records a human-escalation request.
func (s *WidgetService) RequestEscalation(ctx context.Context, req *domain.EscalationRequest) (*domain.Escalation, error) {
	return s.leadService.RequestEscalation(ctx, req)
}
