package service

import (
	"context"

	"github.com/leadchat/leadchat/internal/domain"
	"github.com/leadchat/leadchat/internal/repository"
)

// AdminService handles the admin console operations.
type AdminService struct {
	sessionRepo *repository.SessionRepository
	leadRepo    *repository.LeadRepository
}

// NewAdminService creates a new admin service.
func NewAdminService(sessionRepo *repository.SessionRepository, leadRepo *repository.LeadRepository) *AdminService {
	return &AdminService{
		sessionRepo: sessionRepo,
		leadRepo:    leadRepo,
	}
}

// ListConversations returns persisted sessions, newest-first.
func (s *AdminService) ListConversations(ctx context.Context, filter repository.ConversationFilter) ([]*domain.Session, error) {
	return s.sessionRepo.List(filter)
}

// GetConversation returns one session with its full message log.
func (s *AdminService) GetConversation(ctx context.Context, id string) (*domain.Session, error) {
	session, err := s.sessionRepo.Get(id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}

	messages, err := s.sessionRepo.GetMessages(id)
	if err != nil {
		return nil, err
	}
	session.Messages = messages
	return session, nil
}

// ListLeads returns captured leads, newest-first.
func (s *AdminService) ListLeads(ctx context.Context, filter repository.LeadFilter) ([]*domain.Lead, error) {
	return s.leadRepo.ListLeads(filter)
}

// UpdateLeadStatus moves a lead through the follow-up pipeline.
func (s *AdminService) UpdateLeadStatus(ctx context.Context, id string, status domain.LeadStatus) error {
	switch status {
	case domain.LeadNew, domain.LeadContacted, domain.LeadConverted, domain.LeadLost:
	default:
		return domain.ErrInvalidRequest
	}
	return s.leadRepo.UpdateLeadStatus(id, status)
}

// ListEscalations returns escalation requests, newest-first.
func (s *AdminService) ListEscalations(ctx context.Context, filter repository.EscalationFilter) ([]*domain.Escalation, error) {
	return s.leadRepo.ListEscalations(filter)
}

// ResolveEscalation marks an escalation handled.
func (s *AdminService) ResolveEscalation(ctx context.Context, id, resolvedBy string) error {
	return s.leadRepo.ResolveEscalation(id, resolvedBy)
}

// GetStats summarizes widget activity for the dashboard.
func (s *AdminService) GetStats(ctx context.Context) (*domain.Stats, error) {
	conversations, err := s.sessionRepo.CountSessions()
	if err != nil {
		return nil, err
	}
	messages, err := s.sessionRepo.CountMessages()
	if err != nil {
		return nil, err
	}
	escalated, err := s.sessionRepo.CountEscalatedSessions()
	if err != nil {
		return nil, err
	}
	leads, err := s.leadRepo.CountLeads("")
	if err != nil {
		return nil, err
	}
	converted, err := s.leadRepo.CountLeads(domain.LeadConverted)
	if err != nil {
		return nil, err
	}
	escalations, err := s.leadRepo.CountEscalations()
	if err != nil {
		return nil, err
	}

	stats := &domain.Stats{
		TotalConversations: conversations,
		TotalMessages:      messages,
		TotalLeads:         leads,
		TotalEscalations:   escalations,
		ConvertedLeads:     converted,
	}
	if conversations > 0 {
		stats.EscalationRate = float64(escalated) / float64(conversations)
	}
	return stats, nil
}
