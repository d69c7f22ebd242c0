package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadchat/leadchat/internal/domain"
	"github.com/leadchat/leadchat/internal/repository"
)

func adminTestSetup(t *testing.T) (*AdminService, *repository.SessionRepository, *repository.LeadRepository) {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sessions := repository.NewSessionRepository(db)
	leads := repository.NewLeadRepository(db)
	return NewAdminService(sessions, leads), sessions, leads
}

func TestGetConversationWithMessages(t *testing.T) {
	svc, sessions, _ := adminTestSetup(t)

	require.NoError(t, sessions.Create(&domain.Session{ID: "s1"}))
	require.NoError(t, sessions.CreateMessage(&domain.Message{SessionID: "s1", Sender: domain.SenderUser, Content: "hi"}))
	require.NoError(t, sessions.CreateMessage(&domain.Message{SessionID: "s1", Sender: domain.SenderBot, Content: "Hello!"}))

	session, err := svc.GetConversation(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, session.Messages, 2)

	_, err = svc.GetConversation(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateLeadStatusValidatesEnum(t *testing.T) {
	svc, _, leads := adminTestSetup(t)

	lead := &domain.Lead{SessionID: "s", Name: "n", Email: "e@x.co", Phone: "03001234567"}
	require.NoError(t, leads.CreateLead(lead))

	err := svc.UpdateLeadStatus(context.Background(), lead.ID, "archived")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	require.NoError(t, svc.UpdateLeadStatus(context.Background(), lead.ID, domain.LeadContacted))
}

func TestGetStats(t *testing.T) {
	svc, sessions, leads := adminTestSetup(t)

	// Empty database yields zeroes, not a division by zero.
	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalConversations)
	assert.Equal(t, 0.0, stats.EscalationRate)

	require.NoError(t, sessions.Create(&domain.Session{ID: "a"}))
	require.NoError(t, sessions.Create(&domain.Session{ID: "b", Escalated: true}))
	require.NoError(t, sessions.CreateMessage(&domain.Message{SessionID: "a", Sender: domain.SenderUser, Content: "hi"}))
	require.NoError(t, leads.CreateLead(&domain.Lead{SessionID: "a", Name: "n", Email: "e@x.co", Phone: "03001234567", Status: domain.LeadConverted}))
	require.NoError(t, leads.CreateEscalation(&domain.Escalation{SessionID: "b", Reason: "r"}))

	stats, err = svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalConversations)
	assert.Equal(t, 1, stats.TotalMessages)
	assert.Equal(t, 1, stats.TotalLeads)
	assert.Equal(t, 1, stats.ConvertedLeads)
	assert.Equal(t, 1, stats.TotalEscalations)
	assert.Equal(t, 0.5, stats.EscalationRate)
}
