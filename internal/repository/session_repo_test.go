package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadchat/leadchat/internal/domain"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSessionCreateAndGet(t *testing.T) {
	repo := NewSessionRepository(testDB(t))

	session := &domain.Session{
		Metadata: domain.SessionMeta{UserAgent: "Mozilla/5.0", Referrer: "https://example.com/pricing"},
	}
	require.NoError(t, repo.Create(session))
	assert.NotEmpty(t, session.ID, "missing fields are defaulted on create")
	assert.Equal(t, domain.SessionActive, session.Status)

	got, err := repo.Get(session.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, domain.SessionActive, got.Status)
	assert.Nil(t, got.EndTime)
	assert.False(t, got.LeadCaptured)
	assert.Equal(t, "https://example.com/pricing", got.Metadata.Referrer)
}

func TestSessionGetMissing(t *testing.T) {
	repo := NewSessionRepository(testDB(t))

	got, err := repo.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionSaveUpserts(t *testing.T) {
	repo := NewSessionRepository(testDB(t))

	session := &domain.Session{ID: "s1", StartTime: time.Now()}
	require.NoError(t, repo.Create(session))

	end := time.Now()
	session.EndTime = &end
	session.Status = domain.SessionEscalated
	session.Escalated = true
	session.LeadCaptured = true

	// Saving the snapshot twice overwrites the same row.
	require.NoError(t, repo.Save(session))
	require.NoError(t, repo.Save(session))

	count, err := repo.CountSessions()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := repo.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionEscalated, got.Status)
	assert.True(t, got.Escalated)
	assert.True(t, got.LeadCaptured)
	require.NotNil(t, got.EndTime)
	assert.WithinDuration(t, end, *got.EndTime, time.Second)
}

func TestSessionList(t *testing.T) {
	repo := NewSessionRepository(testDB(t))

	base := time.Now().Add(-time.Hour)
	for i, status := range []domain.SessionStatus{domain.SessionCompleted, domain.SessionEscalated, domain.SessionCompleted} {
		require.NoError(t, repo.Create(&domain.Session{
			ID:        string(rune('a' + i)),
			StartTime: base.Add(time.Duration(i) * time.Minute),
			Status:    status,
		}))
	}

	all, err := repo.List(ConversationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID, "newest first")

	escalated, err := repo.List(ConversationFilter{Status: domain.SessionEscalated})
	require.NoError(t, err)
	require.Len(t, escalated, 1)
	assert.Equal(t, "b", escalated[0].ID)

	from := base.Add(90 * time.Second)
	recent, err := repo.List(ConversationFilter{StartDate: &from})
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	limited, err := repo.List(ConversationFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestMessagesRoundTripInOrder(t *testing.T) {
	db := testDB(t)
	sessions := NewSessionRepository(db)

	session := &domain.Session{ID: "s1"}
	require.NoError(t, sessions.Create(session))

	base := time.Now()
	inputs := []domain.Message{
		{SessionID: "s1", Sender: domain.SenderUser, Content: "how much is a cleaning?", Timestamp: base},
		{SessionID: "s1", Sender: domain.SenderBot, Content: "Cleanings start at $50.", Intent: domain.IntentPricing, Confidence: 0.85, Timestamp: base.Add(time.Second)},
		{SessionID: "s1", Sender: domain.SenderUser, Content: "great, thanks", Timestamp: base.Add(2 * time.Second)},
	}
	for i := range inputs {
		require.NoError(t, sessions.CreateMessage(&inputs[i]))
	}

	got, err := sessions.GetMessages("s1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, msg := range got {
		assert.Equal(t, inputs[i].Content, msg.Content)
		assert.Equal(t, inputs[i].Sender, msg.Sender)
	}
	assert.Equal(t, domain.IntentPricing, got[1].Intent)
	assert.Equal(t, 0.85, got[1].Confidence)

	count, err := sessions.CountMessages()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestCountEscalatedSessions(t *testing.T) {
	repo := NewSessionRepository(testDB(t))

	require.NoError(t, repo.Create(&domain.Session{ID: "a"}))
	require.NoError(t, repo.Create(&domain.Session{ID: "b", Escalated: true}))
	require.NoError(t, repo.Create(&domain.Session{ID: "c", Escalated: true}))

	count, err := repo.CountEscalatedSessions()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
