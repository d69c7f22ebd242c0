package repository

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leadchat/leadchat/internal/domain"
)

// SessionRepository handles session and message persistence
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create creates a new session row
func (r *SessionRepository) Create(session *domain.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.StartTime.IsZero() {
		session.StartTime = time.Now()
	}
	if session.Status == "" {
		session.Status = domain.SessionActive
	}

	metaJSON, _ := json.Marshal(session.Metadata)

	_, err := r.db.Exec(`
		INSERT INTO sessions (id, start_time, end_time, lead_captured, escalated, status, metadata, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, session.ID, session.StartTime, session.EndTime, session.LeadCaptured,
		session.Escalated, string(session.Status), string(metaJSON), time.Now())

	return err
}

// Save upserts the full session row. Used for the terminal snapshot;
// saving twice overwrites the same row rather than duplicating it.
func (r *SessionRepository) Save(session *domain.Session) error {
	metaJSON, _ := json.Marshal(session.Metadata)

	_, err := r.db.Exec(`
		INSERT INTO sessions (id, start_time, end_time, lead_captured, escalated, status, metadata, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			end_time = excluded.end_time,
			lead_captured = excluded.lead_captured,
			escalated = excluded.escalated,
			status = excluded.status,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at
	`, session.ID, session.StartTime, session.EndTime, session.LeadCaptured,
		session.Escalated, string(session.Status), string(metaJSON), time.Now())

	return err
}

// Get retrieves a session by ID, without its messages
func (r *SessionRepository) Get(id string) (*domain.Session, error) {
	session := &domain.Session{}
	var endTime sql.NullTime
	var metaJSON sql.NullString
	var status string

	err := r.db.QueryRow(`
		SELECT id, start_time, end_time, lead_captured, escalated, status, metadata
		FROM sessions WHERE id = ?
	`, id).Scan(&session.ID, &session.StartTime, &endTime, &session.LeadCaptured,
		&session.Escalated, &status, &metaJSON)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	session.Status = domain.SessionStatus(status)
	if endTime.Valid {
		t := endTime.Time
		session.EndTime = &t
	}
	if metaJSON.Valid && metaJSON.String != "" {
		json.Unmarshal([]byte(metaJSON.String), &session.Metadata)
	}

	return session, nil
}

// ConversationFilter narrows admin conversation listings
type ConversationFilter struct {
	Status    domain.SessionStatus
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
}

// List retrieves sessions newest-first, optionally filtered
func (r *SessionRepository) List(filter ConversationFilter) ([]*domain.Session, error) {
	query := `SELECT id, start_time, end_time, lead_captured, escalated, status, metadata FROM sessions`
	var conds []string
	var args []any

	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.StartDate != nil {
		conds = append(conds, "start_time >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		conds = append(conds, "start_time <= ?")
		args = append(args, *filter.EndDate)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY start_time DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		session := &domain.Session{}
		var endTime sql.NullTime
		var metaJSON sql.NullString
		var status string

		if err := rows.Scan(&session.ID, &session.StartTime, &endTime, &session.LeadCaptured,
			&session.Escalated, &status, &metaJSON); err != nil {
			return nil, err
		}

		session.Status = domain.SessionStatus(status)
		if endTime.Valid {
			t := endTime.Time
			session.EndTime = &t
		}
		if metaJSON.Valid && metaJSON.String != "" {
			json.Unmarshal([]byte(metaJSON.String), &session.Metadata)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// CreateMessage persists a single message
func (r *SessionRepository) CreateMessage(message *domain.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}

	_, err := r.db.Exec(`
		INSERT INTO messages (id, session_id, sender, content, intent, confidence, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, message.ID, message.SessionID, string(message.Sender), message.Content,
		string(message.Intent), message.Confidence, message.Timestamp)

	return err
}

// GetMessages retrieves all messages for a session in append order
func (r *SessionRepository) GetMessages(sessionID string) ([]domain.Message, error) {
	rows, err := r.db.Query(`
		SELECT id, session_id, sender, content, intent, confidence, created_at
		FROM messages WHERE session_id = ?
		ORDER BY created_at ASC, id ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var message domain.Message
		var sender, intent sql.NullString
		var confidence sql.NullFloat64

		if err := rows.Scan(&message.ID, &message.SessionID, &sender,
			&message.Content, &intent, &confidence, &message.Timestamp); err != nil {
			return nil, err
		}

		message.Sender = domain.Sender(sender.String)
		message.Intent = domain.Intent(intent.String)
		message.Confidence = confidence.Float64
		messages = append(messages, message)
	}

	return messages, rows.Err()
}

// CountSessions returns the total number of sessions
func (r *SessionRepository) CountSessions() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&count)
	return count, err
}

// CountMessages returns the total number of stored messages
func (r *SessionRepository) CountMessages() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&count)
	return count, err
}

// CountEscalatedSessions returns the number of sessions ever escalated
func (r *SessionRepository) CountEscalatedSessions() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM sessions WHERE escalated = 1`).Scan(&count)
	return count, err
}
