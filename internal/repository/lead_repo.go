package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leadchat/leadchat/internal/domain"
)

// LeadRepository handles lead and escalation persistence
type LeadRepository struct {
	db *DB
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// CreateLead persists a captured lead
func (r *LeadRepository) CreateLead(lead *domain.Lead) error {
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	if lead.CapturedAt.IsZero() {
		lead.CapturedAt = time.Now()
	}
	if lead.Status == "" {
		lead.Status = domain.LeadNew
	}

	_, err := r.db.Exec(`
		INSERT INTO leads (id, session_id, name, email, phone, company, service_interest,
			preferred_contact_time, message, captured_at, status, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, lead.ID, lead.SessionID, lead.Name, lead.Email, lead.Phone, lead.Company,
		lead.ServiceInterest, lead.PreferredContactTime, lead.Message,
		lead.CapturedAt, string(lead.Status), lead.Source)

	return err
}

// LeadFilter narrows admin lead listings
type LeadFilter struct {
	Status    domain.LeadStatus
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
}

// ListLeads retrieves leads newest-first, optionally filtered
func (r *LeadRepository) ListLeads(filter LeadFilter) ([]*domain.Lead, error) {
	query := `SELECT id, session_id, name, email, phone, company, service_interest,
		preferred_contact_time, message, captured_at, status, source FROM leads`
	var conds []string
	var args []any

	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.StartDate != nil {
		conds = append(conds, "captured_at >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		conds = append(conds, "captured_at <= ?")
		args = append(args, *filter.EndDate)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY captured_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*domain.Lead
	for rows.Next() {
		lead := &domain.Lead{}
		var company, serviceInterest, preferredTime, message, source sql.NullString
		var status string

		if err := rows.Scan(&lead.ID, &lead.SessionID, &lead.Name, &lead.Email, &lead.Phone,
			&company, &serviceInterest, &preferredTime, &message,
			&lead.CapturedAt, &status, &source); err != nil {
			return nil, err
		}

		lead.Company = company.String
		lead.ServiceInterest = serviceInterest.String
		lead.PreferredContactTime = preferredTime.String
		lead.Message = message.String
		lead.Source = source.String
		lead.Status = domain.LeadStatus(status)
		leads = append(leads, lead)
	}

	return leads, rows.Err()
}

// UpdateLeadStatus moves a lead through the follow-up pipeline
func (r *LeadRepository) UpdateLeadStatus(id string, status domain.LeadStatus) error {
	result, err := r.db.Exec(`UPDATE leads SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("lead not found: %s", id)
	}

	return nil
}

// CountLeads returns lead totals, optionally restricted to one status
func (r *LeadRepository) CountLeads(status domain.LeadStatus) (int, error) {
	var count int
	var err error
	if status == "" {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM leads`).Scan(&count)
	} else {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM leads WHERE status = ?`, string(status)).Scan(&count)
	}
	return count, err
}

// CreateEscalation persists a human-escalation request with its transcript
func (r *LeadRepository) CreateEscalation(esc *domain.Escalation) error {
	if esc.ID == "" {
		esc.ID = uuid.New().String()
	}
	if esc.CreatedAt.IsZero() {
		esc.CreatedAt = time.Now()
	}
	if esc.Status == "" {
		esc.Status = domain.EscalationPending
	}

	transcriptJSON, _ := json.Marshal(esc.Transcript)
	contactJSON, _ := json.Marshal(esc.Contact)

	_, err := r.db.Exec(`
		INSERT INTO escalations (id, session_id, transcript, contact, reason, created_at, status, resolved_at, resolved_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, esc.ID, esc.SessionID, string(transcriptJSON), string(contactJSON),
		esc.Reason, esc.CreatedAt, string(esc.Status), esc.ResolvedAt, esc.ResolvedBy)

	return err
}

// EscalationFilter narrows admin escalation listings
type EscalationFilter struct {
	Status domain.EscalationStatus
	Limit  int
}

// ListEscalations retrieves escalations newest-first, optionally filtered
func (r *LeadRepository) ListEscalations(filter EscalationFilter) ([]*domain.Escalation, error) {
	query := `SELECT id, session_id, transcript, contact, reason, created_at, status, resolved_at, resolved_by FROM escalations`
	var args []any

	if filter.Status != "" {
		query += " WHERE status = ?"
		args = append(args, string(filter.Status))
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var escalations []*domain.Escalation
	for rows.Next() {
		esc := &domain.Escalation{}
		var transcriptJSON, contactJSON, resolvedBy sql.NullString
		var resolvedAt sql.NullTime
		var status string

		if err := rows.Scan(&esc.ID, &esc.SessionID, &transcriptJSON, &contactJSON,
			&esc.Reason, &esc.CreatedAt, &status, &resolvedAt, &resolvedBy); err != nil {
			return nil, err
		}

		esc.Status = domain.EscalationStatus(status)
		esc.ResolvedBy = resolvedBy.String
		if resolvedAt.Valid {
			t := resolvedAt.Time
			esc.ResolvedAt = &t
		}
		if transcriptJSON.Valid && transcriptJSON.String != "" {
			json.Unmarshal([]byte(transcriptJSON.String), &esc.Transcript)
		}
		if contactJSON.Valid && contactJSON.String != "" {
			json.Unmarshal([]byte(contactJSON.String), &esc.Contact)
		}
		escalations = append(escalations, esc)
	}

	return escalations, rows.Err()
}

// ResolveEscalation marks an escalation resolved
func (r *LeadRepository) ResolveEscalation(id, resolvedBy string) error {
	result, err := r.db.Exec(`
		UPDATE escalations SET status = ?, resolved_at = ?, resolved_by = ?
		WHERE id = ?
	`, string(domain.EscalationResolved), time.Now(), resolvedBy, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("escalation not found: %s", id)
	}

	return nil
}

// CountEscalations returns the total number of escalations
func (r *LeadRepository) CountEscalations() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM escalations`).Scan(&count)
	return count, err
}
