package casestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"clearway/internal/applicant"
	"clearway/internal/decision"
	"clearway/internal/screening"
	id "clearway/pkg/domain"
	"clearway/pkg/sentinel"
)

// PostgresStore persists cases in PostgreSQL. Applicant records and
// screening summaries are stored as JSONB payloads keyed by case; decisions
// get their own append-only table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a case store over the given database handle.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) SaveApplicant(ctx context.Context, rec *applicant.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal applicant record: %w", err)
	}

	query := `
		INSERT INTO cases (case_id, client_email, category, record, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (case_id) DO NOTHING
	`
	_, err = s.db.ExecContext(ctx, query,
		rec.CaseID.String(),
		rec.Email,
		string(rec.Category),
		payload,
		rec.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("insert case: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindApplicant(ctx context.Context, caseID id.CaseID) (*applicant.Record, error) {
	var payload []byte
	query := `SELECT record FROM cases WHERE case_id = $1`
	err := s.db.QueryRowContext(ctx, query, caseID.String()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select case: %w", err)
	}

	var rec applicant.Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal applicant record: %w", err)
	}
	return &rec, nil
}

func (s *PostgresStore) SaveSummary(ctx context.Context, summary *screening.Summary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal screening summary: %w", err)
	}

	// Last write wins: re-screening replaces the prior summary.
	query := `
		INSERT INTO screenings (case_id, overall, summary, screened_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (case_id) DO UPDATE
		SET overall = EXCLUDED.overall,
		    summary = EXCLUDED.summary,
		    screened_at = EXCLUDED.screened_at
	`
	_, err = s.db.ExecContext(ctx, query,
		summary.CaseID.String(),
		summary.Overall.String(),
		payload,
		summary.ScreenedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert screening summary: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindSummary(ctx context.Context, caseID id.CaseID) (*screening.Summary, error) {
	var payload []byte
	query := `SELECT summary FROM screenings WHERE case_id = $1`
	err := s.db.QueryRowContext(ctx, query, caseID.String()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select screening summary: %w", err)
	}

	var summary screening.Summary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, fmt.Errorf("unmarshal screening summary: %w", err)
	}
	return &summary, nil
}

func (s *PostgresStore) AppendDecision(ctx context.Context, record *decision.Record) error {
	query := `
		INSERT INTO decisions (id, case_id, action, token, decided_at, requester_ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		record.ID.String(),
		record.CaseID.String(),
		string(record.Action),
		record.Token,
		record.DecidedAt,
		record.RequesterIP,
		record.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListDecisions(ctx context.Context, caseID id.CaseID) ([]decision.Record, error) {
	query := `
		SELECT id, case_id, action, token, decided_at, requester_ip, user_agent
		FROM decisions
		WHERE case_id = $1
		ORDER BY decided_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, caseID.String())
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	var records []decision.Record
	for rows.Next() {
		var record decision.Record
		var recordIDStr, caseIDStr, action string
		if err := rows.Scan(
			&recordIDStr,
			&caseIDStr,
			&action,
			&record.Token,
			&record.DecidedAt,
			&record.RequesterIP,
			&record.UserAgent,
		); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		recordID, err := id.ParseDecisionID(recordIDStr)
		if err != nil {
			return nil, fmt.Errorf("parse stored decision id: %w", err)
		}
		parsed, err := id.ParseCaseID(caseIDStr)
		if err != nil {
			return nil, fmt.Errorf("parse stored case id: %w", err)
		}
		record.ID = recordID
		record.CaseID = parsed
		record.Action = decision.Action(action)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decisions: %w", err)
	}
	return records, nil
}

var _ Store = (*PostgresStore)(nil)
