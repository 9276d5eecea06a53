package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"feedback-backend/internal/models"
)

const feedbackSchema = `
CREATE TABLE IF NOT EXISTS feedback (
	id          TEXT PRIMARY KEY,
	rating      INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
	review      TEXT NOT NULL,
	timestamp   TIMESTAMPTZ NOT NULL,
	"aiResponse" JSONB
);

CREATE INDEX IF NOT EXISTS idx_feedback_timestamp ON feedback(timestamp DESC);
`

// sqlDB is the subset of *sql.DB used by PostgresStore, with queries
// returning the narrow sqlRows.
type sqlDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRows(ctx context.Context, query string, args ...any) (sqlRows, error)
}

// rowScanner is satisfied by *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

type sqlRows interface {
	rowScanner
	Next() bool
	Err() error
	Close() error
}

// stdDB adapts *sql.DB to sqlDB.
type stdDB struct {
	*sql.DB
}

func (d stdDB) QueryRows(ctx context.Context, query string, args ...any) (sqlRows, error) {
	rows, err := d.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// PostgresStore persists submissions in the feedback table, with aiResponse
// stored as jsonb.
type PostgresStore struct {
	db sqlDB
}

func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, errors.New("repository: postgres db must not be nil")
	}
	return newPostgresStore(stdDB{DB: db}), nil
}

func newPostgresStore(db sqlDB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the feedback table if it does not exist.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, feedbackSchema); err != nil {
		return fmt.Errorf("repository: postgres schema: %w", err)
	}
	return nil
}

func (p *PostgresStore) Append(ctx context.Context, s models.Submission) error {
	ai, err := encodeAIResponse(s.AIResponse)
	if err != nil {
		return fmt.Errorf("repository: postgres encode aiResponse: %w", err)
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO feedback (id, rating, review, timestamp, "aiResponse")
		VALUES ($1, $2, $3, $4, $5)
	`, s.ID, s.Rating, s.Review, s.Timestamp, ai)
	if err != nil {
		return fmt.Errorf("repository: postgres insert: %w", err)
	}
	return nil
}

func (p *PostgresStore) ListAll(ctx context.Context) ([]models.Submission, error) {
	rows, err := p.db.QueryRows(ctx, `
		SELECT id, rating, review, timestamp, "aiResponse"
		FROM feedback
		ORDER BY timestamp DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("repository: postgres query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	subs := []models.Submission{}
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: postgres scan: %w", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: postgres rows: %w", err)
	}
	return subs, nil
}

func scanSubmission(row rowScanner) (models.Submission, error) {
	var (
		s  models.Submission
		ts time.Time
		ai []byte
	)
	if err := row.Scan(&s.ID, &s.Rating, &s.Review, &ts, &ai); err != nil {
		return models.Submission{}, err
	}
	s.Timestamp = ts.UTC()
	resp, err := decodeAIResponse(ai)
	if err != nil {
		return models.Submission{}, err
	}
	s.AIResponse = resp
	return s, nil
}

// encodeAIResponse returns nil for a missing response so the column stores NULL.
func encodeAIResponse(ai *models.AIResponse) (any, error) {
	if ai == nil {
		return nil, nil
	}
	buf, err := json.Marshal(ai.Normalize())
	if err != nil {
		return nil, err
	}
	return string(buf), nil
}

func decodeAIResponse(raw []byte) (*models.AIResponse, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var ai models.AIResponse
	if err := json.Unmarshal(raw, &ai); err != nil {
		return nil, fmt.Errorf("decode aiResponse: %w", err)
	}
	ai = ai.Normalize()
	return &ai, nil
}
