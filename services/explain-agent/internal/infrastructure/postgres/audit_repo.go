// Package postgres persists audit records in PostgreSQL.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/pkg/postgres"
	"github.com/fraudguard/fraudguard/services/explain-agent/internal/domain/model"
)

// Migrations holds the audit schema.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations.
const MigrationsDir = "migrations"

const selectColumns = `id, transaction_id, risk_score, rationale, explanation, action, recorded_at`

// AuditRepository implements port.AuditRepository using PostgreSQL.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new PostgreSQL-backed audit repository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Ping reports whether the database is reachable.
func (r *AuditRepository) Ping(ctx context.Context) error {
	return postgres.HealthCheck(ctx, r.pool)
}

// Save upserts the record by transaction ID, keeping the first row's ID.
func (r *AuditRepository) Save(ctx context.Context, record *model.AuditRecord) error {
	query := `
		INSERT INTO audit_records (
			transaction_id, risk_score, risk_level, rationale, explanation, action, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (transaction_id) DO UPDATE SET
			risk_score = EXCLUDED.risk_score,
			risk_level = EXCLUDED.risk_level,
			rationale = EXCLUDED.rationale,
			explanation = EXCLUDED.explanation,
			action = EXCLUDED.action,
			recorded_at = EXCLUDED.recorded_at
		RETURNING id
	`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		record.TransactionID(),
		record.RiskScore(),
		record.RiskLevel().String(),
		record.Rationale(),
		record.Explanation(),
		record.Action().String(),
		record.RecordedAt(),
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to save audit record: %w", err)
	}
	record.AssignID(id)
	return nil
}

// FindByTransactionID retrieves the audit record for a transaction.
func (r *AuditRepository) FindByTransactionID(ctx context.Context, transactionID string) (*model.AuditRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM audit_records WHERE transaction_id = $1`

	record, err := scanRecord(r.pool.QueryRow(ctx, query, transactionID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find audit record: %w", err)
	}
	return record, nil
}

// ListRecent returns up to limit records, newest first.
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]*model.AuditRecord, error) {
	query := `SELECT ` + selectColumns + `
		FROM audit_records
		ORDER BY recorded_at DESC, id DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	records := make([]*model.AuditRecord, 0, limit)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit records: %w", err)
	}
	return records, nil
}

func scanRecord(row pgx.Row) (*model.AuditRecord, error) {
	var (
		id            int64
		transactionID string
		score         float64
		rationale     string
		explanation   string
		actionName    string
		recordedAt    time.Time
	)
	if err := row.Scan(&id, &transactionID, &score, &rationale, &explanation, &actionName, &recordedAt); err != nil {
		return nil, err
	}
	action, err := fraud.ActionFromString(actionName)
	if err != nil {
		return nil, err
	}
	return model.ReconstructAuditRecord(id, transactionID, score, rationale, explanation, action, recordedAt.UTC()), nil
}
