package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/pkg/postgres"
)

const selectColumns = `
	transaction_id, account_id, amount::text, label, merchant, category,
	location, type, source, raw_timestamp, risk_score,
	COALESCE(risk_level, ''), COALESCE(risk_explanation, '')`

// PostgresStore implements Store on PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPostgresStore creates a PostgreSQL-backed store. The schema in
// Migrations must already be applied.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, now: time.Now}
}

// Ping reports whether the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return postgres.HealthCheck(ctx, s.pool)
}

func (s *PostgresStore) Save(ctx context.Context, rec fraud.TransactionRecord) (bool, error) {
	query := `
		INSERT INTO transactions (
			transaction_id, account_id, amount, label, merchant, category,
			location, type, source, raw_timestamp, occurred_at,
			risk_score, risk_level, risk_explanation
		) VALUES ($1, $2, $3::numeric, $4, $5, $6, $7, $8, $9, $10, $11, $12, NULLIF($13, ''), NULLIF($14, ''))
		ON CONFLICT (transaction_id) DO NOTHING
	`

	tag, err := s.pool.Exec(ctx, query,
		rec.TransactionID,
		rec.AccountID,
		rec.Amount.String(),
		rec.Label,
		rec.Merchant,
		rec.Category,
		rec.Location,
		string(rec.Type),
		rec.Source,
		rec.Timestamp,
		occurredAt(rec, s.now()),
		rec.RiskScore,
		rec.RiskLevel,
		rec.RiskExplanation,
	)
	if err != nil {
		return false, fmt.Errorf("failed to save transaction: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (fraud.TransactionRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions WHERE transaction_id = $1`

	rec, err := scanRecord(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return fraud.TransactionRecord{}, ErrNotFound
	}
	if err != nil {
		return fraud.TransactionRecord{}, fmt.Errorf("failed to get transaction: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) ListByAccount(ctx context.Context, accountID string, limit int) ([]fraud.TransactionRecord, error) {
	query := `SELECT ` + selectColumns + `
		FROM transactions
		WHERE account_id = $1
		ORDER BY occurred_at DESC, seq DESC
		LIMIT $2`
	return s.list(ctx, query, accountID, limit)
}

func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]fraud.TransactionRecord, error) {
	query := `SELECT ` + selectColumns + `
		FROM transactions
		ORDER BY occurred_at DESC, seq DESC
		LIMIT $1`
	return s.list(ctx, query, limit)
}

func (s *PostgresStore) AttachRisk(ctx context.Context, id string, score float64, explanation string) (fraud.TransactionRecord, error) {
	var out fraud.TransactionRecord
	err := postgres.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
		var scored bool
		err := tx.QueryRow(ctx,
			`SELECT risk_score IS NOT NULL FROM transactions WHERE transaction_id = $1 FOR UPDATE`, id,
		).Scan(&scored)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock transaction: %w", err)
		}
		if scored {
			return ErrAlreadyScored
		}

		query := `
			UPDATE transactions
			SET risk_score = $2, risk_level = $3, risk_explanation = $4, scored_at = $5
			WHERE transaction_id = $1
			RETURNING ` + selectColumns

		out, err = scanRecord(tx.QueryRow(ctx, query,
			id, score, fraud.Classify(score).String(), explanation, s.now().UTC(),
		))
		if err != nil {
			return fmt.Errorf("failed to attach risk: %w", err)
		}
		return nil
	})
	if err != nil {
		return fraud.TransactionRecord{}, err
	}
	return out, nil
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]fraud.TransactionRecord, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	out := make([]fraud.TransactionRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return out, nil
}

func scanRecord(row pgx.Row) (fraud.TransactionRecord, error) {
	var (
		rec    fraud.TransactionRecord
		amount string
		typ    string
	)
	err := row.Scan(
		&rec.TransactionID, &rec.AccountID, &amount, &rec.Label, &rec.Merchant, &rec.Category,
		&rec.Location, &typ, &rec.Source, &rec.Timestamp, &rec.RiskScore,
		&rec.RiskLevel, &rec.RiskExplanation,
	)
	if err != nil {
		return fraud.TransactionRecord{}, err
	}

	rec.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return fraud.TransactionRecord{}, fmt.Errorf("failed to parse amount %q: %w", amount, err)
	}
	rec.Type = fraud.TransactionType(typ)
	return rec, nil
}
