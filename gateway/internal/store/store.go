// Package store persists ingested transactions for the gateway.
package store

import (
	"context"
	"embed"
	"errors"
	"time"

	"github.com/fraudguard/fraudguard/pkg/fraud"
)

var (
	ErrNotFound      = errors.New("transaction not found")
	ErrAlreadyScored = errors.New("risk score already attached")
)

// Migrations holds the schema applied by NewPostgresStore callers.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations.
const MigrationsDir = "migrations"

// Store keeps transaction records keyed by transaction ID.
//
// Listings are newest first by transaction timestamp; records whose
// timestamp cannot be parsed are ordered by ingestion time instead.
type Store interface {
	// Save stores rec unless its ID already exists. created is false for a
	// duplicate, in which case the stored record is left untouched.
	Save(ctx context.Context, rec fraud.TransactionRecord) (created bool, err error)
	Get(ctx context.Context, id string) (fraud.TransactionRecord, error)
	ListByAccount(ctx context.Context, accountID string, limit int) ([]fraud.TransactionRecord, error)
	Recent(ctx context.Context, limit int) ([]fraud.TransactionRecord, error)
	// AttachRisk sets the score once. It returns ErrNotFound for an unknown
	// ID and ErrAlreadyScored when a score is already present.
	AttachRisk(ctx context.Context, id string, score float64, explanation string) (fraud.TransactionRecord, error)
}

// occurredAt is the ordering instant of a record.
func occurredAt(rec fraud.TransactionRecord, ingested time.Time) time.Time {
	if ts, ok := rec.Time(); ok {
		return ts
	}
	return ingested.UTC()
}
