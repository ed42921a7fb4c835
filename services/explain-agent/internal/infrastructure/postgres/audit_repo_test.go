package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/pkg/testutil"
	"github.com/fraudguard/fraudguard/services/explain-agent/internal/domain/model"
	"github.com/fraudguard/fraudguard/services/explain-agent/internal/infrastructure/postgres"
)

func TestAuditRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Cleanup(t)
	pc.RunMigrations(t, postgres.Migrations, postgres.MigrationsDir)

	repo := postgres.NewAuditRepository(pc.Pool)
	require.NoError(t, repo.Ping(ctx))

	t.Run("save and find", func(t *testing.T) {
		rec, err := model.NewAuditRecord("txn_1", 0.85, "Very high amount", "🚨 High Risk", fraud.ActionHold, testutil.TestNow)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, rec))
		assert.NotZero(t, rec.ID())

		got, err := repo.FindByTransactionID(ctx, "txn_1")
		require.NoError(t, err)
		assert.Equal(t, rec.ID(), got.ID())
		assert.Equal(t, 0.85, got.RiskScore())
		assert.Equal(t, fraud.RiskLevelHigh, got.RiskLevel())
		assert.Equal(t, fraud.ActionHold, got.Action())
		assert.Equal(t, "🚨 High Risk", got.Explanation())
		assert.True(t, testutil.TestNow.Equal(got.RecordedAt()))
	})

	t.Run("upsert keeps id", func(t *testing.T) {
		first, err := repo.FindByTransactionID(ctx, "txn_1")
		require.NoError(t, err)

		rec, err := model.NewAuditRecord("txn_1", 0.2, "Normal", "⚡ Low Risk", fraud.ActionAllow, testutil.TestNow.Add(time.Minute))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, rec))
		assert.Equal(t, first.ID(), rec.ID())

		got, err := repo.FindByTransactionID(ctx, "txn_1")
		require.NoError(t, err)
		assert.Equal(t, fraud.ActionAllow, got.Action())
		assert.Equal(t, fraud.RiskLevelLow, got.RiskLevel())
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByTransactionID(ctx, "txn_missing")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("list recent", func(t *testing.T) {
		rec, err := model.NewAuditRecord("txn_2", 0.65, "Unusual", "⚠️ Medium Risk", fraud.ActionStepUp, testutil.TestNow.Add(time.Hour))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, rec))

		got, err := repo.ListRecent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "txn_2", got[0].TransactionID())
		assert.Equal(t, "txn_1", got[1].TransactionID())

		got, err = repo.ListRecent(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}
