package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/pkg/testutil"
	"github.com/fraudguard/fraudguard/services/explain-agent/internal/domain/model"
	"github.com/fraudguard/fraudguard/services/explain-agent/internal/infrastructure/memory"
)

func newRecord(t *testing.T, id string, score float64, at time.Time) *model.AuditRecord {
	t.Helper()
	r, err := model.NewAuditRecord(id, score, "rationale", "explanation", fraud.DefaultActionPolicy().Recommend(score), at)
	require.NoError(t, err)
	return r
}

func TestAuditRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAuditRepository(0)

	rec := newRecord(t, "txn_1", 0.85, testutil.TestNow)
	require.NoError(t, repo.Save(ctx, rec))
	assert.Equal(t, int64(1), rec.ID())

	got, err := repo.FindByTransactionID(ctx, "txn_1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID())
	assert.Equal(t, fraud.ActionHold, got.Action())
	assert.Empty(t, got.Events())

	_, err = repo.FindByTransactionID(ctx, "txn_missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAuditRepository_UpsertKeepsID(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAuditRepository(0)

	require.NoError(t, repo.Save(ctx, newRecord(t, "txn_1", 0.85, testutil.TestNow)))
	require.NoError(t, repo.Save(ctx, newRecord(t, "txn_2", 0.10, testutil.TestNow)))

	replacement := newRecord(t, "txn_1", 0.35, testutil.TestNow.Add(time.Minute))
	require.NoError(t, repo.Save(ctx, replacement))
	assert.Equal(t, int64(1), replacement.ID())

	got, err := repo.FindByTransactionID(ctx, "txn_1")
	require.NoError(t, err)
	assert.Equal(t, 0.35, got.RiskScore())
	assert.Equal(t, fraud.ActionNotify, got.Action())

	all, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAuditRepository_ListRecent(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAuditRepository(0)

	for i := 0; i < 5; i++ {
		at := testutil.TestNow.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Save(ctx, newRecord(t, fmt.Sprintf("txn_%d", i), 0.5, at)))
	}
	// Same instant as txn_4; the later insert sorts first.
	require.NoError(t, repo.Save(ctx, newRecord(t, "txn_5", 0.5, testutil.TestNow.Add(4*time.Minute))))

	got, err := repo.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "txn_5", got[0].TransactionID())
	assert.Equal(t, "txn_4", got[1].TransactionID())
	assert.Equal(t, "txn_3", got[2].TransactionID())
}

func TestAuditRepository_EvictsOldest(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAuditRepository(2)

	require.NoError(t, repo.Save(ctx, newRecord(t, "txn_a", 0.5, testutil.TestNow)))
	require.NoError(t, repo.Save(ctx, newRecord(t, "txn_b", 0.5, testutil.TestNow)))
	require.NoError(t, repo.Save(ctx, newRecord(t, "txn_c", 0.5, testutil.TestNow)))

	_, err := repo.FindByTransactionID(ctx, "txn_a")
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = repo.FindByTransactionID(ctx, "txn_c")
	assert.NoError(t, err)
}

func TestAuditRepository_ConcurrentSave(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAuditRepository(0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := model.NewAuditRecord(fmt.Sprintf("txn_%d", i%10), 0.5, "r", "e", fraud.ActionNotify, testutil.TestNow)
			if assert.NoError(t, err) {
				assert.NoError(t, repo.Save(ctx, r))
			}
		}(i)
	}
	wg.Wait()

	all, err := repo.ListRecent(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, all, 10)
}
