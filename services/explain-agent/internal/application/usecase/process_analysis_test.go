package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudguard/fraudguard/pkg/events"
	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/pkg/testutil"
	"github.com/fraudguard/fraudguard/services/explain-agent/internal/application/dto"
	"github.com/fraudguard/fraudguard/services/explain-agent/internal/application/usecase"
	"github.com/fraudguard/fraudguard/services/explain-agent/internal/domain/event"
	"github.com/fraudguard/fraudguard/services/explain-agent/internal/domain/model"
	"github.com/fraudguard/fraudguard/services/explain-agent/internal/domain/service"
	"github.com/fraudguard/fraudguard/services/explain-agent/internal/infrastructure/memory"
)

// --- Mock implementations ---

type dispatchCall struct {
	transactionID string
	score         float64
	action        fraud.Action
	explanation   string
}

type mockDispatcher struct {
	calls []dispatchCall
	err   error
}

func (m *mockDispatcher) Execute(_ context.Context, transactionID string, score float64, action fraud.Action, explanation string) error {
	m.calls = append(m.calls, dispatchCall{transactionID, score, action, explanation})
	return m.err
}

type mockPublisher struct {
	published []events.DomainEvent
	err       error
}

func (m *mockPublisher) Publish(_ context.Context, evts ...events.DomainEvent) error {
	m.published = append(m.published, evts...)
	return m.err
}

type mockRepo struct {
	saveFunc func(ctx context.Context, r *model.AuditRecord) error
}

func (m *mockRepo) Save(ctx context.Context, r *model.AuditRecord) error { return m.saveFunc(ctx, r) }

func (m *mockRepo) FindByTransactionID(context.Context, string) (*model.AuditRecord, error) {
	return nil, model.ErrNotFound
}

func (m *mockRepo) ListRecent(context.Context, int) ([]*model.AuditRecord, error) { return nil, nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func score(v float64) *float64 { return &v }

type fixture struct {
	repo       *memory.AuditRepository
	dispatcher *mockDispatcher
	publisher  *mockPublisher
	uc         *usecase.ProcessAnalysis
}

func newFixture() *fixture {
	f := &fixture{
		repo:       memory.NewAuditRepository(0),
		dispatcher: &mockDispatcher{},
		publisher:  &mockPublisher{},
	}
	f.uc = usecase.NewProcessAnalysis(
		service.NewExplainer(fraud.DefaultActionPolicy()),
		f.repo, f.dispatcher, f.publisher, discardLogger(),
	)
	return f
}

// --- Tests ---

func TestProcessAnalysis_HighRisk(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), dto.ProcessRequest{
		TransactionID: "txn_1",
		RiskScore:     score(0.85),
		Rationale:     "Very high amount: $2500.00",
		Timestamp:     testutil.TestNow,
	})
	require.NoError(t, err)

	assert.Equal(t, "txn_1", resp.TransactionID)
	assert.Equal(t, "hold", resp.Action)
	assert.Equal(t, "high", resp.RiskLevel)
	assert.Equal(t, "🚨 High Risk: Very high amount: $2500.00. This transaction requires immediate attention.", resp.Explanation)
	assert.Equal(t, int64(1), resp.ID)

	stored, err := f.repo.FindByTransactionID(context.Background(), "txn_1")
	require.NoError(t, err)
	assert.Equal(t, resp.Explanation, stored.Explanation())

	require.Len(t, f.dispatcher.calls, 1)
	assert.Equal(t, dispatchCall{"txn_1", 0.85, fraud.ActionHold, resp.Explanation}, f.dispatcher.calls[0])

	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, event.EventTypeAuditRecorded, f.publisher.published[0].EventType())
}

func TestProcessAnalysis_ActionByBand(t *testing.T) {
	tests := []struct {
		score      float64
		wantAction string
	}{
		{0.10, "allow"},
		{0.30, "notify"},
		{0.60, "step-up"},
		{0.80, "hold"},
	}

	for _, tt := range tests {
		resp, err := newFixture().uc.Execute(context.Background(), dto.ProcessRequest{
			TransactionID: "txn_band",
			RiskScore:     score(tt.score),
			Rationale:     "r",
		})
		require.NoError(t, err)
		assert.Equal(t, tt.wantAction, resp.Action, "score %v", tt.score)
	}
}

func TestProcessAnalysis_Reprocess(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.uc.Execute(ctx, dto.ProcessRequest{TransactionID: "txn_1", RiskScore: score(0.85), Rationale: "a"})
	require.NoError(t, err)
	second, err := f.uc.Execute(ctx, dto.ProcessRequest{TransactionID: "txn_1", RiskScore: score(0.2), Rationale: "b"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "allow", second.Action)

	all, err := f.repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestProcessAnalysis_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.ProcessRequest
		wantErr error
	}{
		{"missing transaction id", dto.ProcessRequest{RiskScore: score(0.5)}, fraud.ErrMissingTransactionID},
		{"missing score", dto.ProcessRequest{TransactionID: "txn_1"}, model.ErrMissingScore},
		{"score out of range", dto.ProcessRequest{TransactionID: "txn_1", RiskScore: score(1.2)}, model.ErrInvalidScore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, model.IsValidationError(err))
			assert.Empty(t, f.dispatcher.calls)
			assert.Empty(t, f.publisher.published)
		})
	}
}

func TestProcessAnalysis_DownstreamFailuresSwallowed(t *testing.T) {
	f := newFixture()
	f.dispatcher.err = errors.New("orchestrator unavailable")
	f.publisher.err = errors.New("broker unavailable")

	resp, err := f.uc.Execute(context.Background(), dto.ProcessRequest{TransactionID: "txn_1", RiskScore: score(0.65), Rationale: "r"})
	require.NoError(t, err)
	assert.Equal(t, "step-up", resp.Action)
	assert.Len(t, f.dispatcher.calls, 1)
}

func TestProcessAnalysis_SaveFailure(t *testing.T) {
	dispatcher := &mockDispatcher{}
	repo := &mockRepo{saveFunc: func(context.Context, *model.AuditRecord) error { return errors.New("disk full") }}
	uc := usecase.NewProcessAnalysis(service.NewExplainer(fraud.DefaultActionPolicy()), repo, dispatcher, nil, discardLogger())

	_, err := uc.Execute(context.Background(), dto.ProcessRequest{TransactionID: "txn_1", RiskScore: score(0.5), Rationale: "r"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.False(t, model.IsValidationError(err))
	assert.Empty(t, dispatcher.calls)
}

func TestProcessAnalysis_NilCollaborators(t *testing.T) {
	uc := usecase.NewProcessAnalysis(service.NewExplainer(fraud.DefaultActionPolicy()),
		memory.NewAuditRepository(0), nil, nil, discardLogger())

	resp, err := uc.Execute(context.Background(), dto.ProcessRequest{TransactionID: "txn_1", RiskScore: score(0.35), Rationale: "r"})
	require.NoError(t, err)
	assert.Equal(t, "notify", resp.Action)
}
