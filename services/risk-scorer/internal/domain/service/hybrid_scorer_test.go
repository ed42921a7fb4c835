package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/pkg/testutil"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/domain/service"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/domain/valueobject"
)

type mockAIScorer struct {
	generateFunc func(ctx context.Context, prompt string) (string, error)
}

func (m *mockAIScorer) Generate(ctx context.Context, prompt string) (string, error) {
	return m.generateFunc(ctx, prompt)
}

func replying(reply string) *mockAIScorer {
	return &mockAIScorer{generateFunc: func(context.Context, string) (string, error) { return reply, nil }}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHybrid(ai *mockAIScorer) *service.HybridScorer {
	heuristic := service.NewHeuristicRiskScorer(service.DefaultHeuristicConfig())
	if ai == nil {
		return service.NewHybridScorer(heuristic, nil, time.Second, discardLogger())
	}
	return service.NewHybridScorer(heuristic, ai, 50*time.Millisecond, discardLogger())
}

func hybridScore(t *testing.T, h *service.HybridScorer, tx fraud.TransactionRecord) service.ScoreResult {
	t.Helper()
	history := testutil.History(5, "40", "Corner Grocery", 14)
	summary := service.NewHistorySummarizer().Summarize(history, testutil.TestNow)
	signals := service.NewPatternSignalExtractor().Extract(tx, summary)
	return h.Score(context.Background(), tx, summary, signals)
}

func TestHybridScorer_NoAIUsesHeuristic(t *testing.T) {
	h := newHybrid(nil)
	assert.False(t, h.AIEnabled())

	res := hybridScore(t, h, testutil.Transaction("t", "40"))
	assert.Equal(t, valueobject.ScoreSourceHeuristic, res.Source)
	assert.InDelta(t, 0.1, res.Score, 1e-9)
	assert.Contains(t, res.Rationale, "Normal transaction pattern")
}

func TestHybridScorer_AcceptsValidAIReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"plain", `{"risk_score": 0.42, "rationale": "Routine grocery purchase"}`},
		{"fenced", "```json\n{\"risk_score\": 0.42, \"rationale\": \"Routine grocery purchase\"}\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHybrid(replying(tt.reply))
			assert.True(t, h.AIEnabled())

			res := hybridScore(t, h, testutil.Transaction("t", "40"))
			assert.Equal(t, valueobject.ScoreSourceAI, res.Source)
			assert.InDelta(t, 0.42, res.Score, 1e-9)
			assert.Equal(t, "Routine grocery purchase", res.Rationale)
		})
	}
}

func TestHybridScorer_FallsBackOnBadReply(t *testing.T) {
	heuristic := hybridScore(t, newHybrid(nil), testutil.Transaction("t", "40"))

	replies := map[string]string{
		"not json":           "I think this is fine",
		"score out of range": `{"risk_score": 1.5, "rationale": "x"}`,
		"negative score":     `{"risk_score": -0.1, "rationale": "x"}`,
		"score as string":    `{"risk_score": "0.5", "rationale": "x"}`,
		"missing score":      `{"rationale": "x"}`,
		"missing rationale":  `{"risk_score": 0.5}`,
		"blank rationale":    `{"risk_score": 0.5, "rationale": "   "}`,
	}

	for name, reply := range replies {
		t.Run(name, func(t *testing.T) {
			res := hybridScore(t, newHybrid(replying(reply)), testutil.Transaction("t", "40"))
			assert.Equal(t, heuristic, res)
		})
	}
}

func TestHybridScorer_FallsBackOnError(t *testing.T) {
	ai := &mockAIScorer{generateFunc: func(context.Context, string) (string, error) {
		return "", errors.New("quota exceeded")
	}}

	res := hybridScore(t, newHybrid(ai), testutil.Transaction("t", "40"))
	assert.Equal(t, valueobject.ScoreSourceHeuristic, res.Source)
}

func TestHybridScorer_FallsBackOnTimeout(t *testing.T) {
	ai := &mockAIScorer{generateFunc: func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}

	start := time.Now()
	res := hybridScore(t, newHybrid(ai), testutil.Transaction("t", "40"))

	assert.Equal(t, valueobject.ScoreSourceHeuristic, res.Source)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestHybridScorer_FloorAppliesToAIScore(t *testing.T) {
	h := newHybrid(replying(`{"risk_score": 0.2, "rationale": "Amount within normal range"}`))

	res := hybridScore(t, h, testutil.Transaction("t", "1500", testutil.WithLabel("acct:999")))

	assert.Equal(t, valueobject.ScoreSourceAI, res.Source)
	assert.InDelta(t, 0.8, res.Score, 1e-9)
	assert.Equal(t, "Amount within normal range; Large payment to a never-seen recipient", res.Rationale)
}

func TestHybridScorer_ClampsAIScore(t *testing.T) {
	tests := []struct {
		reply string
		want  float64
	}{
		{`{"risk_score": 1.0, "rationale": "x"}`, service.MaxScore},
		{`{"risk_score": 0, "rationale": "x"}`, service.MinScore},
		{`{"risk_score": 0.123456, "rationale": "x"}`, 0.1235},
	}

	for _, tt := range tests {
		res := hybridScore(t, newHybrid(replying(tt.reply)), testutil.Transaction("t", "40"))
		assert.InDelta(t, tt.want, res.Score, 1e-12)
	}
}

func TestHybridScorer_PromptOmitsIdentifiers(t *testing.T) {
	var prompt string
	ai := &mockAIScorer{generateFunc: func(_ context.Context, p string) (string, error) {
		prompt = p
		return `{"risk_score": 0.3, "rationale": "ok"}`, nil
	}}
	tx := testutil.Transaction("txn_secret_123", "250", testutil.WithLabel("acct:private-partner"))

	hybridScore(t, newHybrid(ai), tx)

	require.NotEmpty(t, prompt)
	assert.NotContains(t, prompt, "txn_secret_123")
	assert.NotContains(t, prompt, testutil.TestAccountID1)
	assert.NotContains(t, prompt, "private-partner")
	assert.Contains(t, prompt, "$250.00")
	assert.Contains(t, prompt, "Recipient: new")
}

func TestParseAIResponse(t *testing.T) {
	score, rationale, err := service.ParseAIResponse("```\n{\"risk_score\": 0.7, \"rationale\": \" Unusual \"}\n```")
	require.NoError(t, err)
	assert.InDelta(t, 0.7, score, 1e-9)
	assert.Equal(t, "Unusual", rationale)

	_, _, err = service.ParseAIResponse("")
	assert.ErrorIs(t, err, service.ErrInvalidAIResponse)
}
