package rest_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudguard/fraudguard/services/txn-watcher/internal/application/dto"
	"github.com/fraudguard/fraudguard/services/txn-watcher/internal/presentation/rest"
)

type stubStatus struct {
	resp dto.StatusResponse
}

func (s stubStatus) Status() dto.StatusResponse { return s.resp }

func TestStatus(t *testing.T) {
	r := chi.NewRouter()
	rest.NewHandler(stubStatus{resp: dto.StatusResponse{
		Status:              dto.StatusRunning,
		LastPoll:            time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC),
		ProcessedCount:      7,
		PollIntervalSeconds: 30,
		TrackedIDs:          7,
	}}).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"status": "running",
		"last_poll": "2025-03-12T14:00:00Z",
		"processed_count": 7,
		"poll_interval_seconds": 30,
		"tracked_ids": 7
	}`, rec.Body.String())
}
