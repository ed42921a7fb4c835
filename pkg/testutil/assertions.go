package testutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertAmount compares a money amount by value, so "100" matches "100.00".
func AssertAmount(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) bool {
	t.Helper()
	w, err := decimal.NewFromString(want)
	require.NoError(t, err, "bad expected amount %q", want)
	if w.Equal(got) {
		return true
	}
	return assert.Fail(t, "amounts differ: want "+w.String()+", got "+got.String(), msgAndArgs...)
}

// RequireErrorContains stops the test unless err is non-nil and its message
// contains substr.
func RequireErrorContains(t *testing.T, err error, substr string) {
	t.Helper()
	require.Error(t, err)
	require.Contains(t, err.Error(), substr)
}
