package service

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fraudguard/fraudguard/pkg/fraud"
)

// SourceSimulated tags generated demo history.
const SourceSimulated = "simulated"

// maxSimulated caps generated history per request.
const maxSimulated = 10

var simulatedCategories = []string{"grocery", "gas", "restaurant", "retail", "online"}

// Simulate generates demo history for accountID: at most ten debits, one
// per hour going back from the start of the current hour. Output is stable
// within an hour, so pollers see the same IDs again.
func Simulate(accountID string, limit int, now time.Time) []fraud.TransactionRecord {
	n := min(max(limit, 0), maxSimulated)
	base := now.UTC().Truncate(time.Hour)

	out := make([]fraud.TransactionRecord, 0, n)
	for i := 0; i < n; i++ {
		cents := int64(hash32(fmt.Sprintf("%s_%d", accountID, i)) % 50000)
		out = append(out, fraud.TransactionRecord{
			TransactionID: fmt.Sprintf("txn_%s_%d", accountID, i),
			AccountID:     accountID,
			Amount:        decimal.New(1000+cents, -2),
			Merchant:      fmt.Sprintf("Merchant_%d", i%5),
			Category:      simulatedCategories[i%len(simulatedCategories)],
			Location:      fmt.Sprintf("City_%d", i%3),
			Type:          fraud.TypeDebit,
			Timestamp:     fraud.FormatTimestamp(base.Add(-time.Duration(i) * time.Hour)),
			Source:        SourceSimulated,
		})
	}
	return out
}

// simulatedBalance is the demo balance for accountID: 1000 plus up to 9999.
func simulatedBalance(accountID string) decimal.Decimal {
	return decimal.NewFromInt(1000 + int64(hash32(accountID)%10000))
}

func hash32(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}
