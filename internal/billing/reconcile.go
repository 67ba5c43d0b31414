package billing

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"stationery-admin/internal/models"
)

// Signature builds a canonical string from a transaction's financial
// content: rounded total, payment method, paid flag and the item lines
// sorted by name. Two records describing the same underlying sale produce
// the same signature regardless of item order or which side (queued or
// confirmed) they came from.
//
// This is a content heuristic, not an identity join: two genuinely
// distinct transactions with identical contents collide. Accepted
// limitation - do not "fix" by adding a nonce.
func Signature(t models.Transaction) string {
	lines := make([]string, 0, len(t.Items))
	for _, item := range t.Items {
		total := item.Total
		if total == 0 {
			total = float64(item.Quantity) * item.Price
		}
		lines = append(lines, fmt.Sprintf("%s:%d:%s", item.Name, item.Quantity, formatAmount(total)))
	}
	sort.Strings(lines)

	return fmt.Sprintf("%s|%s|%t|%s",
		formatAmount(t.TotalAmount), t.PaymentMethod, t.IsPaid, strings.Join(lines, ";"))
}

// MergeForDisplay combines a student's confirmed transactions with their
// still-queued offline entries into one display list:
//
//  1. any queued entry whose signature matches a confirmed transaction is
//     dropped (its synced twin supersedes it),
//  2. survivors are unioned with the confirmed list,
//  3. the result is sorted descending by effective date.
//
// No transaction ever appears twice; a queued entry disappears the moment
// its server copy shows up, without an explicit removal signal.
func MergeForDisplay(confirmed []models.Transaction, queued []QueueEntry) []models.Transaction {
	seen := make(map[string]bool, len(confirmed))
	for _, t := range confirmed {
		seen[Signature(t)] = true
	}

	merged := make([]models.Transaction, 0, len(confirmed)+len(queued))
	for _, entry := range queued {
		display := entry.ToDisplay()
		if seen[Signature(display)] {
			continue
		}
		merged = append(merged, display)
	}
	merged = append(merged, confirmed...)

	sort.SliceStable(merged, func(i, j int) bool {
		return effectiveDate(merged[i]).After(effectiveDate(merged[j]))
	})
	return merged
}

// effectiveDate picks the best available timestamp: transaction date, then
// creation time, then the epoch (so undated records sink to the bottom).
func effectiveDate(t models.Transaction) time.Time {
	if !t.TransactionDate.IsZero() {
		return t.TransactionDate
	}
	if !t.CreatedAt.IsZero() {
		return t.CreatedAt
	}
	return time.Unix(0, 0)
}

// formatAmount renders a currency value with two-decimal semantics so that
// 150 and 150.00 sign identically.
func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", math.Round(v*100)/100)
}
