// Package recon implements the reconciliation engine: it correlates
// marketplace sale records with settlement transfer records, surfaces
// sales that never settled, and checks transaction groups for
// mathematical consistency.
package recon

import (
	"sort"

	"github.com/shunichi-ikebuchi/mercari-recon/pkg/ledger"
)

// MatchKey correlates a sale with a settlement transfer when the two
// records share no transaction identifier. Date plus amount is a weak key;
// pairs that settle across a midnight boundary are an accepted miss.
type MatchKey struct {
	Date   string // YYYY/MM/DD
	Amount int64
}

// MatchResult holds the outcome of pairing sales against transfers.
type MatchResult struct {
	Matched   int
	Unmatched []ledger.Record // sales with no transfer, sorted by (date, seq)
}

// Match pairs sale records against transfer records by (date, amount).
//
// Records whose date field does not start with YYYY/MM/DD or whose amount
// did not parse are dropped from matching (they still count toward the
// classification totals the caller reports). Within a key the pairing is
// positional in file order: with more sales than transfers, the earliest
// sales are considered matched and the tail is the surplus.
func Match(sales, transfers []ledger.Record) MatchResult {
	salesByKey, saleKeys := groupByKey(sales)
	transfersByKey, _ := groupByKey(transfers)

	var result MatchResult
	for _, key := range saleKeys {
		s := salesByKey[key]
		t := transfersByKey[key]
		if len(s) > len(t) {
			result.Unmatched = append(result.Unmatched, s[len(t):]...)
		}
		result.Matched += min(len(s), len(t))
	}

	sort.SliceStable(result.Unmatched, func(i, j int) bool {
		a, b := result.Unmatched[i], result.Unmatched[j]
		if a.DateOnly() != b.DateOnly() {
			return a.DateOnly() < b.DateOnly()
		}
		return a.Seq < b.Seq
	})

	return result
}

// groupByKey buckets records by (date, amount), preserving file order both
// across keys (first-seen key order) and within each bucket.
func groupByKey(records []ledger.Record) (map[MatchKey][]ledger.Record, []MatchKey) {
	buckets := make(map[MatchKey][]ledger.Record)
	var order []MatchKey
	for _, rec := range records {
		if !rec.AmountOK {
			continue
		}
		date := rec.DateOnly()
		if date == "" {
			continue
		}
		key := MatchKey{Date: date, Amount: rec.Amount}
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], rec)
	}
	return buckets, order
}
