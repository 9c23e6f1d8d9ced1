package recon

import (
	"sort"
	"strings"

	"github.com/shunichi-ikebuchi/mercari-recon/pkg/ledger"
)

// toleranceYen absorbs benign rounding between a transfer and the sales
// minus expenses it settles.
const toleranceYen = 1

// minGroupSize is the smallest transaction group worth checking: a sale
// paired with only its own transfer has no expense breakdown to verify.
const minGroupSize = 3

// Inconsistency describes a transaction group whose transfer amount does
// not match sales minus expenses for the same identifier.
type Inconsistency struct {
	ID       string
	Sales    int64
	Expenses int64
	Transfer int64
	Expected int64 // Sales - Expenses
	Diff     int64 // Transfer - Expected, signed
	Entries  int
}

// CheckConsistency evaluates every transaction group with at least three
// members and returns the groups that violate transfer = sales - expenses
// beyond the rounding tolerance, sorted by discrepancy magnitude
// descending.
//
// Member categorization reads the DATE field for all three marker tokens,
// mirroring the established book-audit behavior (the book's date column
// carries the entry kind for some export profiles). Records whose amount
// did not parse are skipped.
func CheckConsistency(groups TransactionGroups) []Inconsistency {
	var found []Inconsistency

	for _, id := range groups.IDs {
		members := groups.Members[id]
		if len(members) < minGroupSize {
			continue
		}

		var sales, expenses, transfer int64
		for _, rec := range members {
			if !rec.AmountOK {
				continue
			}
			switch {
			case strings.Contains(rec.Date, ledger.MarkerSale) && rec.CategoryLabel == ledger.MarkerSale:
				sales += rec.Amount
			case strings.Contains(rec.Date, ledger.MarkerExpense):
				expenses += rec.Amount
			case strings.Contains(rec.Date, ledger.MarkerTransfer) && strings.Contains(rec.CategoryLabel, ledger.MarkerTransfer):
				transfer += rec.Amount
			}
		}

		// Only groups with both a sale and a transfer side can be checked.
		if transfer <= 0 || sales <= 0 {
			continue
		}

		expected := sales - expenses
		diff := transfer - expected
		if abs(diff) > toleranceYen {
			found = append(found, Inconsistency{
				ID:       id,
				Sales:    sales,
				Expenses: expenses,
				Transfer: transfer,
				Expected: expected,
				Diff:     diff,
				Entries:  len(members),
			})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return abs(found[i].Diff) > abs(found[j].Diff)
	})

	return found
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
