package recon

import (
	"testing"

	"github.com/shunichi-ikebuchi/mercari-recon/pkg/ledger"
)

func sale(seq int, date string, amount int64) ledger.Record {
	return ledger.Record{
		Seq:           seq,
		Date:          date + " 売上",
		CategoryLabel: "売上",
		Counterparty:  "メルカリ",
		Amount:        amount,
		AmountOK:      true,
	}
}

func transfer(seq int, date string, amount int64) ledger.Record {
	return ledger.Record{
		Seq:           seq,
		Date:          date + " 振替",
		CategoryLabel: "売掛金振替",
		Amount:        amount,
		AmountOK:      true,
	}
}

func TestMatchPairsSaleWithTransfer(t *testing.T) {
	sales := []ledger.Record{sale(1, "2025/07/01", 1000)}
	transfers := []ledger.Record{transfer(2, "2025/07/01", 1000)}

	result := Match(sales, transfers)
	if result.Matched != 1 {
		t.Errorf("Matched = %d, expected 1", result.Matched)
	}
	if len(result.Unmatched) != 0 {
		t.Errorf("len(Unmatched) = %d, expected 0", len(result.Unmatched))
	}
}

func TestMatchSurplusSaleIsUnmatched(t *testing.T) {
	// Two sales share a key with a single transfer: the later-sequence
	// sale is the positional surplus.
	sales := []ledger.Record{
		sale(1, "2025/07/01", 1000),
		sale(3, "2025/07/01", 1000),
	}
	transfers := []ledger.Record{transfer(2, "2025/07/01", 1000)}

	result := Match(sales, transfers)
	if result.Matched != 1 {
		t.Errorf("Matched = %d, expected 1", result.Matched)
	}
	if len(result.Unmatched) != 1 {
		t.Fatalf("len(Unmatched) = %d, expected 1", len(result.Unmatched))
	}
	if result.Unmatched[0].Seq != 3 {
		t.Errorf("Unmatched[0].Seq = %d, expected 3", result.Unmatched[0].Seq)
	}
}

func TestMatchRequiresSameKey(t *testing.T) {
	tests := []struct {
		name      string
		transfers []ledger.Record
	}{
		{"different date", []ledger.Record{transfer(2, "2025/07/02", 1000)}},
		{"different amount", []ledger.Record{transfer(2, "2025/07/01", 999)}},
		{"no transfers", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Match([]ledger.Record{sale(1, "2025/07/01", 1000)}, tt.transfers)
			if result.Matched != 0 {
				t.Errorf("Matched = %d, expected 0", result.Matched)
			}
			if len(result.Unmatched) != 1 {
				t.Errorf("len(Unmatched) = %d, expected 1", len(result.Unmatched))
			}
		})
	}
}

func TestMatchDropsInvalidRecords(t *testing.T) {
	badDate := sale(1, "2025/07/01", 1000)
	badDate.Date = "売上 2025/07/01" // no leading calendar date

	badAmount := sale(2, "2025/07/01", 0)
	badAmount.AmountOK = false

	result := Match([]ledger.Record{badDate, badAmount}, nil)
	if result.Matched != 0 || len(result.Unmatched) != 0 {
		t.Errorf("Match() = (%d matched, %d unmatched), expected (0, 0)",
			result.Matched, len(result.Unmatched))
	}
}

func TestMatchCountInvariant(t *testing.T) {
	sales := []ledger.Record{
		sale(1, "2025/07/01", 1000),
		sale(2, "2025/07/01", 1000),
		sale(3, "2025/07/02", 500),
		sale(4, "2025/07/03", 300),
		sale(5, "2025/07/03", 300),
		sale(6, "2025/07/03", 300),
	}
	transfers := []ledger.Record{
		transfer(7, "2025/07/01", 1000),
		transfer(8, "2025/07/03", 300),
		transfer(9, "2025/07/03", 300),
		transfer(10, "2025/07/04", 800),
	}

	result := Match(sales, transfers)
	if result.Matched+len(result.Unmatched) != len(sales) {
		t.Errorf("matched(%d) + unmatched(%d) != sales(%d)",
			result.Matched, len(result.Unmatched), len(sales))
	}
}

func TestMatchUnmatchedSortedByDateThenSeq(t *testing.T) {
	sales := []ledger.Record{
		sale(9, "2025/07/02", 500),
		sale(4, "2025/07/01", 1000),
		sale(7, "2025/07/01", 300),
	}

	result := Match(sales, nil)
	if len(result.Unmatched) != 3 {
		t.Fatalf("len(Unmatched) = %d, expected 3", len(result.Unmatched))
	}
	wantSeqs := []int{4, 7, 9}
	for i, want := range wantSeqs {
		if result.Unmatched[i].Seq != want {
			t.Errorf("Unmatched[%d].Seq = %d, expected %d", i, result.Unmatched[i].Seq, want)
		}
	}
}

func TestMatchIsDeterministicUnderReordering(t *testing.T) {
	sales := []ledger.Record{
		sale(1, "2025/07/01", 1000),
		sale(2, "2025/07/02", 500),
		sale(3, "2025/07/03", 200),
	}
	reordered := []ledger.Record{sales[2], sales[0], sales[1]}

	a := Match(sales, nil)
	b := Match(reordered, nil)

	if a.Matched != b.Matched || len(a.Unmatched) != len(b.Unmatched) {
		t.Fatalf("results differ: %+v vs %+v", a, b)
	}
	for i := range a.Unmatched {
		if a.Unmatched[i].Seq != b.Unmatched[i].Seq {
			t.Errorf("Unmatched[%d] differs: %d vs %d", i, a.Unmatched[i].Seq, b.Unmatched[i].Seq)
		}
	}
}
