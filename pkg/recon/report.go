package recon

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/shunichi-ikebuchi/mercari-recon/pkg/ledger"
)

// maxUnmatchedListed caps the per-line unmatched listing; the totals still
// cover everything.
const maxUnmatchedListed = 30

// maxInconsistenciesListed caps the inconsistency listing.
const maxInconsistenciesListed = 10

// Report aggregates one analysis run for rendering. All fields are fixed
// before Write is called; rendering the same report twice produces
// byte-identical output.
type Report struct {
	LineCount       int
	TotalEntries    int
	SalesCount      int
	TransferCount   int
	Match           MatchResult
	Inconsistencies []Inconsistency
}

// Write renders the full report to w: summary counts, the unmatched-sales
// listing, counterparty and month breakdowns, mathematical checks, and the
// numbered final summary.
func (rep Report) Write(w io.Writer) {
	fmt.Fprintf(w, "Successfully read %d lines from file\n", rep.LineCount)
	fmt.Fprintf(w, "\nTotal transaction entries: %d\n", rep.TotalEntries)
	fmt.Fprintf(w, "%s (Sales) entries: %d\n", ledger.MarkerSale, rep.SalesCount)
	fmt.Fprintf(w, "%s (Transfer) entries: %d\n", ledger.MarkerTransfer, rep.TransferCount)
	fmt.Fprintf(w, "Difference (%s - %s): %d\n", ledger.MarkerSale, ledger.MarkerTransfer, rep.SalesCount-rep.TransferCount)

	fmt.Fprintf(w, "\nMatched sales (with transfers): %d\n", rep.Match.Matched)
	fmt.Fprintf(w, "Unmatched sales (without transfers): %d\n", len(rep.Match.Unmatched))

	rep.writeUnmatchedListing(w)
	rep.writePatternAnalysis(w)
	rep.writeDateAnalysis(w)
	rep.writeMathChecks(w)
	rep.writeSummary(w)
}

func (rep Report) writeUnmatchedListing(w io.Writer) {
	fmt.Fprintf(w, "\n=== UNMATCHED SALES (%s without corresponding %s) ===\n", ledger.MarkerSale, ledger.MarkerTransfer)
	fmt.Fprintf(w, "Found %d unmatched sales:\n", len(rep.Match.Unmatched))

	// Match.Unmatched is already sorted by (date, seq); group by date
	// preserving that order.
	byDate := make(map[string][]ledger.Record)
	var dates []string
	for _, sale := range rep.Match.Unmatched {
		date := sale.DateOnly()
		if _, seen := byDate[date]; !seen {
			dates = append(dates, date)
		}
		byDate[date] = append(byDate[date], sale)
	}

	shown := 0
	for _, date := range dates {
		if shown >= maxUnmatchedListed {
			fmt.Fprintf(w, "\n... and %d more unmatched sales\n", len(rep.Match.Unmatched)-shown)
			break
		}
		fmt.Fprintf(w, "\n%s:\n", date)
		for _, sale := range byDate[date] {
			if shown >= maxUnmatchedListed {
				break
			}
			fmt.Fprintf(w, "  No: %d, Amount: %s yen, Counterparty: %s\n",
				sale.Seq, comma(sale.Amount), sale.Counterparty)
			if sale.Description != "" {
				fmt.Fprintf(w, "    Description: %s\n", truncateRunes(sale.Description, 60))
			}
			shown++
		}
	}
}

func (rep Report) writePatternAnalysis(w io.Writer) {
	fmt.Fprintf(w, "\n\n=== PATTERN ANALYSIS ===\n")

	type counterpartyStats struct {
		name  string
		count int
		total int64
	}
	byName := make(map[string]*counterpartyStats)
	var order []*counterpartyStats
	for _, sale := range rep.Match.Unmatched {
		stats, seen := byName[sale.Counterparty]
		if !seen {
			stats = &counterpartyStats{name: sale.Counterparty}
			byName[sale.Counterparty] = stats
			order = append(order, stats)
		}
		stats.count++
		stats.total += sale.Amount
	}
	sort.SliceStable(order, func(i, j int) bool { return order[i].count > order[j].count })

	fmt.Fprintf(w, "\nUnmatched sales by counterparty:\n")
	for _, stats := range order {
		fmt.Fprintf(w, "  %s: %d unmatched sales, Total: %s yen\n", stats.name, stats.count, comma(stats.total))
	}

	if len(rep.Match.Unmatched) > 0 {
		minAmount, maxAmount, sum := rep.Match.Unmatched[0].Amount, rep.Match.Unmatched[0].Amount, int64(0)
		for _, sale := range rep.Match.Unmatched {
			if sale.Amount < minAmount {
				minAmount = sale.Amount
			}
			if sale.Amount > maxAmount {
				maxAmount = sale.Amount
			}
			sum += sale.Amount
		}
		mean := float64(sum) / float64(len(rep.Match.Unmatched))

		fmt.Fprintf(w, "\nUnmatched sales amount statistics:\n")
		fmt.Fprintf(w, "  Min: %s yen\n", comma(minAmount))
		fmt.Fprintf(w, "  Max: %s yen\n", comma(maxAmount))
		fmt.Fprintf(w, "  Average: %s yen\n", commaFloat2(mean))
		fmt.Fprintf(w, "  Total: %s yen\n", comma(sum))
	}
}

func (rep Report) writeDateAnalysis(w io.Writer) {
	fmt.Fprintf(w, "\n\n=== DATE PATTERN ANALYSIS ===\n")

	byMonth := make(map[string]int)
	for _, sale := range rep.Match.Unmatched {
		if month := sale.Month(); month != "" {
			byMonth[month]++
		}
	}
	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Strings(months)

	fmt.Fprintf(w, "\nUnmatched sales by month:\n")
	for _, month := range months {
		fmt.Fprintf(w, "  %s: %d unmatched sales\n", month, byMonth[month])
	}
}

func (rep Report) writeMathChecks(w io.Writer) {
	fmt.Fprintf(w, "\n\n=== MATHEMATICAL CHECKS ===\n")

	if len(rep.Inconsistencies) == 0 {
		fmt.Fprintf(w, "\nNo mathematical inconsistencies found in transaction groups.\n")
		return
	}

	fmt.Fprintf(w, "\nFound %d potential mathematical inconsistencies:\n", len(rep.Inconsistencies))
	for i, inc := range rep.Inconsistencies {
		if i >= maxInconsistenciesListed {
			break
		}
		fmt.Fprintf(w, "\n%d. Transaction ID: %s (%d entries)\n", i+1, inc.ID, inc.Entries)
		fmt.Fprintf(w, "   Sales total: %s yen\n", comma(inc.Sales))
		fmt.Fprintf(w, "   Expenses total: %s yen\n", comma(inc.Expenses))
		fmt.Fprintf(w, "   Transfer amount: %s yen\n", comma(inc.Transfer))
		fmt.Fprintf(w, "   Expected transfer: %s yen\n", comma(inc.Expected))
		fmt.Fprintf(w, "   Discrepancy: %s yen\n", commaSigned(inc.Diff))
	}

	if len(rep.Inconsistencies) > maxInconsistenciesListed {
		fmt.Fprintf(w, "\n... and %d more inconsistencies\n", len(rep.Inconsistencies)-maxInconsistenciesListed)
	}
}

func (rep Report) writeSummary(w io.Writer) {
	fmt.Fprintf(w, "\n\n=== SUMMARY ===\n")
	fmt.Fprintf(w, "1. Total %s (sales) entries: %d\n", ledger.MarkerSale, rep.SalesCount)
	fmt.Fprintf(w, "2. Total %s (transfer) entries: %d\n", ledger.MarkerTransfer, rep.TransferCount)
	fmt.Fprintf(w, "3. Matched sales-transfer pairs: %d\n", rep.Match.Matched)
	fmt.Fprintf(w, "4. Unmatched sales (%s without %s): %d\n", ledger.MarkerSale, ledger.MarkerTransfer, len(rep.Match.Unmatched))

	if len(rep.Match.Unmatched) > 0 {
		var total int64
		for _, sale := range rep.Match.Unmatched {
			total += sale.Amount
		}
		fmt.Fprintf(w, "5. Total amount of unmatched sales: %s yen\n", comma(total))
		percentage := float64(len(rep.Match.Unmatched)) / float64(rep.SalesCount) * 100
		fmt.Fprintf(w, "6. Percentage of unmatched sales: %.1f%%\n", percentage)
	}

	if len(rep.Inconsistencies) > 0 {
		var totalDiff int64
		for _, inc := range rep.Inconsistencies {
			totalDiff += abs(inc.Diff)
		}
		fmt.Fprintf(w, "7. Mathematical inconsistencies found: %d\n", len(rep.Inconsistencies))
		fmt.Fprintf(w, "8. Total discrepancy amount: %s yen\n", comma(totalDiff))
	}
}

// comma formats n with thousands separators.
func comma(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}

// commaSigned formats n with thousands separators and an explicit sign.
func commaSigned(n int64) string {
	if n >= 0 {
		return "+" + comma(n)
	}
	return comma(n)
}

// commaFloat2 formats f with thousands separators and two decimals.
func commaFloat2(f float64) string {
	s := strconv.FormatFloat(f, 'f', 2, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return s
	}
	return comma(n) + "." + fracPart
}

// truncateRunes shortens s to at most n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
