package cmd

import (
	"log/slog"
	"os"

	"github.com/shunichi-ikebuchi/mercari-recon/pkg/ledger"
	"github.com/shunichi-ikebuchi/mercari-recon/pkg/recon"
	"github.com/spf13/cobra"
)

// analyzeCmd represents the analyze command.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <transaction-book.csv>",
	Short: "Reconcile sales against settlement transfers",
	Long: `Analyze a transaction-book CSV for reconciliation problems.

This command:
1. Loads the transaction book (encoding detected automatically)
2. Classifies entries into sales, transfers, and others
3. Pairs sales against transfers by date and amount
4. Groups entries by embedded transaction identifiers
5. Flags groups where transfer != sales - expenses
6. Prints the full report to stdout

The analysis is read-only and keeps no state between runs.

Example:
  mercari-recon analyze 取引帳.csv`,
	Args: cobra.ExactArgs(1),
	Run:  runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) {
	path := args[0]
	slog.Info("Starting analysis", "path", path)

	loaded, err := ledger.LoadFile(path)
	exitOnError(err, "failed to load transaction book")

	var sales, transfers []ledger.Record
	for _, rec := range loaded.Records {
		switch rec.Classify() {
		case ledger.CategorySale:
			sales = append(sales, rec)
		case ledger.CategoryTransfer:
			transfers = append(transfers, rec)
		}
	}

	match := recon.Match(sales, transfers)
	groups := recon.GroupByID(loaded.Records)
	inconsistencies := recon.CheckConsistency(groups)

	report := recon.Report{
		LineCount:       loaded.LineCount,
		TotalEntries:    len(loaded.Records),
		SalesCount:      len(sales),
		TransferCount:   len(transfers),
		Match:           match,
		Inconsistencies: inconsistencies,
	}
	report.Write(os.Stdout)

	slog.Info("Analysis completed",
		"entries", len(loaded.Records),
		"matched", match.Matched,
		"unmatched", len(match.Unmatched),
		"inconsistencies", len(inconsistencies),
	)
}
