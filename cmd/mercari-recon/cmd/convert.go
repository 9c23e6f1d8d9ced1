package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shunichi-ikebuchi/mercari-recon/pkg/config"
	"github.com/shunichi-ikebuchi/mercari-recon/pkg/converter"
	"github.com/shunichi-ikebuchi/mercari-recon/pkg/db"
	"github.com/shunichi-ikebuchi/mercari-recon/pkg/mercari"
	"github.com/shunichi-ikebuchi/mercari-recon/pkg/pathutil"
	"github.com/shunichi-ikebuchi/mercari-recon/pkg/yayoi"
	"github.com/spf13/cobra"
)

var (
	dateFrom   string
	dateTo     string
	shopFormat bool
	outputBase string
	force      bool
	dryRun     bool
)

// convertCmd represents the convert command.
var convertCmd = &cobra.Command{
	Use:   "convert <export.csv>",
	Short: "Convert a Mercari export to Yayoi CSV batches",
	Long: `Convert a Mercari transaction export to Yayoi import files,
split into one batch per settlement method.

This command:
1. Parses the export (regular format, or shop format with --shop)
2. Skips orders already recorded in the conversion history
3. Fans each transaction out into sale and expense ledger entries
4. Writes one Shift_JIS CSV per settlement method
5. Records the converted orders in SQLite

Example:
  mercari-recon convert mercari.csv
  mercari-recon convert shop_report.csv --shop --from 2025-07-01 --to 2025-07-31
  mercari-recon convert mercari.csv -o yayoi_2025 --dry-run`,
	Args: cobra.ExactArgs(1),
	Run:  runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&dateFrom, "from", "", "start date (YYYY-MM-DD) for filtering transactions")
	convertCmd.Flags().StringVar(&dateTo, "to", "", "end date (YYYY-MM-DD) for filtering transactions")
	convertCmd.Flags().BoolVar(&shopFormat, "shop", false, "process the shop report format instead of the regular export")
	convertCmd.Flags().StringVarP(&outputBase, "output", "o", "", "base name for output files (default derived from input)")
	convertCmd.Flags().BoolVar(&force, "force", false, "re-convert orders already in the history")
	convertCmd.Flags().BoolVar(&dryRun, "dry-run", false, "dry run mode (no file or history writes)")
}

func runConvert(cmd *cobra.Command, args []string) {
	inputPath := args[0]
	source := mercari.SourceRegular
	if shopFormat {
		source = mercari.SourceShop
	}
	slog.Info("Starting conversion", "input", inputPath, "source", source, "dry_run", dryRun)

	// Load configuration
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	// Build the date filter
	var filter mercari.DateFilter
	if dateFrom != "" {
		filter.From, err = mercari.ParseFilterDate(dateFrom)
		exitOnError(err, "invalid --from date")
	}
	if dateTo != "" {
		filter.To, err = mercari.ParseFilterDate(dateTo)
		exitOnError(err, "invalid --to date")
	}

	// Parse the export
	transactions, err := mercari.ParseFile(inputPath, source, filter)
	exitOnError(err, "failed to parse export")
	slog.Info("Parsed export", "transactions", len(transactions))

	// Initialize components
	pathResolver := pathutil.New(pathutil.Config{
		OutputRoot:   cfg.Output.Root,
		DatabasePath: cfg.Output.DBPath,
	})

	dbPath := pathResolver.GetDatabasePath()
	slog.Debug("Opening database", "path", dbPath)
	conn, err := db.Open(dbPath)
	exitOnError(err, "failed to open database")
	defer conn.Close()

	history := db.NewHistory(conn)

	// Filter out already converted orders
	skipped := 0
	if !force {
		convertedIDs, err := history.GetConvertedIDs(string(source))
		exitOnError(err, "failed to get converted order IDs")

		var fresh []mercari.Transaction
		for _, txn := range transactions {
			if convertedIDs[txn.ProductID] {
				skipped++
				continue
			}
			fresh = append(fresh, txn)
		}
		transactions = fresh
	}
	if skipped > 0 {
		slog.Info("Skipping already converted orders", "count", skipped)
	}
	if len(transactions) == 0 {
		fmt.Println("No new transactions to convert")
		return
	}

	// Initialize account mapper
	mapper := converter.DefaultMapper()
	if cfg.Output.MappingFile != "" {
		mapper, err = converter.NewMapper(cfg.Output.MappingFile)
		exitOnError(err, "failed to load account mapping")
	}

	cvtr := converter.NewConverter(mapper, shopFormat)

	// Fan transactions out into ledger entries, remembering which
	// transactions actually produced output.
	var entries []converter.Entry
	var converted []mercari.Transaction
	var amounts []int64
	for _, txn := range transactions {
		fanned := cvtr.Convert(txn)
		if len(fanned) == 0 {
			continue
		}
		entries = append(entries, fanned...)
		converted = append(converted, txn)
		amounts = append(amounts, fanned[0].Amount)
	}

	batches := cvtr.Partition(entries)

	base := outputBase
	if base == "" {
		base = pathutil.DefaultBase(inputPath)
	}

	if dryRun {
		for _, batch := range batches {
			path := pathResolver.GetBatchPath(base, mapper.FilenameForMethod(batch.Key))
			fmt.Printf("[DRY RUN] Would create %s (%d entries)\n", path, len(batch.Entries))
		}
		return
	}

	// Write batch files
	writer := yayoi.NewWriter(pathResolver, mapper)
	written, err := writer.WriteBatches(base, batches)
	exitOnError(err, "failed to write batch files")

	for i, batch := range batches {
		fmt.Printf("Created: %s (%d entries)\n", written[i], len(batch.Entries))
	}

	// Record conversion history
	for i, txn := range converted {
		if err := history.RecordConversion(db.ConversionRecord{
			Source:      string(source),
			OrderID:     txn.ProductID,
			CompletedAt: txn.CompletedAt,
			Amount:      amounts[i],
			OutputBase:  base,
		}); err != nil {
			slog.Error("Failed to record conversion", "order_id", txn.ProductID, "error", err)
		}
	}

	fmt.Println("\nConversion completed successfully!")
	fmt.Printf("Input: %s\n", inputPath)
	fmt.Printf("Converted %d transactions\n", len(converted))
	fmt.Printf("Created %d output files\n", len(written))

	slog.Info("Conversion completed",
		"converted", len(converted),
		"skipped", skipped,
		"files_written", len(written),
	)
}
