package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shunichi-ikebuchi/mercari-recon/pkg/config"
	"github.com/shunichi-ikebuchi/mercari-recon/pkg/db"
	"github.com/shunichi-ikebuchi/mercari-recon/pkg/pathutil"
	"github.com/spf13/cobra"
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display conversion statistics",
	Long: `Display statistics about converted marketplace orders.

Shows:
- Total number of converted regular orders
- Total number of converted shop orders
- Total converted sales amount
- Last conversion timestamp

Example:
  mercari-recon stats`,
	Run: runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	slog.Info("Loading configuration")

	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

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

	stats, err := history.GetStats()
	exitOnError(err, "failed to get statistics")

	fmt.Println("\n=== Conversion Statistics ===")
	fmt.Printf("Converted regular orders: %d\n", stats.TotalRegular)
	fmt.Printf("Converted shop orders:    %d\n", stats.TotalShop)
	fmt.Printf("Total sales amount:       %d yen\n", stats.TotalAmount)

	if stats.LastConversion.Valid {
		fmt.Printf("Last conversion:          %s\n", stats.LastConversion.String)
	} else {
		fmt.Printf("Last conversion:          (never)\n")
	}

	fmt.Println()

	slog.Info("Statistics displayed successfully")
}
