package mercari

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shunichi-ikebuchi/mercari-recon/pkg/ledger"
)

// Export column names (regular format).
const (
	colCompletedAt  = "購入完了日"
	colProductID    = "商品ID"
	colProductName  = "商品名"
	colProductPrice = "商品代金"
	colSalesFee     = "販売手数料"
	colShippingFee  = "配送料"
	colSalesProfit  = "販売利益"
	colBuyer        = "購入者"
)

// Shop report column positions.
const (
	shopColOrderID     = 0
	shopColTransferred = 6  // 売上移転日
	shopColProductName = 8
	shopColProfit      = 11 // 販売利益, negative for cancelled orders
	shopColPrice       = 12
	shopColShipping    = 13
	shopColSalesFee    = 15
	shopColShopName    = 19
	shopMinColumns     = 16
)

// Timestamp layouts per export format.
const (
	layoutRegular = "2006-01-02 15:04:05"
	layoutShop    = "2006/1/2 15:04:05"
)

// DateFilter restricts transactions to an inclusive date range. A zero
// bound leaves that side open.
type DateFilter struct {
	From time.Time
	To   time.Time
}

// ParseFilterDate parses a YYYY-MM-DD filter bound.
func ParseFilterDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// IsZero reports whether the filter is unbounded on both sides.
func (f DateFilter) IsZero() bool {
	return f.From.IsZero() && f.To.IsZero()
}

// Includes reports whether t falls inside the range. The To bound covers
// the whole day.
func (f DateFilter) Includes(t time.Time) bool {
	if !f.From.IsZero() && t.Before(f.From) {
		return false
	}
	if !f.To.IsZero() {
		endOfDay := f.To.Add(24*time.Hour - time.Second)
		if t.After(endOfDay) {
			return false
		}
	}
	return true
}

// ParseFile reads a Mercari export from disk, detecting the character
// encoding first (shop reports ship in Shift_JIS, regular exports in UTF-8
// with BOM).
func ParseFile(path string, source Source, filter DateFilter) ([]Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}
	text, encName, err := ledger.DecodeText(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	slog.Debug("Decoded export", "path", path, "encoding", encName, "source", source)

	if source == SourceShop {
		return ParseShop(strings.NewReader(text), filter)
	}
	return ParseRegular(strings.NewReader(text), filter)
}

// ParseRegular parses the regular export: header-keyed CSV with
// YYYY-MM-DD HH:MM:SS timestamps.
func ParseRegular(r io.Reader, filter DateFilter) ([]Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read export header: %w", err)
	}
	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.TrimSpace(name)] = i
	}

	field := func(row []string, name string) string {
		i, ok := colIndex[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var transactions []Transaction
	filtered := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read export row: %w", err)
		}

		completedAt := field(row, colCompletedAt)
		if !filter.IsZero() {
			t, err := time.Parse(layoutRegular, completedAt)
			if err != nil {
				slog.Warn("Could not parse transaction date, including transaction", "date", completedAt)
			} else if !filter.Includes(t) {
				filtered++
				continue
			}
		}

		transactions = append(transactions, Transaction{
			CompletedAt:  completedAt,
			ProductID:    field(row, colProductID),
			ProductName:  field(row, colProductName),
			ProductPrice: field(row, colProductPrice),
			SalesFee:     field(row, colSalesFee),
			ShippingFee:  field(row, colShippingFee),
			SalesProfit:  field(row, colSalesProfit),
			Buyer:        field(row, colBuyer),
		})
	}

	if filtered > 0 {
		slog.Info("Filtered transactions outside the date range", "count", filtered)
	}
	return transactions, nil
}

// ParseShop parses the shop sales report: positional CSV with a header
// row, YYYY/M/D HH:MM:SS timestamps, and cancelled orders carried as
// negative sales profit.
func ParseShop(r io.Reader, filter DateFilter) ([]Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil { // header row
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read shop report header: %w", err)
	}

	var transactions []Transaction
	filtered := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read shop report row: %w", err)
		}
		if len(row) < shopMinColumns {
			continue
		}

		profit, err := strconv.Atoi(strings.TrimSpace(row[shopColProfit]))
		if err != nil {
			continue
		}
		if profit < 0 {
			slog.Info("Skipping cancelled order", "order_id", row[shopColOrderID])
			continue
		}

		transferredAt := strings.TrimSpace(row[shopColTransferred])
		if !filter.IsZero() {
			t, err := time.Parse(layoutShop, transferredAt)
			if err != nil {
				slog.Warn("Could not parse transaction date, including transaction", "date", transferredAt)
			} else if !filter.Includes(t) {
				filtered++
				continue
			}
		}

		buyer := ""
		if len(row) > shopColShopName {
			buyer = strings.TrimSpace(row[shopColShopName])
		}

		transactions = append(transactions, Transaction{
			CompletedAt:  transferredAt,
			ProductID:    strings.TrimSpace(row[shopColOrderID]),
			ProductName:  strings.TrimSpace(row[shopColProductName]),
			ProductPrice: strings.TrimSpace(row[shopColPrice]),
			SalesFee:     strings.TrimSpace(row[shopColSalesFee]),
			ShippingFee:  strings.TrimSpace(row[shopColShipping]),
			SalesProfit:  strings.TrimSpace(row[shopColProfit]),
			Buyer:        buyer,
		})
	}

	if filtered > 0 {
		slog.Info("Filtered transactions outside the date range", "count", filtered)
	}
	return transactions, nil
}
