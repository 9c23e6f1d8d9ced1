package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// LoadResult holds the outcome of reading a transaction book.
type LoadResult struct {
	Records   []Record
	LineCount int // total CSV rows seen, including headers and blanks
	Encoding  string
}

// LoadFile reads a transaction-book CSV from disk, detecting the character
// encoding first.
func LoadFile(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transaction book: %w", err)
	}

	text, encName, err := DecodeText(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	slog.Debug("Decoded transaction book", "path", path, "encoding", encName)

	result, err := Parse(strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	result.Encoding = encName
	return result, nil
}

// Parse reads transaction-book rows from r.
//
// A row is a candidate record only when it has at least 8 fields and its
// first field, trimmed, is composed entirely of decimal digits; anything
// else (headers, blanks, section titles) is silently skipped. A non-numeric
// amount keeps the record but excludes it from numeric aggregation.
func Parse(r io.Reader) (*LoadResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	result := &LoadResult{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		result.LineCount++

		if len(row) < 8 {
			continue
		}
		seqField := strings.TrimSpace(row[0])
		if !isDigits(seqField) {
			continue
		}

		seq, err := strconv.Atoi(seqField)
		if err != nil {
			// Digits but out of int range; treat like a parse error.
			slog.Warn("Skipping row with unusable sequence number", "line", result.LineCount, "value", seqField)
			continue
		}

		rec := Record{
			Seq:           seq,
			Date:          strings.TrimSpace(row[1]),
			TypeLabel:     strings.TrimSpace(row[2]),
			CategoryLabel: strings.TrimSpace(row[3]),
			Description:   strings.TrimSpace(row[4]),
			Counterparty:  strings.TrimSpace(row[5]),
			Method:        strings.TrimSpace(row[6]),
		}

		amountField := strings.TrimSpace(row[7])
		if amountField == "" {
			amountField = "0"
		}
		rec.Amount, rec.AmountOK = ParseAmount(amountField)
		if !rec.AmountOK {
			slog.Warn("Record has non-numeric amount, excluded from aggregation",
				"line", result.LineCount, "seq", rec.Seq, "amount", amountField)
		}

		result.Records = append(result.Records, rec)
	}

	return result, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
