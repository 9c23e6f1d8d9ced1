// Package ledger defines the transaction-book record model and the
// classification rules for marketplace sale and settlement entries.
package ledger

import (
	"regexp"
	"strconv"
	"strings"
)

// Marker tokens that appear in the transaction book's date and category
// fields.
const (
	MarkerSale     = "売上"
	MarkerTransfer = "振替"
	MarkerExpense  = "経費"
)

// Category is the classification of a record.
type Category int

const (
	CategoryOther Category = iota
	CategorySale
	CategoryTransfer
)

// String returns a short label for the category.
func (c Category) String() string {
	switch c {
	case CategorySale:
		return "sale"
	case CategoryTransfer:
		return "transfer"
	}
	return "other"
}

// Record is one parsed transaction-book line. Records are immutable
// snapshots; analysis stages never modify them.
type Record struct {
	Seq           int    // line number from the source, unique, sort tiebreak only
	Date          string // original date field, may include time of day or annotations
	TypeLabel     string
	CategoryLabel string
	Description   string
	Counterparty  string
	Method        string
	Amount        int64
	AmountOK      bool // false when the amount field was not numeric
}

// Classify tags the record as a sale, a transfer, or other.
//
// The sale rule requires the category field to EQUAL the sale marker while
// the transfer rule only requires it to CONTAIN the transfer marker;
// transfer categories are compound in the source data (e.g. "振替 / 決済")
// while sale categories are not. The asymmetry is intentional.
func (r Record) Classify() Category {
	switch {
	case strings.Contains(r.Date, MarkerSale) && r.CategoryLabel == MarkerSale:
		return CategorySale
	case strings.Contains(r.Date, MarkerTransfer) && strings.Contains(r.CategoryLabel, MarkerTransfer):
		return CategoryTransfer
	}
	return CategoryOther
}

var (
	dateOnlyPattern  = regexp.MustCompile(`^\d{4}/\d{2}/\d{2}`)
	monthOnlyPattern = regexp.MustCompile(`^\d{4}/\d{2}`)
)

// DateOnly returns the leading YYYY/MM/DD portion of the date field, or ""
// when the field does not start with a calendar date.
func (r Record) DateOnly() string {
	return dateOnlyPattern.FindString(r.Date)
}

// Month returns the leading YYYY/MM portion of the date field, or "".
func (r Record) Month() string {
	return monthOnlyPattern.FindString(r.Date)
}

// ParseAmount parses a transaction-book amount field. Thousands separators
// are stripped before parsing.
func ParseAmount(s string) (int64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
