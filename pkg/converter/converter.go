package converter

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shunichi-ikebuchi/mercari-recon/pkg/ledger"
	"github.com/shunichi-ikebuchi/mercari-recon/pkg/mercari"
)

// Entry is one Yayoi ledger row produced from a marketplace transaction.
// Method selects the output batch and is not itself written as a column.
type Entry struct {
	Date         string // YYYY/MM/DD
	Class        string // 取引分類: 売上 or 経費
	Account      string // 科目
	Description  string // 摘要: "<productID> <productName>"
	Counterparty string // 取引先
	Method       string // 取引手段
	Amount       int64
}

// Batch is a set of entries destined for one output file.
type Batch struct {
	Key     string
	Entries []Entry
}

// Converter turns marketplace transactions into Yayoi ledger entries.
type Converter struct {
	mapper *Mapper
	shop   bool
}

// NewConverter creates a Converter for the regular or shop channel.
func NewConverter(mapper *Mapper, shop bool) *Converter {
	return &Converter{mapper: mapper, shop: shop}
}

// Convert fans one transaction out into up to three ledger entries: the
// sale itself, the sales fee, and the shipping fee. Fee entries are
// emitted only when positive. A transaction whose product price does not
// parse is skipped with a warning and yields no entries.
func (c *Converter) Convert(txn mercari.Transaction) []Entry {
	price, err := strconv.ParseInt(strings.TrimSpace(txn.ProductPrice), 10, 64)
	if err != nil {
		slog.Warn("Invalid product price, skipping transaction", "product_id", txn.ProductID, "price", txn.ProductPrice)
		return nil
	}
	salesFee := parseOptionalAmount(txn.SalesFee)
	shippingFee := parseOptionalAmount(txn.ShippingFee)

	date := formatEntryDate(txn.CompletedAt)
	description := strings.TrimSpace(txn.ProductID + " " + cleanText(txn.ProductName))

	profile := c.mapper.Profile(c.shop)
	accounts := c.mapper.Accounts()

	entries := []Entry{{
		Date:         date,
		Class:        ledger.MarkerSale,
		Account:      accounts.Sales,
		Description:  description,
		Counterparty: profile.Counterparty,
		Method:       profile.Receivable,
		Amount:       price,
	}}

	if salesFee > 0 {
		entries = append(entries, Entry{
			Date:         date,
			Class:        ledger.MarkerExpense,
			Account:      accounts.SalesFee,
			Description:  description,
			Counterparty: profile.Counterparty,
			Method:       profile.Deposit,
			Amount:       salesFee,
		})
	}

	if shippingFee > 0 {
		entries = append(entries, Entry{
			Date:         date,
			Class:        ledger.MarkerExpense,
			Account:      accounts.Shipping,
			Description:  description,
			Counterparty: profile.Counterparty,
			Method:       profile.Deposit,
			Amount:       shippingFee,
		})
	}

	return entries
}

// ConvertAll converts a slice of transactions, concatenating the fan-outs
// in input order.
func (c *Converter) ConvertAll(txns []mercari.Transaction) []Entry {
	var entries []Entry
	for _, txn := range txns {
		entries = append(entries, c.Convert(txn)...)
	}
	return entries
}

// Partition groups entries into output batches by settlement method.
// Expense entries on the deposit method get their own batch per account so
// fees and shipping import separately. Batch order is first-seen order.
func (c *Converter) Partition(entries []Entry) []Batch {
	accounts := c.mapper.Accounts()
	deposit := c.mapper.Profile(c.shop).Deposit

	index := make(map[string]int)
	var batches []Batch
	for _, entry := range entries {
		key := entry.Method
		if entry.Method == deposit && (entry.Account == accounts.SalesFee || entry.Account == accounts.Shipping) {
			key = entry.Method + "_" + entry.Account
		}
		i, seen := index[key]
		if !seen {
			i = len(batches)
			index[key] = i
			batches = append(batches, Batch{Key: key})
		}
		batches[i].Entries = append(batches[i].Entries, entry)
	}
	return batches
}

// parseOptionalAmount parses a fee field, treating anything non-numeric as
// zero.
func parseOptionalAmount(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// entryDateLayouts are the timestamp shapes seen across export formats,
// tried in order.
var entryDateLayouts = []string{
	"2006/1/2 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// formatEntryDate normalizes an export timestamp to the Yayoi YYYY/MM/DD
// form. Unparseable dates are passed through as-is with a warning.
func formatEntryDate(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range entryDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006/01/02")
		}
	}
	slog.Warn("Could not parse date, using as-is", "date", s)
	return s
}

// textCleaner strips Unicode space variants that the Shift_JIS output
// encoding cannot represent.
var textCleaner = strings.NewReplacer(
	"\u202f", " ", // narrow no-break space
	"\u00a0", " ", // no-break space
	"\u2009", " ", // thin space
	"\u200a", " ", // hair space
)

func cleanText(s string) string {
	return textCleaner.Replace(s)
}
