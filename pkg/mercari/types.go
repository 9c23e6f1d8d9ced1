// Package mercari parses Mercari marketplace exports, both the regular
// transaction export and the shop sales report.
package mercari

// Source identifies which export format a transaction came from.
type Source string

const (
	SourceRegular Source = "regular"
	SourceShop    Source = "shop"
)

// Transaction is one completed marketplace order. Numeric fields are kept
// as exported strings; the converter decides how strictly to parse them.
type Transaction struct {
	CompletedAt  string // purchase/settlement completion timestamp
	ProductID    string
	ProductName  string
	ProductPrice string
	SalesFee     string
	ShippingFee  string
	SalesProfit  string
	Buyer        string
}
