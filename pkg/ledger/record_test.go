package ledger

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		category string
		expected Category
	}{
		{"sale", "売上 2025/07/01", "売上", CategorySale},
		{"sale marker only in date", "売上 2025/07/01", "雑収入", CategoryOther},
		{"sale category must be exact", "売上 2025/07/01", "売上高", CategoryOther},
		{"transfer", "振替 2025/07/01", "振替", CategoryTransfer},
		{"transfer compound category", "振替 2025/07/01", "売掛金振替 / 決済", CategoryTransfer},
		{"transfer marker only in date", "振替 2025/07/01", "入金", CategoryOther},
		{"transfer marker only in category", "2025/07/01", "振替", CategoryOther},
		{"expense is other", "経費 2025/07/01", "支払手数料", CategoryOther},
		{"empty fields", "", "", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Record{Date: tt.date, CategoryLabel: tt.category}
			if got := rec.Classify(); got != tt.expected {
				t.Errorf("Classify() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
		ok       bool
	}{
		{"plain", "1000", 1000, true},
		{"thousands separator", "12,300", 12300, true},
		{"multiple separators", "1,234,567", 1234567, true},
		{"leading whitespace", " 500", 500, true},
		{"zero", "0", 0, true},
		{"negative", "-300", -300, true},
		{"non-numeric", "abc", 0, false},
		{"empty", "", 0, false},
		{"mixed", "12a3", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			if got != tt.expected || ok != tt.ok {
				t.Errorf("ParseAmount(%q) = (%d, %v), expected (%d, %v)", tt.input, got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestDateOnly(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		expected string
	}{
		{"date with time", "2025/07/01 12:34:56", "2025/07/01"},
		{"date only", "2025/07/01", "2025/07/01"},
		{"no leading date", "売上 2025/07/01", ""},
		{"wrong separator", "2025-07-01", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Record{Date: tt.date}
			if got := rec.DateOnly(); got != tt.expected {
				t.Errorf("DateOnly() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestMonth(t *testing.T) {
	rec := Record{Date: "2025/07/01 08:00:00"}
	if got := rec.Month(); got != "2025/07" {
		t.Errorf("Month() = %q, expected %q", got, "2025/07")
	}

	rec = Record{Date: "July 2025"}
	if got := rec.Month(); got != "" {
		t.Errorf("Month() = %q, expected empty", got)
	}
}
