package ledger

import (
	"strings"
	"testing"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

func TestParse(t *testing.T) {
	input := strings.Join([]string{
		`No,取引日,取引分類,科目,摘要,取引先,取引手段,金額`,
		`1,2025/07/01 売上,収入,売上,m12345678 商品A,メルカリ,売掛金,"1,000"`,
		`2,2025/07/01 振替,振替,売掛金振替,m12345678,メルカリ,預金,900`,
		``,
		`小計,,,,,,,`,
		`3,2025/07/02 売上,収入,売上,商品B,メルカリ,売掛金,abc`,
		`4,2025/07/02,収入,売上,商品C,メルカリ,売掛金`,
	}, "\n")

	result, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// Header, blank, and summary rows are skipped; the short row (7
	// fields) is structurally excluded.
	if len(result.Records) != 3 {
		t.Fatalf("len(Records) = %d, expected 3", len(result.Records))
	}
	// encoding/csv swallows the fully blank line, so six rows are seen.
	if result.LineCount != 6 {
		t.Errorf("LineCount = %d, expected 6", result.LineCount)
	}

	first := result.Records[0]
	if first.Seq != 1 {
		t.Errorf("Seq = %d, expected 1", first.Seq)
	}
	if first.Amount != 1000 || !first.AmountOK {
		t.Errorf("Amount = (%d, %v), expected (1000, true)", first.Amount, first.AmountOK)
	}
	if first.Counterparty != "メルカリ" {
		t.Errorf("Counterparty = %q", first.Counterparty)
	}

	// Non-numeric amount keeps the record but flags it.
	third := result.Records[2]
	if third.Seq != 3 {
		t.Errorf("Seq = %d, expected 3", third.Seq)
	}
	if third.AmountOK {
		t.Error("AmountOK = true for non-numeric amount, expected false")
	}
}

func TestParseEmptyAmountIsZero(t *testing.T) {
	input := `5,2025/07/03 売上,収入,売上,商品D,メルカリ,売掛金,`
	result, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("len(Records) = %d, expected 1", len(result.Records))
	}
	rec := result.Records[0]
	if rec.Amount != 0 || !rec.AmountOK {
		t.Errorf("Amount = (%d, %v), expected (0, true)", rec.Amount, rec.AmountOK)
	}
}

func TestDecodeText(t *testing.T) {
	const sample = "1,2025/07/01 売上,収入,売上,商品,メルカリ,売掛金,1000"

	sjis, _, err := transform.Bytes(japanese.ShiftJIS.NewEncoder(), []byte(sample))
	if err != nil {
		t.Fatalf("failed to build Shift_JIS fixture: %v", err)
	}

	tests := []struct {
		name     string
		data     []byte
		encoding string
	}{
		{"utf-8", []byte(sample), "utf-8"},
		{"utf-8 with BOM", append([]byte{0xEF, 0xBB, 0xBF}, []byte(sample)...), "utf-8-sig"},
		{"shift_jis", sjis, "shift_jis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, encName, err := DecodeText(tt.data)
			if err != nil {
				t.Fatalf("DecodeText() error = %v", err)
			}
			if encName != tt.encoding {
				t.Errorf("encoding = %q, expected %q", encName, tt.encoding)
			}
			if text != sample {
				t.Errorf("decoded text = %q, expected %q", text, sample)
			}
		})
	}
}
