package yayoi

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/shunichi-ikebuchi/mercari-recon/pkg/converter"
	"github.com/shunichi-ikebuchi/mercari-recon/pkg/pathutil"
)

func TestWriteBatches(t *testing.T) {
	root := t.TempDir()
	resolver := pathutil.New(pathutil.Config{OutputRoot: root})
	mapper := converter.DefaultMapper()
	writer := NewWriter(resolver, mapper)

	batches := []converter.Batch{
		{
			Key: "売掛金（メルカリ）",
			Entries: []converter.Entry{
				{
					Date:         "2025/07/01",
					Class:        "売上",
					Account:      "売上",
					Description:  "m12345678 商品A",
					Counterparty: "メルカリ",
					Method:       "売掛金（メルカリ）",
					Amount:       1000,
				},
			},
		},
		{
			Key: "その他の預金_支払手数料",
			Entries: []converter.Entry{
				{
					Date:         "2025/07/01",
					Class:        "経費",
					Account:      "支払手数料",
					Description:  "m12345678 商品A",
					Counterparty: "メルカリ",
					Method:       "その他の預金",
					Amount:       100,
				},
			},
		},
	}

	written, err := writer.WriteBatches("sales_yayoi", batches)
	if err != nil {
		t.Fatalf("WriteBatches() error = %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("len(written) = %d, expected 2", len(written))
	}

	wantPaths := []string{
		filepath.Join(root, "sales_yayoi_urikake_mercari.csv"),
		filepath.Join(root, "sales_yayoi_sonota_yokin_tesuryo.csv"),
	}
	for i, want := range wantPaths {
		if written[i] != want {
			t.Errorf("written[%d] = %q, expected %q", i, written[i], want)
		}
	}

	raw, err := os.ReadFile(written[0])
	if err != nil {
		t.Fatal(err)
	}

	// Output is Shift_JIS; decode before checking content.
	decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), raw)
	if err != nil {
		t.Fatalf("output is not valid Shift_JIS: %v", err)
	}
	got := string(decoded)

	want := `"2025/07/01","売上","売上","m12345678 商品A","メルカリ","1000"` + "\r\n"
	if got != want {
		t.Errorf("file content = %q, expected %q", got, want)
	}
}

func TestFormatRowQuotesAndEscapes(t *testing.T) {
	entry := converter.Entry{
		Date:         "2025/07/01",
		Class:        "売上",
		Account:      "売上",
		Description:  `商品 "限定" 版`,
		Counterparty: "メルカリ",
		Amount:       1500,
	}

	row := formatRow(entry)
	if !strings.Contains(row, `"商品 ""限定"" 版"`) {
		t.Errorf("inner quotes not doubled: %q", row)
	}
	if !strings.HasSuffix(row, "\r\n") {
		t.Errorf("row does not end with CRLF: %q", row)
	}
	if strings.Count(row, ",") != 5 {
		t.Errorf("row has %d commas, expected 5", strings.Count(row, ","))
	}
}
