// Package yayoi writes ledger entry batches as Yayoi import CSV files.
package yayoi

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/shunichi-ikebuchi/mercari-recon/pkg/converter"
	"github.com/shunichi-ikebuchi/mercari-recon/pkg/pathutil"
)

// Writer writes one Shift_JIS CSV file per settlement-method batch.
// Yayoi import files carry no header row and quote every field.
type Writer struct {
	pathResolver *pathutil.PathResolver
	mapper       *converter.Mapper
}

// NewWriter creates a Writer.
func NewWriter(pathResolver *pathutil.PathResolver, mapper *converter.Mapper) *Writer {
	return &Writer{
		pathResolver: pathResolver,
		mapper:       mapper,
	}
}

// WriteBatches writes each batch to `<base>_<method_slug>.csv` under the
// output root and returns the paths written. A row that fails to write is
// skipped with a warning; a file that cannot be created fails the run.
func (w *Writer) WriteBatches(base string, batches []converter.Batch) ([]string, error) {
	var written []string
	for _, batch := range batches {
		path := w.pathResolver.GetBatchPath(base, w.mapper.FilenameForMethod(batch.Key))
		if err := w.writeBatch(path, batch); err != nil {
			return written, err
		}
		written = append(written, path)
		slog.Info("Wrote batch file", "path", path, "entries", len(batch.Entries))
	}
	return written, nil
}

func (w *Writer) writeBatch(path string, batch converter.Batch) error {
	if err := w.pathResolver.EnsureParentDir(path); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create batch file: %w", err)
	}
	defer f.Close()

	// Unencodable runes are replaced rather than failing the file; the
	// entry text was already cleaned upstream.
	enc := transform.NewWriter(f, encoding.ReplaceUnsupported(japanese.ShiftJIS.NewEncoder()))
	for _, entry := range batch.Entries {
		if _, err := enc.Write([]byte(formatRow(entry))); err != nil {
			slog.Warn("Could not write entry, skipping", "description", entry.Description, "error", err)
			continue
		}
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to flush batch file: %w", err)
	}

	return nil
}

// formatRow renders one Yayoi CSV row: date, class, account, description,
// counterparty, amount — every field quoted.
func formatRow(entry converter.Entry) string {
	fields := []string{
		entry.Date,
		entry.Class,
		entry.Account,
		entry.Description,
		entry.Counterparty,
		strconv.FormatInt(entry.Amount, 10),
	}
	quoted := make([]string, len(fields))
	for i, field := range fields {
		quoted[i] = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",") + "\r\n"
}
