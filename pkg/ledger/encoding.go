package ledger

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText decodes raw file content into UTF-8 text. Marketplace exports
// arrive in a mix of encodings, so it tries UTF-8 (with or without BOM)
// first and falls back to Shift_JIS/CP932.
//
// It returns the decoded text and the name of the encoding used.
func DecodeText(data []byte) (string, string, error) {
	if bytes.HasPrefix(data, utf8BOM) {
		return string(bytes.TrimPrefix(data, utf8BOM)), "utf-8-sig", nil
	}
	if utf8.Valid(data) {
		return string(data), "utf-8", nil
	}

	decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), data)
	if err == nil && !strings.ContainsRune(string(decoded), utf8.RuneError) {
		return string(decoded), "shift_jis", nil
	}

	return "", "", fmt.Errorf("content is neither valid UTF-8 nor Shift_JIS")
}
