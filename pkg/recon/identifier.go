package recon

import (
	"regexp"

	"github.com/shunichi-ikebuchi/mercari-recon/pkg/ledger"
)

// idPatterns are the recognized transaction identifier formats, in priority
// order. The first pattern with a match anywhere in the description wins,
// and within that pattern the earliest match wins.
var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`m\d{8,}`),             // Mercari order IDs
	regexp.MustCompile(`order_[A-Za-z0-9]+`),  // shop order IDs
	regexp.MustCompile(`z\d{8,}`),             // other platform IDs
	regexp.MustCompile(`d\d{8,}`),             // other platform IDs
	regexp.MustCompile(`\b\d{9,}\b`),          // bare long numeric IDs
}

// ExtractID scans a description for an embedded transaction identifier.
// The second return value reports whether one was found.
func ExtractID(description string) (string, bool) {
	for _, pattern := range idPatterns {
		if id := pattern.FindString(description); id != "" {
			return id, true
		}
	}
	return "", false
}

// TransactionGroups maps transaction identifiers to the records whose
// descriptions contain them, across every category. Identifier order is
// first-seen order so downstream output stays deterministic.
type TransactionGroups struct {
	IDs     []string
	Members map[string][]ledger.Record
}

// GroupByID builds transaction groups from the full record set. Records
// with no recognizable identifier join no group.
func GroupByID(records []ledger.Record) TransactionGroups {
	groups := TransactionGroups{Members: make(map[string][]ledger.Record)}
	for _, rec := range records {
		id, ok := ExtractID(rec.Description)
		if !ok {
			continue
		}
		if _, seen := groups.Members[id]; !seen {
			groups.IDs = append(groups.IDs, id)
		}
		groups.Members[id] = append(groups.Members[id], rec)
	}
	return groups
}
