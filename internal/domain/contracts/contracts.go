// Package contracts resolves contract identifiers to human-readable official numbers.
package contracts

import (
	"strings"

	"github.com/okian/pactum/internal/domain/model"
)

// Display labels used when a contract cannot be resolved.
const (
	Unidentified  = "Não identificado"
	IDPrefix      = "ID: "
	RefPrefix     = "Ref: "
	placeholderN  = 8
	placeholderTL = "..."
)

// Lookup maps contract identifiers to official numbers.
// It is built once per aggregation cycle and is read-only afterwards.
// A nil *Lookup behaves as an empty table.
type Lookup struct {
	numbers map[string]string
}

// NewLookup builds a lookup table from the contract directory.
// Records with an empty id or official number are skipped; the first occurrence of an id wins.
// Deleted contracts are kept so historical penalties still resolve.
func NewLookup(records []model.ContractRecord) *Lookup {
	l := &Lookup{numbers: make(map[string]string, len(records))}
	for _, r := range records {
		id := strings.TrimSpace(r.ID)
		num := strings.TrimSpace(r.OfficialNumber)
		if id == "" || num == "" {
			continue
		}
		if _, exists := l.numbers[id]; exists {
			continue
		}
		l.numbers[id] = num
	}
	return l
}

// Len returns the number of resolvable contracts.
func (l *Lookup) Len() int {
	if l == nil {
		return 0
	}
	return len(l.numbers)
}

// OfficialNumber returns the official number of a contract id, if known.
func (l *Lookup) OfficialNumber(contractID string) (string, bool) {
	if l == nil {
		return "", false
	}
	num, ok := l.numbers[strings.TrimSpace(contractID)]
	return num, ok
}

// Resolve returns the display reference for a contract.
// A non-blank embedded reference wins. A blank id yields Unidentified. Otherwise the
// official number from the table is used, falling back to a truncated id placeholder.
// The result is never empty.
func (l *Lookup) Resolve(contractID, embedded string) string {
	if ref := strings.TrimSpace(embedded); ref != "" {
		return ref
	}
	id := strings.TrimSpace(contractID)
	if id == "" {
		return Unidentified
	}
	if num, ok := l.OfficialNumber(id); ok {
		return num
	}
	return Placeholder(IDPrefix, id)
}

// Placeholder renders prefix followed by the first eight characters of id and an ellipsis.
func Placeholder(prefix, id string) string {
	r := []rune(strings.TrimSpace(id))
	if len(r) > placeholderN {
		r = r[:placeholderN]
	}
	return prefix + string(r) + placeholderTL
}

// Search returns the contracts whose official number or id contains term, ignoring case.
// An empty term returns every record. The input slice is not modified.
func Search(records []model.ContractRecord, term string) []model.ContractRecord {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]model.ContractRecord, 0, len(records))
	for _, r := range records {
		if needle == "" ||
			strings.Contains(strings.ToLower(r.OfficialNumber), needle) ||
			strings.Contains(strings.ToLower(r.ID), needle) {
			out = append(out, r)
		}
	}
	return out
}
