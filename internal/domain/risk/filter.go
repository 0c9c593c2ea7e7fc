package risk

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SeverityFilter selects items by tier. FilterAll matches every item.
type SeverityFilter string

const (
	FilterAll    SeverityFilter = "all"
	FilterHigh   SeverityFilter = "high"
	FilterMedium SeverityFilter = "medium"
	FilterLow    SeverityFilter = "low"
)

// SeverityFilters lists the filter values in cycling order.
var SeverityFilters = []SeverityFilter{FilterAll, FilterHigh, FilterMedium, FilterLow}

// ParseSeverityFilter parses a filter value. Empty means all; the Portuguese labels are accepted.
func ParseSeverityFilter(s string) (SeverityFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "todos":
		return FilterAll, nil
	case "high", "alto":
		return FilterHigh, nil
	case "medium", "médio", "medio":
		return FilterMedium, nil
	case "low", "baixo":
		return FilterLow, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSeverity, s)
	}
}

// Severity returns the tier selected by the filter; ok is false for FilterAll.
func (f SeverityFilter) Severity() (Severity, bool) {
	switch f {
	case FilterHigh:
		return SeverityHigh, true
	case FilterMedium:
		return SeverityMedium, true
	case FilterLow:
		return SeverityLow, true
	default:
		return SeverityHigh, false
	}
}

// Matches reports whether an item of tier s passes the filter.
func (f SeverityFilter) Matches(s Severity) bool {
	want, ok := f.Severity()
	return !ok || want == s
}

// Next returns the following filter in cycling order.
func (f SeverityFilter) Next() SeverityFilter {
	i := slices.Index(SeverityFilters, f)
	return SeverityFilters[(i+1)%len(SeverityFilters)]
}

// Filter combines a severity selection with a free-text search.
type Filter struct {
	Severity SeverityFilter
	Search   string
}

// Apply returns the items matching f, sorted by severity rank.
// Items of equal rank keep their input order. The input slice is not modified.
func Apply(items []Item, f Filter) []Item {
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if !f.Severity.Matches(it.Severity) {
			continue
		}
		if needle != "" && !matchesSearch(it, needle) {
			continue
		}
		out = append(out, it)
	}
	slices.SortStableFunc(out, func(a, b Item) int {
		return cmp.Compare(a.Severity.Rank(), b.Severity.Rank())
	})
	return out
}

func matchesSearch(it Item, needle string) bool {
	return strings.Contains(strings.ToLower(it.ContractReference), needle) ||
		strings.Contains(strings.ToLower(it.Description), needle) ||
		strings.Contains(strings.ToLower(it.Category), needle)
}
