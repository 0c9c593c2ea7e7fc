package risk

import (
	"strings"
	"unicode"
)

// Day thresholds for overdue deliverables.
const (
	HighOverdueDays   = 30
	MediumOverdueDays = 7
)

// Stems match anywhere in the label; words only match a whole word,
// so "falta" is not read as "alta" nor "imediata" as "media".
var (
	highStems   = []string{"alto", "high", "grave"}
	highWords   = []string{"alta", "severe", "severa", "severo"}
	mediumStems = []string{"médio", "medium"}
	mediumWords = []string{"média", "medio", "media", "moderate", "moderada", "moderado"}
)

// ClassifyPenaltySeverity maps a free-text severity label to a tier.
// High markers are checked before medium ones; anything else is low.
func ClassifyPenaltySeverity(label string) Severity {
	l := strings.ToLower(strings.TrimSpace(label))
	if l == "" {
		return SeverityLow
	}
	words := strings.FieldsFunc(l, func(r rune) bool { return !unicode.IsLetter(r) })
	if containsAny(l, highStems) || hasWord(words, highWords) {
		return SeverityHigh
	}
	if containsAny(l, mediumStems) || hasWord(words, mediumWords) {
		return SeverityMedium
	}
	return SeverityLow
}

// ClassifyOverdue maps the number of days a deliverable is overdue to a tier.
func ClassifyOverdue(daysOverdue int) Severity {
	switch {
	case daysOverdue >= HighOverdueDays:
		return SeverityHigh
	case daysOverdue >= MediumOverdueDays:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func hasWord(words, markers []string) bool {
	for _, w := range words {
		for _, m := range markers {
			if w == m {
				return true
			}
		}
	}
	return false
}
