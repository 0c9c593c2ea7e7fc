// Package risk turns penalty and overdue-deliverable records into a unified,
// severity-ranked collection of risk items and filters it for display.
package risk

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Severity is the three-tier risk ranking. The zero value is SeverityHigh so an
// item can never carry an undefined tier.
type Severity int

const (
	SeverityHigh Severity = iota
	SeverityMedium
	SeverityLow
)

// Severities lists every tier in rank order.
var Severities = []Severity{SeverityHigh, SeverityMedium, SeverityLow}

// Rank returns the sort rank; lower ranks sort first.
func (s Severity) Rank() int { return int(s) }

func (s Severity) String() string {
	switch s {
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	default:
		return "low"
	}
}

// Label returns the Portuguese display label.
func (s Severity) Label() string {
	switch s {
	case SeverityHigh:
		return "Alto"
	case SeverityMedium:
		return "Médio"
	default:
		return "Baixo"
	}
}

// MarshalText encodes the severity as its lower-case name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(b []byte) error {
	f, err := ParseSeverityFilter(string(b))
	if err != nil {
		return err
	}
	sev, ok := f.Severity()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSeverity, string(b))
	}
	*s = sev
	return nil
}

// Source identifies the report a risk item came from.
type Source string

const (
	SourcePenalty            Source = "penalty"
	SourceOverdueDeliverable Source = "overdue_deliverable"
)

// Item is one normalized risk entry.
type Item struct {
	ID                string           `json:"id" yaml:"id"`
	Source            Source           `json:"source" yaml:"source"`
	ContractReference string           `json:"contractReference" yaml:"contractReference"`
	Category          string           `json:"category" yaml:"category"`
	Severity          Severity         `json:"severity" yaml:"severity"`
	Description       string           `json:"description" yaml:"description"`
	OccurredOn        time.Time        `json:"occurredOn,omitzero" yaml:"occurredOn,omitempty"`
	MonetaryImpact    *decimal.Decimal `json:"monetaryImpact,omitempty" yaml:"monetaryImpact,omitempty"`
}

// Counts holds the number of items per severity.
type Counts struct {
	High   int `json:"high" yaml:"high"`
	Medium int `json:"medium" yaml:"medium"`
	Low    int `json:"low" yaml:"low"`
}

// Total returns the number of items across all tiers.
func (c Counts) Total() int { return c.High + c.Medium + c.Low }

// Of returns the count for one tier.
func (c Counts) Of(s Severity) int {
	switch s {
	case SeverityHigh:
		return c.High
	case SeverityMedium:
		return c.Medium
	default:
		return c.Low
	}
}

// CountBySeverity tallies items per tier.
func CountBySeverity(items []Item) Counts {
	var c Counts
	for _, it := range items {
		switch it.Severity {
		case SeverityHigh:
			c.High++
		case SeverityMedium:
			c.Medium++
		default:
			c.Low++
		}
	}
	return c
}
