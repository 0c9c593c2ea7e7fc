// Package types contains the snapshot and view types shared by the service and its adapters.
package types

import (
	"time"

	"github.com/okian/pactum/internal/domain/agenda"
	"github.com/okian/pactum/internal/domain/reports"
	"github.com/okian/pactum/internal/domain/risk"
)

// State describes what a snapshot can show.
type State string

const (
	// StateReady means at least one item is available.
	StateReady State = "ready"
	// StateEmpty means the sources answered and there is nothing at risk.
	StateEmpty State = "empty"
	// StateUnavailable means no risk-bearing source could be reached.
	StateUnavailable State = "unavailable"
)

// Source names used in warnings and source statuses.
const (
	SourcePenalties    = "penalties"
	SourceDeliverables = "due-deliverables"
	SourceContracts    = "contracts"
	SourceAlerts       = "alerts"
)

// Warning reports a source that failed during a cycle.
type Warning struct {
	Source  string `json:"source" yaml:"source"`
	Message string `json:"message" yaml:"message"`
}

// SourceStatus records how one source behaved during a cycle.
type SourceStatus struct {
	Name      string  `json:"name" yaml:"name"`
	Available bool    `json:"available" yaml:"available"`
	Records   int     `json:"records" yaml:"records"`
	LatencyMS float64 `json:"latencyMs" yaml:"latencyMs"`
}

// Snapshot is the result of one aggregation cycle. It is replaced wholesale by the next cycle.
type Snapshot struct {
	CycleID     string         `json:"cycleId" yaml:"cycleId"`
	StartedAt   time.Time      `json:"startedAt" yaml:"startedAt"`
	CompletedAt time.Time      `json:"completedAt" yaml:"completedAt"`
	State       State          `json:"state" yaml:"state"`
	Items       []risk.Item    `json:"items" yaml:"items"`
	Counts      risk.Counts    `json:"counts" yaml:"counts"`
	Warnings    []Warning      `json:"warnings" yaml:"warnings"`
	Sources     []SourceStatus `json:"sources" yaml:"sources"`
	Duplicates  int            `json:"duplicatesDropped" yaml:"duplicatesDropped"`
}

// Duration returns how long the cycle took.
func (s *Snapshot) Duration() time.Duration {
	return s.CompletedAt.Sub(s.StartedAt)
}

// RiskView is a filtered projection of a snapshot.
// Counts always describe the full collection, not the filtered items.
type RiskView struct {
	CycleID     string              `json:"cycleId" yaml:"cycleId"`
	CompletedAt time.Time           `json:"completedAt" yaml:"completedAt"`
	State       State               `json:"state" yaml:"state"`
	Severity    risk.SeverityFilter `json:"severity" yaml:"severity"`
	Search      string              `json:"search,omitempty" yaml:"search,omitempty"`
	Counts      risk.Counts         `json:"counts" yaml:"counts"`
	Total       int                 `json:"total" yaml:"total"`
	Items       []risk.Item         `json:"items" yaml:"items"`
	Warnings    []Warning           `json:"warnings" yaml:"warnings"`
}

// NewRiskView filters a snapshot.
func NewRiskView(s *Snapshot, f risk.Filter) RiskView {
	sev := f.Severity
	if sev == "" {
		sev = risk.FilterAll
	}
	return RiskView{
		CycleID:     s.CycleID,
		CompletedAt: s.CompletedAt,
		State:       s.State,
		Severity:    sev,
		Search:      f.Search,
		Counts:      s.Counts,
		Total:       s.Counts.Total(),
		Items:       risk.Apply(s.Items, f),
		Warnings:    s.Warnings,
	}
}

// Stats summarizes the service for /stats and the metrics updater.
type Stats struct {
	Running         bool        `json:"running"`
	Cycles          int64       `json:"cycles"`
	LastCycleID     string      `json:"lastCycleId,omitempty"`
	LastState       State       `json:"lastState,omitempty"`
	LastCompletedAt *time.Time  `json:"lastCompletedAt,omitempty"`
	LastDurationMS  float64     `json:"lastDurationMs"`
	Items           int         `json:"items"`
	Counts          risk.Counts `json:"counts"`
	Warnings        int         `json:"warnings"`
}

// AgendaView is the deadline agenda built from the backend's alerts.
type AgendaView struct {
	GeneratedAt time.Time      `json:"generatedAt" yaml:"generatedAt"`
	State       State          `json:"state" yaml:"state"`
	Events      []agenda.Event `json:"events" yaml:"events"`
	Counts      agenda.Counts  `json:"counts" yaml:"counts"`
	Warnings    []Warning      `json:"warnings" yaml:"warnings"`
}

// StatusReport is the contract status distribution with its total.
type StatusReport struct {
	Total  int                   `json:"total" yaml:"total"`
	Shares []reports.StatusShare `json:"shares" yaml:"shares"`
}
