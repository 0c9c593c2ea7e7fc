// Package agenda classifies deadline alerts by the number of days left.
package agenda

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/okian/pactum/internal/domain/contracts"
	"github.com/okian/pactum/internal/domain/model"
)

// Reference labels for alerts that are not tied to a contract.
const (
	DeliverableReference = "Item de Entrega"
	NoReference          = "N/A"
)

// Window limits in days.
const (
	AttentionDays = 7
	PlanningDays  = 30
)

// Status is the urgency of an agenda event.
type Status string

const (
	StatusOverdue   Status = "overdue"
	StatusAttention Status = "attention"
	StatusPlanned   Status = "planned"
)

// Label returns the Portuguese display label.
func (s Status) Label() string {
	switch s {
	case StatusOverdue:
		return "Atrasado"
	case StatusAttention:
		return "Atenção"
	default:
		return "Planejado"
	}
}

// Event is one alert placed on the agenda.
type Event struct {
	ID                string    `json:"id" yaml:"id"`
	Title             string    `json:"title" yaml:"title"`
	ContractReference string    `json:"contractReference" yaml:"contractReference"`
	TargetDate        time.Time `json:"targetDate,omitzero" yaml:"targetDate,omitempty"`
	Dated             bool      `json:"dated" yaml:"dated"`
	DaysLeft          int       `json:"daysLeft" yaml:"daysLeft"`
	Status            Status    `json:"status" yaml:"status"`
}

// Caption describes the remaining time in Portuguese.
func (e Event) Caption() string {
	if !e.Dated {
		return "Sem data"
	}
	if e.DaysLeft < 0 {
		return fmt.Sprintf("Atrasado há %d dias", -e.DaysLeft)
	}
	return fmt.Sprintf("Faltam %d dias", e.DaysLeft)
}

// Counts summarizes the agenda windows. An attention event counts in both Next7 and Next30.
type Counts struct {
	Next7   int `json:"next7" yaml:"next7"`
	Next30  int `json:"next30" yaml:"next30"`
	Overdue int `json:"overdue" yaml:"overdue"`
}

// DaysUntil returns the whole days from now to target, rounded up.
func DaysUntil(target, now time.Time) int {
	return int(math.Ceil(target.Sub(now).Hours() / 24))
}

// Classify returns the status for a days-left value.
func Classify(daysLeft int) Status {
	switch {
	case daysLeft < 0:
		return StatusOverdue
	case daysLeft <= AttentionDays:
		return StatusAttention
	default:
		return StatusPlanned
	}
}

// Build places alerts on the agenda relative to now and tallies the windows.
// Alerts without a parseable target date are planned and not counted.
func Build(alerts []model.AlertRecord, lookup *contracts.Lookup, now time.Time) ([]Event, Counts) {
	events := make([]Event, 0, len(alerts))
	var c Counts
	for _, a := range alerts {
		ev := Event{
			ID:                a.ID,
			Title:             a.Message,
			ContractReference: reference(a, lookup),
			Status:            StatusPlanned,
		}
		if target := model.ParseTimestamp(a.TargetDate); !target.IsZero() {
			ev.TargetDate = target
			ev.Dated = true
			ev.DaysLeft = DaysUntil(target, now)
			ev.Status = Classify(ev.DaysLeft)
			switch {
			case ev.Status == StatusOverdue:
				c.Overdue++
			case ev.Status == StatusAttention:
				c.Next7++
				c.Next30++
			case ev.DaysLeft <= PlanningDays:
				c.Next30++
			}
		}
		events = append(events, ev)
	}
	return events, c
}

func reference(a model.AlertRecord, lookup *contracts.Lookup) string {
	if id := strings.TrimSpace(a.ContractID); id != "" {
		if num, ok := lookup.OfficialNumber(id); ok {
			return num
		}
		return contracts.Placeholder(contracts.RefPrefix, id)
	}
	if strings.TrimSpace(a.DeliverableID) != "" {
		return DeliverableReference
	}
	return NoReference
}
