package risk

import (
	"strings"

	"github.com/google/uuid"
	"github.com/okian/pactum/internal/domain/contracts"
	"github.com/okian/pactum/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Display fallbacks for records missing fields.
const (
	NoDescription       = "Sem descrição"
	NoValue             = "—"
	PenaltyCategory     = "Penalidade"
	DeliverableCategory = "Entrega Atrasada"
)

// Record is a source record that can be normalized into an Item.
// It is implemented only by Penalty and OverdueDeliverable.
type Record interface {
	source() Source
}

// Penalty wraps a penalty report row.
type Penalty struct{ model.PenaltyRecord }

// OverdueDeliverable wraps an overdue deliverable report row.
type OverdueDeliverable struct{ model.OverdueDeliverableRecord }

func (Penalty) source() Source            { return SourcePenalty }
func (OverdueDeliverable) source() Source { return SourceOverdueDeliverable }

// FromPenalties wraps penalty rows as records.
func FromPenalties(rows []model.PenaltyRecord) []Record {
	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = Penalty{r}
	}
	return out
}

// FromDeliverables wraps overdue deliverable rows as records.
func FromDeliverables(rows []model.OverdueDeliverableRecord) []Record {
	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = OverdueDeliverable{r}
	}
	return out
}

// Normalize converts records into risk items, resolving contract references through lookup.
// Records are never rejected: missing fields get placeholders and missing ids get a fresh UUID.
func Normalize(records []Record, lookup *contracts.Lookup) []Item {
	items := make([]Item, 0, len(records))
	for _, rec := range records {
		switch r := rec.(type) {
		case Penalty:
			items = append(items, fromPenalty(r.PenaltyRecord, lookup))
		case OverdueDeliverable:
			items = append(items, fromDeliverable(r.OverdueDeliverableRecord, lookup))
		}
	}
	return items
}

func fromPenalty(r model.PenaltyRecord, lookup *contracts.Lookup) Item {
	amount := decimal.Zero
	if r.Amount != nil && r.Amount.IsPositive() {
		amount = *r.Amount
	}
	return Item{
		ID:                idOrNew(r.PenaltyID),
		Source:            SourcePenalty,
		ContractReference: lookup.Resolve(r.ContractID, ""),
		Category:          orDefault(r.Type, PenaltyCategory),
		Severity:          ClassifyPenaltySeverity(r.Severity),
		Description:       orDefault(r.Reason, NoDescription),
		OccurredOn:        model.ParseTimestamp(r.RegisteredAt),
		MonetaryImpact:    &amount,
	}
}

func fromDeliverable(r model.OverdueDeliverableRecord, lookup *contracts.Lookup) Item {
	return Item{
		ID:                idOrNew(r.DeliverableID),
		Source:            SourceOverdueDeliverable,
		ContractReference: lookup.Resolve(r.ContractID, r.OfficialNumber),
		Category:          DeliverableCategory,
		Severity:          ClassifyOverdue(r.DaysOverdue),
		Description:       orDefault(r.Description, NoDescription),
		OccurredOn:        model.ParseTimestamp(r.ExpectedDate),
	}
}

func idOrNew(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return uuid.NewString()
}

func orDefault(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return fallback
}
