package contracts

import (
	"strings"

	"github.com/okian/pactum/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Fallbacks for contract detail fields the backend left blank.
const (
	NotInformed   = "N/A"
	NoDescription = "Sem descrição"
)

// Detail is a contract with its obligations and a summary of what hangs off it.
type Detail struct {
	model.ContractDetails
	Summary Summary `json:"summary"`
}

// Summary counts obligations, deliveries and sanctions of one contract.
type Summary struct {
	Obligations         int             `json:"obligations"`
	Deliverables        int             `json:"deliverables"`
	PendingDeliverables int             `json:"pendingDeliverables"`
	NonCompliances      int             `json:"nonCompliances"`
	Penalties           int             `json:"penalties"`
	PenaltyTotal        decimal.Decimal `json:"penaltyTotal"`
}

// NewDetail fills display placeholders and computes the summary.
// Nil collections become empty ones; the input is not modified.
func NewDetail(d model.ContractDetails) Detail {
	out := Detail{ContractDetails: d}
	c := &out.ContractDetails

	if strings.TrimSpace(c.OfficialNumber) == "" {
		if strings.TrimSpace(c.ID) == "" {
			c.OfficialNumber = Unidentified
		} else {
			c.OfficialNumber = Placeholder(IDPrefix, c.ID)
		}
	}
	if strings.TrimSpace(c.AdministrativeProcess) == "" {
		c.AdministrativeProcess = NotInformed
	}

	c.Obligations = make([]model.Obligation, 0, len(d.Obligations))
	sum := Summary{PenaltyTotal: decimal.Zero}
	for _, ob := range d.Obligations {
		if strings.TrimSpace(ob.Description) == "" {
			ob.Description = NoDescription
		}
		if ob.Deliverables == nil {
			ob.Deliverables = []model.Deliverable{}
		}
		if ob.NonCompliances == nil {
			ob.NonCompliances = []model.NonCompliance{}
		}
		c.Obligations = append(c.Obligations, ob)

		sum.Obligations++
		sum.Deliverables += len(ob.Deliverables)
		for _, dl := range ob.Deliverables {
			if strings.TrimSpace(dl.DeliveredAt) == "" {
				sum.PendingDeliverables++
			}
		}
		sum.NonCompliances += len(ob.NonCompliances)
		for _, nc := range ob.NonCompliances {
			if nc.Penalty == nil {
				continue
			}
			sum.Penalties++
			if nc.Penalty.Amount != nil && nc.Penalty.Amount.IsPositive() {
				sum.PenaltyTotal = sum.PenaltyTotal.Add(*nc.Penalty.Amount)
			}
		}
	}
	out.Summary = sum
	return out
}

// NonCompliances flattens the non-compliances of every obligation, in obligation order.
func NonCompliances(d model.ContractDetails) []model.NonCompliance {
	out := []model.NonCompliance{}
	for _, ob := range d.Obligations {
		out = append(out, ob.NonCompliances...)
	}
	return out
}
