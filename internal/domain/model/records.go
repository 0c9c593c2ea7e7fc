// Package model contains the wire records returned by the contract-management backend.
// Fields mirror the backend's JSON report payloads.
package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PenaltyRecord is one row of GET /api/reports/penalties.
type PenaltyRecord struct {
	PenaltyID       string           `json:"penaltyId"`
	NonComplianceID string           `json:"nonComplianceId"`
	ContractID      string           `json:"contractId"`
	Reason          string           `json:"reason"`
	Severity        string           `json:"severity"` // free text, e.g. "Alta", "grave"
	RegisteredAt    string           `json:"registeredAt"`
	Type            string           `json:"type"` // e.g. "Multa", "Advertência"
	LegalBasis      string           `json:"legalBasis,omitempty"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
}

// OverdueDeliverableRecord is one row of GET /api/reports/due-deliverables.
// The backend computes DaysOverdue; an absent value decodes to 0.
type OverdueDeliverableRecord struct {
	ContractID     string `json:"contractId"`
	OfficialNumber string `json:"officialNumber"`
	DeliverableID  string `json:"deliverableId"`
	Description    string `json:"description"`
	ExpectedDate   string `json:"expectedDate"`
	DaysOverdue    int    `json:"daysOverdue"`
}

// ContractRecord is one entry of the contract directory (GET /api/contracts).
type ContractRecord struct {
	ID             string           `json:"id"`
	OfficialNumber string           `json:"officialNumber"`
	Status         string           `json:"status"`
	IsDeleted      bool             `json:"isDeleted"`
	SupplierName   string           `json:"supplierName,omitempty"`
	TotalValue     *decimal.Decimal `json:"totalValue,omitempty"`
	Currency       string           `json:"currency,omitempty"`
	CreatedAt      string           `json:"createdAt,omitempty"`
}

// ContractDetails is one contract with its obligations (GET /api/contracts/{id}).
type ContractDetails struct {
	ID                    string          `json:"id"`
	OfficialNumber        string          `json:"officialNumber"`
	AdministrativeProcess string          `json:"administrativeProcess,omitempty"`
	Type                  string          `json:"type"`
	Modality              string          `json:"modality"`
	Status                string          `json:"status"`
	TermStart             string          `json:"termStart"`
	TermEnd               string          `json:"termEnd"`
	TotalAmount           decimal.Decimal `json:"totalAmount"`
	Currency              string          `json:"currency"`
	SupplierID            string          `json:"supplierId"`
	SupplierName          string          `json:"supplierName"`
	SupplierCNPJ          string          `json:"supplierCnpj"`
	OrgUnitID             string          `json:"orgUnitId"`
	OrgUnitName           string          `json:"orgUnitName"`
	OrgUnitCode           string          `json:"orgUnitCode,omitempty"`
	Obligations           []Obligation    `json:"obligations"`
}

// Obligation is a contract clause with its deliverables and registered non-compliances.
type Obligation struct {
	ID             string          `json:"id"`
	ClauseRef      string          `json:"clauseRef"`
	Description    string          `json:"description"`
	DueDate        string          `json:"dueDate,omitempty"`
	Status         string          `json:"status"`
	Deliverables   []Deliverable   `json:"deliverables"`
	NonCompliances []NonCompliance `json:"nonCompliances"`
}

// Deliverable is one scheduled delivery of an obligation. DeliveredAt is empty while pending.
type Deliverable struct {
	ID           string          `json:"id"`
	ExpectedDate string          `json:"expectedDate"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	DeliveredAt  string          `json:"deliveredAt,omitempty"`
}

// NonCompliance is a registered breach, optionally sanctioned by a penalty.
type NonCompliance struct {
	ID           string          `json:"id"`
	Reason       string          `json:"reason"`
	Severity     string          `json:"severity"`
	RegisteredAt string          `json:"registeredAt"`
	Penalty      *AppliedPenalty `json:"penalty,omitempty"`
}

// AppliedPenalty is the sanction attached to a non-compliance.
type AppliedPenalty struct {
	ID         string           `json:"id"`
	Type       string           `json:"type"`
	LegalBasis string           `json:"legalBasis,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
}

// AlertRecord is one deadline alert (GET /api/alerts).
type AlertRecord struct {
	ID            string `json:"id"`
	Message       string `json:"message"`
	ContractID    string `json:"contractId,omitempty"`
	DeliverableID string `json:"deliverableId,omitempty"`
	TargetDate    string `json:"targetDate"`
	CreatedAt     string `json:"createdAt"`
}

// ContractStatusReport is the contract distribution by status.
type ContractStatusReport struct {
	Active     int `json:"active"`
	Suspended  int `json:"suspended"`
	Terminated int `json:"terminated"`
	Completed  int `json:"completed"`
}

// Total returns the number of contracts across all statuses.
func (r ContractStatusReport) Total() int {
	return r.Active + r.Suspended + r.Terminated + r.Completed
}

// SupplierDeliveries aggregates deliveries of one supplier.
type SupplierDeliveries struct {
	SupplierName    string `json:"supplierName"`
	TotalDeliveries int    `json:"totalDeliveries"`
	OnTime          int    `json:"onTime"`
	Late            int    `json:"late"`
}

// OrgUnitDeliveries aggregates deliveries of one organizational unit.
type OrgUnitDeliveries struct {
	OrgUnitName     string `json:"orgUnitName"`
	TotalDeliveries int    `json:"totalDeliveries"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses the timestamp formats the backend emits.
// Unparseable or empty values yield the zero time; callers render those as a placeholder.
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
