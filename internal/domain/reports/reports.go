// Package reports shapes the backend's management reports for display.
package reports

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/okian/pactum/internal/domain/model"
	"github.com/okian/pactum/internal/domain/risk"
)

// DueDeliverableRow is one row of the overdue deliverables report.
type DueDeliverableRow struct {
	DeliverableID string        `json:"deliverableId" yaml:"deliverableId"`
	Contract      string        `json:"contract" yaml:"contract"`
	Description   string        `json:"description" yaml:"description"`
	ExpectedDate  time.Time     `json:"expectedDate,omitzero" yaml:"expectedDate,omitempty"`
	DaysOverdue   int           `json:"daysOverdue" yaml:"daysOverdue"`
	Severity      risk.Severity `json:"severity" yaml:"severity"`
	SeverityLabel string        `json:"severityLabel" yaml:"severityLabel"`
}

// DueDeliverableRows converts report records into display rows.
// Rows missing fields keep their place with placeholders.
func DueDeliverableRows(records []model.OverdueDeliverableRecord) []DueDeliverableRow {
	rows := make([]DueDeliverableRow, 0, len(records))
	for _, r := range records {
		sev := risk.ClassifyOverdue(r.DaysOverdue)
		rows = append(rows, DueDeliverableRow{
			DeliverableID: r.DeliverableID,
			Contract:      orDefault(r.OfficialNumber, risk.NoValue),
			Description:   orDefault(r.Description, risk.NoDescription),
			ExpectedDate:  model.ParseTimestamp(r.ExpectedDate),
			DaysOverdue:   r.DaysOverdue,
			Severity:      sev,
			SeverityLabel: sev.Label(),
		})
	}
	return rows
}

// SupplierRow is one supplier with its computed on-time rate.
type SupplierRow struct {
	model.SupplierDeliveries `yaml:",inline"`
	OnTimeRate               float64 `json:"onTimeRate" yaml:"onTimeRate"`
}

// SupplierPerformance computes on-time rates and orders suppliers by late deliveries, worst first.
// Suppliers with equal late counts keep their input order.
func SupplierPerformance(records []model.SupplierDeliveries) []SupplierRow {
	rows := make([]SupplierRow, 0, len(records))
	for _, r := range records {
		r.SupplierName = orDefault(r.SupplierName, risk.NoValue)
		rows = append(rows, SupplierRow{SupplierDeliveries: r, OnTimeRate: OnTimeRate(r.OnTime, r.TotalDeliveries)})
	}
	slices.SortStableFunc(rows, func(a, b SupplierRow) int {
		return cmp.Compare(b.Late, a.Late)
	})
	return rows
}

// OnTimeRate returns onTime as a percentage of total, rounded to one decimal. Zero total yields 0.
func OnTimeRate(onTime, total int) float64 {
	if total <= 0 {
		return 0
	}
	pct := float64(onTime) * 100 / float64(total)
	return float64(int(pct*10+0.5)) / 10
}

// OrgUnitRows fills missing org unit names.
func OrgUnitRows(records []model.OrgUnitDeliveries) []model.OrgUnitDeliveries {
	out := make([]model.OrgUnitDeliveries, len(records))
	for i, r := range records {
		r.OrgUnitName = orDefault(r.OrgUnitName, risk.NoValue)
		out[i] = r
	}
	return out
}

// StatusShare is one slice of the contract status distribution.
type StatusShare struct {
	Status  string  `json:"status" yaml:"status"`
	Label   string  `json:"label" yaml:"label"`
	Count   int     `json:"count" yaml:"count"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// StatusDistribution expands the status report into labelled shares.
func StatusDistribution(r model.ContractStatusReport) []StatusShare {
	total := r.Total()
	return []StatusShare{
		{Status: "active", Label: "Ativos", Count: r.Active, Percent: OnTimeRate(r.Active, total)},
		{Status: "suspended", Label: "Suspensos", Count: r.Suspended, Percent: OnTimeRate(r.Suspended, total)},
		{Status: "terminated", Label: "Rescindidos", Count: r.Terminated, Percent: OnTimeRate(r.Terminated, total)},
		{Status: "completed", Label: "Concluídos", Count: r.Completed, Percent: OnTimeRate(r.Completed, total)},
	}
}

func orDefault(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return fallback
}
