package fakebackend

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/okian/pactum/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Constants for dataset shape.
const (
	unknownContractEvery = 5  // every fifth penalty points at a contract missing from the directory
	missingNumberEvery   = 4  // every fourth deliverable omits its embedded official number
	deletedContractEvery = 7  // every seventh contract is soft-deleted
	maxDaysOverdue       = 60 // upper bound for generated overdue days
	alertWindowDays      = 45 // alerts spread over now ± this many days
	maxPenaltyCents      = 5_000_000
)

var (
	penaltySeverities = []string{"Alta", "Grave", "Média", "Moderada", "Leve", "Baixa", ""}
	penaltyTypes      = []string{"Multa", "Advertência", "Suspensão", ""}
	penaltyReasons    = []string{
		"Atraso na entrega de relatório",
		"Descumprimento de cláusula de SLA",
		"Documentação incompleta",
		"Equipe abaixo do mínimo contratado",
		"",
	}
	deliverableNames = []string{"Relatório mensal", "Laudo técnico", "Manual de operação", "Plano de trabalho", ""}
	contractStatuses = []string{"Active", "Active", "Active", "Suspended", "Terminated", "Completed"}
	supplierNames    = []string{"Alfa Serviços", "Beta Tecnologia", "Gama Engenharia", "Delta Consultoria"}
	orgUnitNames     = []string{"SEAD", "SEFAZ", "SESAU", "SEDUC"}
	alertMessages    = []string{"Vencimento de entrega", "Renovação contratual", "Prazo de garantia", "Reajuste anual"}
)

// Dataset is a complete set of backend reports.
type Dataset struct {
	Contracts    []model.ContractRecord
	Penalties    []model.PenaltyRecord
	Deliverables []model.OverdueDeliverableRecord
	Alerts       []model.AlertRecord
	Status       model.ContractStatusReport
	Suppliers    []model.SupplierDeliveries
	OrgUnits     []model.OrgUnitDeliveries
	Details      map[string]model.ContractDetails
}

// Generate builds a dataset from cfg. Dates are relative to now; everything else depends only on the seed.
func Generate(cfg Config, now time.Time) *Dataset {
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // deterministic fixtures
	newID := func() string {
		id, err := uuid.NewRandomFromReader(rng)
		if err != nil {
			return uuid.NewString()
		}
		return id.String()
	}
	pick := func(list []string) string { return list[rng.Intn(len(list))] }

	ds := &Dataset{}

	for i := 0; i < cfg.Contracts; i++ {
		value := decimal.NewFromInt(int64(50_000 + rng.Intn(950_000)))
		c := model.ContractRecord{
			ID:             newID(),
			OfficialNumber: fmt.Sprintf("CT-%03d/%d", i+1, now.Year()),
			Status:         pick(contractStatuses),
			IsDeleted:      i > 0 && i%deletedContractEvery == 0,
			SupplierName:   supplierNames[i%len(supplierNames)],
			TotalValue:     &value,
			Currency:       "BRL",
			CreatedAt:      now.AddDate(0, -rng.Intn(24), 0).Format(time.RFC3339),
		}
		ds.Contracts = append(ds.Contracts, c)
		switch c.Status {
		case "Active":
			ds.Status.Active++
		case "Suspended":
			ds.Status.Suspended++
		case "Terminated":
			ds.Status.Terminated++
		default:
			ds.Status.Completed++
		}
	}

	contractID := func(i int) string {
		if len(ds.Contracts) == 0 || i%unknownContractEvery == unknownContractEvery-1 {
			return newID()
		}
		return ds.Contracts[rng.Intn(len(ds.Contracts))].ID
	}

	for i := 0; i < cfg.Penalties; i++ {
		p := model.PenaltyRecord{
			PenaltyID:       newID(),
			NonComplianceID: newID(),
			ContractID:      contractID(i),
			Reason:          pick(penaltyReasons),
			Severity:        pick(penaltySeverities),
			RegisteredAt:    now.AddDate(0, 0, -rng.Intn(120)).Format(time.RFC3339),
			Type:            pick(penaltyTypes),
		}
		if p.Type == "Multa" {
			amount := decimal.New(int64(rng.Intn(maxPenaltyCents)), -2)
			p.Amount = &amount
			p.LegalBasis = "Lei 14.133/2021, art. 156"
		}
		ds.Penalties = append(ds.Penalties, p)
	}

	for i := 0; i < cfg.Deliverables; i++ {
		days := rng.Intn(maxDaysOverdue + 1)
		d := model.OverdueDeliverableRecord{
			ContractID:    contractID(i),
			DeliverableID: newID(),
			Description:   pick(deliverableNames),
			ExpectedDate:  now.AddDate(0, 0, -days).Format("2006-01-02"),
			DaysOverdue:   days,
		}
		if i%missingNumberEvery != 0 {
			for _, c := range ds.Contracts {
				if c.ID == d.ContractID {
					d.OfficialNumber = c.OfficialNumber
				}
			}
		}
		ds.Deliverables = append(ds.Deliverables, d)
	}

	for i := 0; i < cfg.Alerts; i++ {
		a := model.AlertRecord{
			ID:         newID(),
			Message:    pick(alertMessages),
			TargetDate: now.AddDate(0, 0, rng.Intn(2*alertWindowDays+1)-alertWindowDays).Format(time.RFC3339),
			CreatedAt:  now.Format(time.RFC3339),
		}
		switch i % 3 {
		case 0, 1:
			a.ContractID = contractID(i)
		default:
			a.DeliverableID = newID()
		}
		ds.Alerts = append(ds.Alerts, a)
	}

	for _, name := range supplierNames {
		total := 5 + rng.Intn(20)
		late := rng.Intn(total / 2)
		ds.Suppliers = append(ds.Suppliers, model.SupplierDeliveries{
			SupplierName: name, TotalDeliveries: total, OnTime: total - late, Late: late,
		})
	}
	for _, name := range orgUnitNames {
		ds.OrgUnits = append(ds.OrgUnits, model.OrgUnitDeliveries{OrgUnitName: name, TotalDeliveries: 3 + rng.Intn(30)})
	}

	ds.Details = contractDetails(ds, now)
	return ds
}

// contractDetails derives one detail record per contract from the generated reports,
// so a contract's non-compliances are exactly its penalties.
func contractDetails(ds *Dataset, now time.Time) map[string]model.ContractDetails {
	out := make(map[string]model.ContractDetails, len(ds.Contracts))
	for i, c := range ds.Contracts {
		ob := model.Obligation{
			ID:             fmt.Sprintf("%s-ob-1", c.ID),
			ClauseRef:      "Cláusula 4.1",
			Description:    "Execução do objeto contratual",
			DueDate:        now.AddDate(0, 6, 0).Format("2006-01-02"),
			Status:         "Compliant",
			Deliverables:   []model.Deliverable{},
			NonCompliances: []model.NonCompliance{},
		}
		for _, d := range ds.Deliverables {
			if d.ContractID != c.ID {
				continue
			}
			ob.Deliverables = append(ob.Deliverables, model.Deliverable{
				ID:           d.DeliverableID,
				ExpectedDate: d.ExpectedDate,
				Quantity:     decimal.NewFromInt(1),
				Unit:         "un",
			})
		}
		for _, p := range ds.Penalties {
			if p.ContractID != c.ID {
				continue
			}
			ob.Status = "NonCompliant"
			ob.NonCompliances = append(ob.NonCompliances, model.NonCompliance{
				ID:           p.NonComplianceID,
				Reason:       p.Reason,
				Severity:     p.Severity,
				RegisteredAt: p.RegisteredAt,
				Penalty: &model.AppliedPenalty{
					ID:         p.PenaltyID,
					Type:       p.Type,
					LegalBasis: p.LegalBasis,
					Amount:     p.Amount,
				},
			})
		}

		total := decimal.Zero
		if c.TotalValue != nil {
			total = *c.TotalValue
		}
		out[c.ID] = model.ContractDetails{
			ID:             c.ID,
			OfficialNumber: c.OfficialNumber,
			Type:           "Serviço",
			Modality:       "Pregão Eletrônico",
			Status:         c.Status,
			TermStart:      c.CreatedAt,
			TermEnd:        model.ParseTimestamp(c.CreatedAt).AddDate(1, 0, 0).Format(time.RFC3339),
			TotalAmount:    total,
			Currency:       c.Currency,
			SupplierID:     fmt.Sprintf("sup-%d", i%len(supplierNames)+1),
			SupplierName:   c.SupplierName,
			SupplierCNPJ:   fmt.Sprintf("%02d.%03d.%03d/0001-%02d", i%len(supplierNames)+10, 100+i, 200+i, i%100),
			OrgUnitID:      fmt.Sprintf("org-%d", i%len(orgUnitNames)+1),
			OrgUnitName:    orgUnitNames[i%len(orgUnitNames)],
			Obligations:    []model.Obligation{ob},
		}
		if i%2 == 0 {
			d := out[c.ID]
			d.AdministrativeProcess = fmt.Sprintf("PA-%04d/%d", i+1, now.Year())
			out[c.ID] = d
		}
	}
	return out
}
