package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/okian/pactum/internal/adapters/backend"
	"github.com/okian/pactum/internal/adapters/http/api"
	"github.com/okian/pactum/internal/adapters/repository"
	"github.com/okian/pactum/internal/domain/agenda"
	"github.com/okian/pactum/internal/domain/contracts"
	"github.com/okian/pactum/internal/domain/model"
	"github.com/okian/pactum/internal/domain/reports"
	"github.com/okian/pactum/internal/domain/risk"
	"github.com/okian/pactum/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// mockDeps serves canned data for every handler.
type mockDeps struct {
	snapshot   *types.Snapshot
	refreshes  int
	checks     int
	checkErr   error
	reportErr  error
	lastSearch string
}

func newMockDeps() *mockDeps {
	items := []risk.Item{
		{ID: "p-1", Source: risk.SourcePenalty, ContractReference: "CT-001/2024", Category: risk.PenaltyCategory, Severity: risk.SeverityHigh, Description: "Multa por atraso"},
		{ID: "d-1", Source: risk.SourceOverdueDeliverable, ContractReference: "CT-002/2024", Category: risk.DeliverableCategory, Severity: risk.SeverityMedium, Description: "Relatório mensal"},
		{ID: "d-2", Source: risk.SourceOverdueDeliverable, ContractReference: "CT-003/2024", Category: risk.DeliverableCategory, Severity: risk.SeverityLow, Description: "Manual do usuário"},
	}
	return &mockDeps{snapshot: &types.Snapshot{
		CycleID:     "cycle-1",
		StartedAt:   testNow.Add(-time.Second),
		CompletedAt: testNow,
		State:       types.StateReady,
		Items:       items,
		Counts:      risk.CountBySeverity(items),
		Warnings:    []types.Warning{},
	}}
}

func (m *mockDeps) Risks(_ context.Context, f risk.Filter) types.RiskView {
	return types.NewRiskView(m.snapshot, f)
}

func (m *mockDeps) Refresh(context.Context) *types.Snapshot {
	m.refreshes++
	return m.snapshot
}

func (m *mockDeps) History(context.Context) []repository.CycleSummary {
	return []repository.CycleSummary{{CycleID: m.snapshot.CycleID, State: m.snapshot.State, Counts: m.snapshot.Counts}}
}

func (m *mockDeps) Agenda(context.Context) types.AgendaView {
	return types.AgendaView{
		GeneratedAt: testNow,
		State:       types.StateReady,
		Events: []agenda.Event{
			{ID: "a-1", Title: "Entrega do relatório", ContractReference: "CT-001/2024", Dated: true, TargetDate: testNow.AddDate(0, 0, 3), DaysLeft: 3, Status: agenda.StatusAttention},
		},
		Counts:   agenda.Counts{Next7: 1, Next30: 1},
		Warnings: []types.Warning{},
	}
}

func (m *mockDeps) CheckAlerts(ctx context.Context) (types.AgendaView, error) {
	m.checks++
	if m.checkErr != nil {
		return types.AgendaView{}, m.checkErr
	}
	return m.Agenda(ctx), nil
}

func (m *mockDeps) DueDeliverables(context.Context) ([]reports.DueDeliverableRow, error) {
	if m.reportErr != nil {
		return nil, m.reportErr
	}
	return []reports.DueDeliverableRow{{Contract: "CT-002/2024", Description: "Relatório mensal", DaysOverdue: 10}}, nil
}

func (m *mockDeps) ContractStatus(context.Context) (types.StatusReport, error) {
	if m.reportErr != nil {
		return types.StatusReport{}, m.reportErr
	}
	r := model.ContractStatusReport{Active: 3, Suspended: 1}
	return types.StatusReport{Total: r.Total(), Shares: reports.StatusDistribution(r)}, nil
}

func (m *mockDeps) SupplierPerformance(context.Context) ([]reports.SupplierRow, error) {
	if m.reportErr != nil {
		return nil, m.reportErr
	}
	return reports.SupplierPerformance([]model.SupplierDeliveries{{SupplierName: "Acme", TotalDeliveries: 4, OnTime: 3, Late: 1}}), nil
}

func (m *mockDeps) OrgUnitDeliveries(context.Context) ([]model.OrgUnitDeliveries, error) {
	if m.reportErr != nil {
		return nil, m.reportErr
	}
	return []model.OrgUnitDeliveries{{OrgUnitName: "Secretaria de Obras", TotalDeliveries: 7}}, nil
}

func (m *mockDeps) Contracts(_ context.Context, search string) ([]model.ContractRecord, error) {
	m.lastSearch = search
	return []model.ContractRecord{{ID: "c-1", OfficialNumber: "CT-001/2024", Status: "Active"}}, nil
}

func (m *mockDeps) ContractDetails(_ context.Context, id string) (contracts.Detail, error) {
	switch id {
	case "c-1":
		return contracts.NewDetail(model.ContractDetails{
			ID:             "c-1",
			OfficialNumber: "CT-001/2024",
			SupplierName:   "Acme",
			Obligations: []model.Obligation{
				{ID: "o-1", ClauseRef: "4.1", Deliverables: []model.Deliverable{{ID: "d-1", ExpectedDate: "2025-03-01"}}},
			},
		}), nil
	case "down":
		return contracts.Detail{}, fmt.Errorf("contract: %w", backend.ErrUnavailable)
	default:
		return contracts.Detail{}, &backend.StatusError{Path: "/api/contracts/" + id, StatusCode: http.StatusNotFound}
	}
}

type mockStats struct{}

func (mockStats) GetStats() types.Stats {
	return types.Stats{Running: true, Cycles: 4, LastCycleID: "cycle-1", Items: 3}
}

func newRouter(deps *mockDeps) http.Handler {
	r := chi.NewRouter()
	api.NewServer(deps, mockStats{}).Register(context.Background(), r)
	return r
}

func do(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decode(rec *httptest.ResponseRecorder, v any) error {
	return json.NewDecoder(rec.Body).Decode(v)
}

func TestHealthAndStats(t *testing.T) {
	Convey("Given the API router", t, func() {
		deps := newMockDeps()
		h := newRouter(deps)

		Convey("When GET /healthz is called", func() {
			rec := do(h, http.MethodGet, "/healthz")

			Convey("Then it should report ok", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var body map[string]any
				So(decode(rec, &body), ShouldBeNil)
				So(body["status"], ShouldEqual, "ok")
				So(body, ShouldContainKey, "uptimeSeconds")
			})
		})

		Convey("When GET /stats is called", func() {
			rec := do(h, http.MethodGet, "/stats")

			Convey("Then stats and history should be returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Running bool                      `json:"running"`
					Cycles  int64                     `json:"cycles"`
					History []repository.CycleSummary `json:"history"`
				}
				So(decode(rec, &body), ShouldBeNil)
				So(body.Running, ShouldBeTrue)
				So(body.Cycles, ShouldEqual, 4)
				So(body.History, ShouldHaveLength, 1)
				So(body.History[0].CycleID, ShouldEqual, "cycle-1")
			})
		})

		Convey("When GET /metrics is called after a request", func() {
			do(h, http.MethodGet, "/healthz")
			rec := do(h, http.MethodGet, "/metrics")

			Convey("Then the exposition should carry the HTTP counter", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, "pactum_risk_http_requests_total")
			})
		})

		Convey("When GET /dashboard is called", func() {
			rec := do(h, http.MethodGet, "/dashboard")

			Convey("Then the embedded page should be served", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldStartWith, "text/html")
				So(rec.Body.String(), ShouldContainSubstring, "Análise de Riscos")
			})
		})
	})
}

func TestRisksEndpoints(t *testing.T) {
	Convey("Given the API router", t, func() {
		deps := newMockDeps()
		h := newRouter(deps)

		Convey("When GET /api/risks has no filter", func() {
			rec := do(h, http.MethodGet, "/api/risks")

			Convey("Then all items should be returned ordered by severity", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var view types.RiskView
				So(decode(rec, &view), ShouldBeNil)
				So(view.Severity, ShouldEqual, risk.FilterAll)
				So(view.Total, ShouldEqual, 3)
				So(view.Items, ShouldHaveLength, 3)
				So(view.Items[0].Severity, ShouldEqual, risk.SeverityHigh)
				So(view.Items[2].Severity, ShouldEqual, risk.SeverityLow)
			})
		})

		Convey("When GET /api/risks filters by severity and search", func() {
			rec := do(h, http.MethodGet, "/api/risks?severity=medio&q=relat")

			Convey("Then only matching items are returned and counts stay global", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var view types.RiskView
				So(decode(rec, &view), ShouldBeNil)
				So(view.Severity, ShouldEqual, risk.FilterMedium)
				So(view.Items, ShouldHaveLength, 1)
				So(view.Items[0].ID, ShouldEqual, "d-1")
				So(view.Counts, ShouldResemble, risk.Counts{High: 1, Medium: 1, Low: 1})
			})
		})

		Convey("When GET /api/risks has an unknown severity", func() {
			rec := do(h, http.MethodGet, "/api/risks?severity=critical")

			Convey("Then it should be rejected as a bad request", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				var body map[string]string
				So(decode(rec, &body), ShouldBeNil)
				So(body["code"], ShouldEqual, "bad_request")
				So(body["message"], ShouldContainSubstring, "critical")
			})
		})

		Convey("When POST /api/risks/refresh is called", func() {
			rec := do(h, http.MethodPost, "/api/risks/refresh")

			Convey("Then a new cycle should be run and summarized", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.refreshes, ShouldEqual, 1)
				var body map[string]any
				So(decode(rec, &body), ShouldBeNil)
				So(body["cycleId"], ShouldEqual, "cycle-1")
				So(body["state"], ShouldEqual, "ready")
				So(body["items"], ShouldEqual, 3.0)
			})
		})

		Convey("When GET is used on the refresh route", func() {
			rec := do(h, http.MethodGet, "/api/risks/refresh")

			Convey("Then the method should not be allowed", func() {
				So(rec.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(deps.refreshes, ShouldEqual, 0)
			})
		})
	})
}

func TestAgendaEndpoints(t *testing.T) {
	Convey("Given the API router", t, func() {
		deps := newMockDeps()
		h := newRouter(deps)

		Convey("When GET /api/agenda is called", func() {
			rec := do(h, http.MethodGet, "/api/agenda")

			Convey("Then the agenda should be returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var view types.AgendaView
				So(decode(rec, &view), ShouldBeNil)
				So(view.Events, ShouldHaveLength, 1)
				So(view.Events[0].Status, ShouldEqual, agenda.StatusAttention)
				So(view.Counts.Next7, ShouldEqual, 1)
			})
		})

		Convey("When POST /api/agenda/check succeeds", func() {
			rec := do(h, http.MethodPost, "/api/agenda/check")

			Convey("Then the check should run and the agenda be returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.checks, ShouldEqual, 1)
			})
		})

		Convey("When POST /api/agenda/check hits an unreachable backend", func() {
			deps.checkErr = fmt.Errorf("trigger: %w", backend.ErrUnavailable)
			rec := do(h, http.MethodPost, "/api/agenda/check")

			Convey("Then it should answer 502", func() {
				So(rec.Code, ShouldEqual, http.StatusBadGateway)
				So(rec.Body.String(), ShouldContainSubstring, "upstream_unavailable")
			})
		})
	})
}

func TestReportEndpoints(t *testing.T) {
	Convey("Given the API router", t, func() {
		deps := newMockDeps()
		h := newRouter(deps)
		paths := []string{
			"/api/reports/due-deliverables",
			"/api/reports/contract-status",
			"/api/reports/deliveries-by-supplier",
			"/api/reports/deliveries-by-orgunit",
		}

		Convey("When every report is requested", func() {
			Convey("Then each should answer 200 with JSON", func() {
				for _, p := range paths {
					rec := do(h, http.MethodGet, p)
					So(rec.Code, ShouldEqual, http.StatusOK)
					So(rec.Header().Get("Content-Type"), ShouldStartWith, "application/json")
				}
			})
		})

		Convey("When the contract status report is requested", func() {
			rec := do(h, http.MethodGet, "/api/reports/contract-status")

			Convey("Then the total and shares should be present", func() {
				var report types.StatusReport
				So(decode(rec, &report), ShouldBeNil)
				So(report.Total, ShouldEqual, 4)
				So(report.Shares, ShouldHaveLength, 4)
			})
		})

		Convey("When the backend is unavailable", func() {
			deps.reportErr = fmt.Errorf("report: %w", backend.ErrUnavailable)

			Convey("Then every report should answer 502", func() {
				for _, p := range paths {
					So(do(h, http.MethodGet, p).Code, ShouldEqual, http.StatusBadGateway)
				}
			})
		})

		Convey("When a report fails for an unknown reason", func() {
			deps.reportErr = errors.New("boom")
			rec := do(h, http.MethodGet, "/api/reports/due-deliverables")

			Convey("Then it should answer 500", func() {
				So(rec.Code, ShouldEqual, http.StatusInternalServerError)
				So(rec.Body.String(), ShouldContainSubstring, "internal_error")
			})
		})
	})
}

func TestContractsEndpoint(t *testing.T) {
	Convey("Given the API router", t, func() {
		deps := newMockDeps()
		h := newRouter(deps)

		Convey("When GET /api/contracts is called with a search term", func() {
			rec := do(h, http.MethodGet, "/api/contracts?q=CT-001")

			Convey("Then the term should reach the service", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.lastSearch, ShouldEqual, "CT-001")
				var found []model.ContractRecord
				So(decode(rec, &found), ShouldBeNil)
				So(found, ShouldHaveLength, 1)
			})
		})

		Convey("When GET /api/contracts/{id} is called for a known contract", func() {
			rec := do(h, http.MethodGet, "/api/contracts/c-1")

			Convey("Then the details and summary should be returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var body struct {
					ID             string `json:"id"`
					OfficialNumber string `json:"officialNumber"`
					Obligations    []struct {
						ClauseRef string `json:"clauseRef"`
					} `json:"obligations"`
					Summary struct {
						PendingDeliverables int `json:"pendingDeliverables"`
					} `json:"summary"`
				}
				So(decode(rec, &body), ShouldBeNil)
				So(body.OfficialNumber, ShouldEqual, "CT-001/2024")
				So(body.Obligations, ShouldHaveLength, 1)
				So(body.Obligations[0].ClauseRef, ShouldEqual, "4.1")
				So(body.Summary.PendingDeliverables, ShouldEqual, 1)
			})
		})

		Convey("When the contract does not exist", func() {
			rec := do(h, http.MethodGet, "/api/contracts/nope")

			Convey("Then it should be a 404 with a not_found code", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
				var body map[string]string
				So(decode(rec, &body), ShouldBeNil)
				So(body["code"], ShouldEqual, "not_found")
			})
		})

		Convey("When the backend is down for a contract", func() {
			rec := do(h, http.MethodGet, "/api/contracts/down")

			Convey("Then it should be a 502", func() {
				So(rec.Code, ShouldEqual, http.StatusBadGateway)
			})
		})

		Convey("When an unknown route is requested", func() {
			rec := do(h, http.MethodGet, "/api/unknown")

			Convey("Then it should be a 404", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestErrorClassification(t *testing.T) {
	Convey("Given API errors", t, func() {
		Convey("When wrapping a backend failure", func() {
			err := api.Wrap("op", fmt.Errorf("x: %w", backend.ErrUnavailable))

			Convey("Then it should match both kind and cause", func() {
				So(errors.Is(err, api.ErrUnavailable), ShouldBeTrue)
				So(errors.Is(err, backend.ErrUnavailable), ShouldBeTrue)
				So(err.Error(), ShouldStartWith, "op: ")
			})
		})

		Convey("When wrapping a backend 404", func() {
			err := api.Wrap("op", &backend.StatusError{Path: "/api/contracts/x", StatusCode: http.StatusNotFound})

			Convey("Then it should be not found rather than unavailable", func() {
				So(errors.Is(err, api.ErrNotFound), ShouldBeTrue)
				So(errors.Is(err, api.ErrUnavailable), ShouldBeFalse)
			})
		})

		Convey("When wrapping an unknown severity", func() {
			_, parseErr := risk.ParseSeverityFilter("critical")
			err := api.Wrap("op", parseErr)

			Convey("Then it should be a bad request", func() {
				So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			})
		})

		Convey("When creating a kind without cause", func() {
			err := api.NewKind("op", api.ErrInternal)

			Convey("Then the message should name the kind", func() {
				So(errors.Is(err, api.ErrInternal), ShouldBeTrue)
				So(strings.Contains(err.Error(), "internal error"), ShouldBeTrue)
			})
		})
	})
}
