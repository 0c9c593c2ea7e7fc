package service_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/pactum/internal/adapters/backend"
	service "github.com/okian/pactum/internal/app"
	"github.com/okian/pactum/internal/domain/model"
	"github.com/okian/pactum/internal/domain/risk"
	"github.com/okian/pactum/internal/domain/types"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

var errDown = errors.New("connection refused")

// stubBackend serves canned records; a non-nil error field makes that report fail.
type stubBackend struct {
	penalties    []model.PenaltyRecord
	deliverables []model.OverdueDeliverableRecord
	directory    []model.ContractRecord
	alerts       []model.AlertRecord
	status       model.ContractStatusReport
	suppliers    []model.SupplierDeliveries
	orgUnits     []model.OrgUnitDeliveries
	details      map[string]model.ContractDetails

	penaltiesErr    error
	deliverablesErr error
	directoryErr    error
	alertsErr       error
	checkErr        error
	reportsErr      error

	calls  atomic.Int32
	checks atomic.Int32
}

func (b *stubBackend) Penalties(context.Context) ([]model.PenaltyRecord, error) {
	b.calls.Add(1)
	return b.penalties, b.penaltiesErr
}

func (b *stubBackend) DueDeliverables(context.Context) ([]model.OverdueDeliverableRecord, error) {
	return b.deliverables, b.deliverablesErr
}

func (b *stubBackend) Contracts(context.Context) ([]model.ContractRecord, error) {
	return b.directory, b.directoryErr
}

func (b *stubBackend) Alerts(context.Context) ([]model.AlertRecord, error) {
	return b.alerts, b.alertsErr
}

func (b *stubBackend) TriggerAlertCheck(context.Context) error {
	b.checks.Add(1)
	return b.checkErr
}

func (b *stubBackend) ContractStatus(context.Context) (model.ContractStatusReport, error) {
	return b.status, b.reportsErr
}

func (b *stubBackend) DeliveriesBySupplier(context.Context) ([]model.SupplierDeliveries, error) {
	return b.suppliers, b.reportsErr
}

func (b *stubBackend) DeliveriesByOrgUnit(context.Context) ([]model.OrgUnitDeliveries, error) {
	return b.orgUnits, b.reportsErr
}

func (b *stubBackend) ContractDetails(_ context.Context, id string) (model.ContractDetails, error) {
	if b.reportsErr != nil {
		return model.ContractDetails{}, b.reportsErr
	}
	d, ok := b.details[id]
	if !ok {
		return model.ContractDetails{}, &backend.StatusError{Path: "/api/contracts/" + id, StatusCode: http.StatusNotFound}
	}
	return d, nil
}

func fixedClock() func() time.Time {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func TestRunAggregationCycle(t *testing.T) {
	defer goleak.VerifyNone(t)

	Convey("Given two penalties, a failing deliverables report and a directory", t, func() {
		amount := decimal.NewFromInt(500)
		src := &stubBackend{
			penalties: []model.PenaltyRecord{
				{PenaltyID: "p-1", ContractID: "c-1", Severity: "Alta", Type: "Multa", Reason: "Atraso", Amount: &amount},
				{PenaltyID: "p-2", ContractID: "c-2", Severity: "Leve", Type: "Advertência", Reason: "Documento"},
			},
			deliverablesErr: errDown,
			directory:       []model.ContractRecord{{ID: "c-1", OfficialNumber: "CT-001"}},
		}

		snap := service.RunAggregationCycle(context.Background(), src, service.WithCycleClock(fixedClock()))

		Convey("Then the penalty items are kept", func() {
			So(snap.State, ShouldEqual, types.StateReady)
			So(snap.Items, ShouldHaveLength, 2)
			So(snap.Counts, ShouldResemble, risk.Counts{High: 1, Low: 1})
			So(snap.CycleID, ShouldNotBeBlank)
		})

		Convey("Then the failed source produces a warning", func() {
			So(snap.Warnings, ShouldHaveLength, 1)
			So(snap.Warnings[0].Source, ShouldEqual, types.SourceDeliverables)
			So(snap.Warnings[0].Message, ShouldContainSubstring, "connection refused")
		})

		Convey("Then source statuses are recorded", func() {
			So(snap.Sources, ShouldHaveLength, 3)
			So(snap.Sources[0].Available, ShouldBeTrue)
			So(snap.Sources[0].Records, ShouldEqual, 2)
			So(snap.Sources[1].Available, ShouldBeFalse)
		})

		Convey("Then contract references resolve through the directory", func() {
			So(snap.Items[0].ContractReference, ShouldEqual, "CT-001")
			So(snap.Items[1].ContractReference, ShouldEqual, "ID: c-2...")
		})
	})

	Convey("Given every source failing", t, func() {
		src := &stubBackend{penaltiesErr: errDown, deliverablesErr: errDown, directoryErr: errDown}
		snap := service.RunAggregationCycle(context.Background(), src)

		Convey("Then the snapshot is unavailable, not empty", func() {
			So(snap.State, ShouldEqual, types.StateUnavailable)
			So(snap.Items, ShouldBeEmpty)
			So(snap.Warnings, ShouldHaveLength, 3)
		})
	})

	Convey("Given every source answering with no records", t, func() {
		snap := service.RunAggregationCycle(context.Background(), &stubBackend{})

		Convey("Then the snapshot is empty", func() {
			So(snap.State, ShouldEqual, types.StateEmpty)
			So(snap.Warnings, ShouldBeEmpty)
		})
	})

	Convey("Given only the directory failing", t, func() {
		src := &stubBackend{
			deliverables: []model.OverdueDeliverableRecord{{DeliverableID: "d-1", ContractID: "abcdefghij", DaysOverdue: 10}},
			directoryErr: errDown,
		}
		snap := service.RunAggregationCycle(context.Background(), src)

		Convey("Then items fall back to placeholders and a warning is raised", func() {
			So(snap.State, ShouldEqual, types.StateReady)
			So(snap.Items[0].ContractReference, ShouldEqual, "ID: abcdefgh...")
			So(snap.Warnings[0].Source, ShouldEqual, types.SourceContracts)
		})
	})

	Convey("Given duplicated record ids", t, func() {
		src := &stubBackend{
			penalties: []model.PenaltyRecord{
				{PenaltyID: "p-1", Reason: "primeira"},
				{PenaltyID: "p-1", Reason: "segunda"},
			},
			deliverables: []model.OverdueDeliverableRecord{{DeliverableID: "p-1"}},
		}
		snap := service.RunAggregationCycle(context.Background(), src)

		Convey("Then ids are unique across the whole cycle and penalties win", func() {
			So(snap.Items, ShouldHaveLength, 1)
			So(snap.Items[0].Description, ShouldEqual, "primeira")
			So(snap.Items[0].Source, ShouldEqual, risk.SourcePenalty)
			So(snap.Duplicates, ShouldEqual, 2)
		})
	})
}

func TestServiceRisks(t *testing.T) {
	defer goleak.VerifyNone(t)

	Convey("Given a service without a snapshot", t, func() {
		src := &stubBackend{
			penalties: []model.PenaltyRecord{
				{PenaltyID: "p-1", Severity: "grave", Reason: "Multa contratual"},
				{PenaltyID: "p-2", Severity: "médio", Reason: "Atraso"},
			},
			deliverables: []model.OverdueDeliverableRecord{{DeliverableID: "d-1", Description: "Atraso no laudo", DaysOverdue: 2}},
		}
		svc := service.New(src, service.WithClock(fixedClock()))
		ctx := context.Background()

		Convey("When the risk view is requested", func() {
			view := svc.Risks(ctx, risk.Filter{Severity: risk.FilterAll, Search: "atraso"})

			Convey("Then a first cycle runs on demand", func() {
				So(src.calls.Load(), ShouldEqual, 1)
				So(view.CycleID, ShouldNotBeBlank)
			})

			Convey("Then items are filtered but counts are not", func() {
				So(view.Items, ShouldHaveLength, 2)
				So(view.Items[0].ID, ShouldEqual, "p-2")
				So(view.Counts, ShouldResemble, risk.Counts{High: 1, Medium: 1, Low: 1})
			})

			Convey("And later views reuse the stored snapshot", func() {
				again := svc.Risks(ctx, risk.Filter{Severity: risk.FilterHigh})
				So(src.calls.Load(), ShouldEqual, 1)
				So(again.CycleID, ShouldEqual, view.CycleID)
				So(again.Items, ShouldHaveLength, 1)
			})
		})

		Convey("When many views are requested at once", func() {
			var wg sync.WaitGroup
			ids := make([]string, 8)
			for i := range ids {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					ids[i] = svc.Risks(ctx, risk.Filter{Severity: risk.FilterAll}).CycleID
				}(i)
			}
			wg.Wait()

			Convey("Then they share a single first cycle", func() {
				So(src.calls.Load(), ShouldEqual, 1)
				for _, id := range ids {
					So(id, ShouldEqual, ids[0])
				}
				So(svc.History(ctx), ShouldHaveLength, 1)
			})
		})

		Convey("When refreshing", func() {
			first := svc.Refresh(ctx)
			second := svc.Refresh(ctx)

			Convey("Then the snapshot is replaced", func() {
				So(second.CycleID, ShouldNotEqual, first.CycleID)
				So(svc.Snapshot(ctx).CycleID, ShouldEqual, second.CycleID)
				So(svc.History(ctx), ShouldHaveLength, 2)
			})

			Convey("Then stats describe the latest cycle", func() {
				stats := svc.GetStats()
				So(stats.Cycles, ShouldEqual, 2)
				So(stats.LastCycleID, ShouldEqual, second.CycleID)
				So(stats.Items, ShouldEqual, 3)
			})
		})
	})
}

func TestServiceStartStop(t *testing.T) {
	Convey("Given a service that refreshes on start", t, func() {
		src := &stubBackend{}
		svc := service.New(src, service.WithRefreshOnStart(true))
		ctx := context.Background()

		So(svc.Start(ctx), ShouldBeNil)
		So(svc.Start(ctx), ShouldBeNil)

		Convey("Then exactly one cycle ran", func() {
			So(src.calls.Load(), ShouldEqual, 1)
			So(svc.GetStats().Running, ShouldBeTrue)
		})

		Convey("When stopped", func() {
			svc.Stop()
			So(svc.GetStats().Running, ShouldBeFalse)
		})
	})
}

func TestServiceAgenda(t *testing.T) {
	defer goleak.VerifyNone(t)

	Convey("Given alerts relative to a fixed clock", t, func() {
		src := &stubBackend{
			alerts: []model.AlertRecord{
				{ID: "a-1", Message: "Vencido", ContractID: "c-1", TargetDate: "2024-05-25T09:00:00Z"},
				{ID: "a-2", Message: "Próximo", DeliverableID: "d-1", TargetDate: "2024-06-04T09:00:00Z"},
			},
			directory: []model.ContractRecord{{ID: "c-1", OfficialNumber: "CT-001"}},
		}
		svc := service.New(src, service.WithClock(fixedClock()))
		ctx := context.Background()

		Convey("When building the agenda", func() {
			view := svc.Agenda(ctx)

			Convey("Then events are classified and counted", func() {
				So(view.State, ShouldEqual, types.StateReady)
				So(view.Events, ShouldHaveLength, 2)
				So(view.Events[0].ContractReference, ShouldEqual, "CT-001")
				So(view.Counts.Overdue, ShouldEqual, 1)
				So(view.Counts.Next7, ShouldEqual, 1)
			})
		})

		Convey("When the directory fails", func() {
			src.directoryErr = errDown
			view := svc.Agenda(ctx)

			Convey("Then references degrade and a warning is raised", func() {
				So(view.Events[0].ContractReference, ShouldEqual, "Ref: c-1...")
				So(view.Warnings, ShouldHaveLength, 1)
			})
		})

		Convey("When alerts fail", func() {
			src.alertsErr = errDown
			view := svc.Agenda(ctx)
			So(view.State, ShouldEqual, types.StateUnavailable)
			So(view.Events, ShouldBeEmpty)
		})

		Convey("When checking alerts", func() {
			view, err := svc.CheckAlerts(ctx)
			So(err, ShouldBeNil)
			So(src.checks.Load(), ShouldEqual, 1)
			So(view.Events, ShouldHaveLength, 2)

			src.checkErr = errDown
			_, err = svc.CheckAlerts(ctx)
			So(errors.Is(err, errDown), ShouldBeTrue)
		})
	})
}

func TestServiceReports(t *testing.T) {
	Convey("Given backend reports", t, func() {
		src := &stubBackend{
			deliverables: []model.OverdueDeliverableRecord{{DeliverableID: "d-1", DaysOverdue: 31}},
			status:       model.ContractStatusReport{Active: 1, Suspended: 1},
			suppliers:    []model.SupplierDeliveries{{SupplierName: "Alfa", TotalDeliveries: 2, OnTime: 1, Late: 1}},
			orgUnits:     []model.OrgUnitDeliveries{{OrgUnitName: "SEAD", TotalDeliveries: 7}},
			directory: []model.ContractRecord{
				{ID: "c-1", OfficialNumber: "CT-001/2024"},
				{ID: "c-2", OfficialNumber: "PR-002/2024"},
			},
		}
		svc := service.New(src)
		ctx := context.Background()

		Convey("Then each report is shaped", func() {
			rows, err := svc.DueDeliverables(ctx)
			So(err, ShouldBeNil)
			So(rows[0].Severity, ShouldEqual, risk.SeverityHigh)

			status, err := svc.ContractStatus(ctx)
			So(err, ShouldBeNil)
			So(status.Total, ShouldEqual, 2)

			suppliers, err := svc.SupplierPerformance(ctx)
			So(err, ShouldBeNil)
			So(suppliers[0].OnTimeRate, ShouldEqual, 50.0)

			units, err := svc.OrgUnitDeliveries(ctx)
			So(err, ShouldBeNil)
			So(units, ShouldHaveLength, 1)

			found, err := svc.Contracts(ctx, "pr-")
			So(err, ShouldBeNil)
			So(found, ShouldHaveLength, 1)
		})

		Convey("Then contract details carry a summary", func() {
			src.details = map[string]model.ContractDetails{
				"c-1": {ID: "c-1", OfficialNumber: "CT-001/2024", Obligations: []model.Obligation{
					{ID: "o-1", Deliverables: []model.Deliverable{{ID: "d-1"}}},
				}},
			}
			d, err := svc.ContractDetails(ctx, "c-1")
			So(err, ShouldBeNil)
			So(d.OfficialNumber, ShouldEqual, "CT-001/2024")
			So(d.Summary.PendingDeliverables, ShouldEqual, 1)

			_, err = svc.ContractDetails(ctx, "missing")
			So(errors.Is(err, backend.ErrNotFound), ShouldBeTrue)
		})

		Convey("When the reports fail", func() {
			src.reportsErr = errDown
			_, err := svc.ContractStatus(ctx)
			So(errors.Is(err, errDown), ShouldBeTrue)
			_, err = svc.SupplierPerformance(ctx)
			So(err, ShouldNotBeNil)
		})
	})
}
