package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/pactum/internal/adapters/repository"
	"github.com/okian/pactum/internal/domain/risk"
	"github.com/okian/pactum/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func snapshot(id string, state types.State) *types.Snapshot {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &types.Snapshot{
		CycleID:     id,
		StartedAt:   start,
		CompletedAt: start.Add(1500 * time.Microsecond),
		State:       state,
		Counts:      risk.Counts{High: 1},
	}
}

func TestSnapshotStore(t *testing.T) {
	Convey("Given an empty snapshot store", t, func() {
		ctx := context.Background()
		store := repository.NewSnapshotStore(repository.WithHistorySize(3))

		Convey("When reading before any cycle", func() {
			_, err := store.Latest(ctx)

			Convey("Then ErrNoSnapshot is returned", func() {
				So(errors.Is(err, repository.ErrNoSnapshot), ShouldBeTrue)
				So(store.Count(ctx), ShouldEqual, 0)
				So(store.History(ctx), ShouldBeEmpty)
			})
		})

		Convey("When storing a nil snapshot", func() {
			So(errors.Is(store.Put(ctx, nil), repository.ErrNilSnapshot), ShouldBeTrue)
		})

		Convey("When storing snapshots", func() {
			for i := 1; i <= 4; i++ {
				So(store.Put(ctx, snapshot(fmt.Sprintf("c%d", i), types.StateReady)), ShouldBeNil)
			}

			Convey("Then the latest replaces the previous one", func() {
				latest, err := store.Latest(ctx)
				So(err, ShouldBeNil)
				So(latest.CycleID, ShouldEqual, "c4")
				So(store.Count(ctx), ShouldEqual, 4)
			})

			Convey("Then history is bounded and newest first", func() {
				h := store.History(ctx)
				So(h, ShouldHaveLength, 3)
				So(h[0].CycleID, ShouldEqual, "c4")
				So(h[2].CycleID, ShouldEqual, "c2")
				So(h[0].DurationMS, ShouldEqual, 1.5)
			})
		})
	})
}

func TestSnapshotStoreConcurrency(t *testing.T) {
	Convey("Given concurrent writers and readers", t, func() {
		ctx := context.Background()
		store := repository.NewSnapshotStore()
		var wg sync.WaitGroup

		for i := 0; i < 8; i++ {
			wg.Add(2)
			go func(n int) {
				defer wg.Done()
				_ = store.Put(ctx, snapshot(fmt.Sprintf("c%d", n), types.StateEmpty))
			}(i)
			go func() {
				defer wg.Done()
				if snap, err := store.Latest(ctx); err == nil {
					_ = snap.CycleID
				}
			}()
		}
		wg.Wait()

		Convey("Then every write is counted", func() {
			So(store.Count(ctx), ShouldEqual, 8)
			So(len(store.History(ctx)), ShouldEqual, 8)
		})
	})
}
