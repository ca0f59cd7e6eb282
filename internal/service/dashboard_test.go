package service

import (
	"context"
	"errors"
	"testing"

	"github.com/guttosm/nfsindex/config"
	"github.com/guttosm/nfsindex/internal/domain/models"
)

func TestDashboardService_TrendsAndStatsPolymorphism(t *testing.T) {
	cases := []struct {
		name       string
		mode       string
		trim       string
		wantSource models.AnalyticsSource
		wantSales  int
	}{
		{name: "auto unfiltered uses server", mode: config.AnalyticsAuto, wantSource: models.AnalyticsServer, wantSales: 99},
		{name: "auto filtered recomputes", mode: config.AnalyticsAuto, trim: "roadster", wantSource: models.AnalyticsClient, wantSales: 2},
		{name: "client mode recomputes", mode: config.AnalyticsClient, wantSource: models.AnalyticsClient, wantSales: 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewDashboardService(fixtureSource(), tc.mode)
			stats, src, err := svc.Stats(context.Background(), 1, tc.trim)
			if err != nil {
				t.Fatalf("stats: %v", err)
			}
			if src != tc.wantSource || stats.TotalSales != tc.wantSales {
				t.Fatalf("want %s/%d got %s/%d", tc.wantSource, tc.wantSales, src, stats.TotalSales)
			}
			_, tsrc, err := svc.Trends(context.Background(), 1, tc.trim)
			if err != nil || tsrc != tc.wantSource {
				t.Fatalf("trends source=%s err=%v", tsrc, err)
			}
		})
	}
}

func TestDashboardService_ServerFailureFallsBack(t *testing.T) {
	src := fixtureSource()
	src.trendsErr = errBoom
	src.statsErr = errBoom
	svc := NewDashboardService(src, config.AnalyticsAuto)

	trends, from, err := svc.Trends(context.Background(), 1, "")
	if err != nil || from != models.AnalyticsClient {
		t.Fatalf("expected client fallback, got %s err=%v", from, err)
	}
	if len(trends) != 2 || trends[0].Period != "2022-04-01" || trends[0].Count != 2 {
		t.Fatalf("unexpected trends %+v", trends)
	}

	stats, from, err := svc.Stats(context.Background(), 1, "")
	if err != nil || from != models.AnalyticsClient || stats.TotalSales != 3 {
		t.Fatalf("unexpected stats %+v from=%s err=%v", stats, from, err)
	}
}

func TestDashboardService_Model(t *testing.T) {
	svc := NewDashboardService(fixtureSource(), config.AnalyticsAuto)

	m, err := svc.Model(context.Background(), 2)
	if err != nil || m.Name != "Gallardo" {
		t.Fatalf("unexpected model %+v err=%v", m, err)
	}
	if _, err := svc.Model(context.Background(), 42); !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}
}

func TestDashboardService_Load(t *testing.T) {
	t.Run("auto fetches server analytics", func(t *testing.T) {
		src := fixtureSource()
		snap, err := NewDashboardService(src, config.AnalyticsAuto).Load(context.Background(), 1)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if snap.Model.ID != 1 || len(snap.Listings) != 3 || snap.ServerStats == nil || snap.ServerTrends == nil {
			t.Fatalf("unexpected snapshot %+v", snap)
		}
	})

	t.Run("client skips server analytics", func(t *testing.T) {
		src := fixtureSource()
		snap, err := NewDashboardService(src, config.AnalyticsClient).Load(context.Background(), 1)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if snap.ServerStats != nil || src.called("trends") != 0 || src.called("stats") != 0 {
			t.Fatalf("server analytics must not be fetched in client mode")
		}
	})

	t.Run("analytics failure tolerated", func(t *testing.T) {
		src := fixtureSource()
		src.statsErr = errBoom
		snap, err := NewDashboardService(src, config.AnalyticsAuto).Load(context.Background(), 1)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if snap.ServerStats != nil {
			t.Fatalf("expected missing server stats")
		}
	})

	t.Run("listings failure fails", func(t *testing.T) {
		src := fixtureSource()
		src.listErr = errBoom
		if _, err := NewDashboardService(src, config.AnalyticsAuto).Load(context.Background(), 1); !errors.Is(err, errBoom) {
			t.Fatalf("expected wrapped boom, got %v", err)
		}
	})

	t.Run("unknown model", func(t *testing.T) {
		if _, err := NewDashboardService(fixtureSource(), config.AnalyticsAuto).Load(context.Background(), 9); !errors.Is(err, ErrModelNotFound) {
			t.Fatalf("expected ErrModelNotFound, got %v", err)
		}
	})
}

func TestDashboardService_Build(t *testing.T) {
	src := fixtureSource()
	svc := NewDashboardService(src, config.AnalyticsAuto)
	snap, err := svc.Load(context.Background(), 1)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	full := svc.Build(snap, "")
	if full.AnalyticsSource != models.AnalyticsServer || full.Stats.TotalSales != 99 {
		t.Fatalf("unfiltered view should use server analytics: %+v", full.Stats)
	}
	if len(full.Trims) != 2 || full.Trims[0] != "Coupe" || full.Trims[1] != "Roadster" {
		t.Fatalf("unexpected trims %v", full.Trims)
	}

	filtered := svc.Build(snap, "Roadster")
	if filtered.AnalyticsSource != models.AnalyticsClient || filtered.Stats.TotalSales != 2 || len(filtered.Listings) != 2 {
		t.Fatalf("unexpected filtered view %+v", filtered)
	}
	if len(filtered.Trends) != 2 || filtered.Trends[0].Period != "2022-04-01" || filtered.Trends[1].Period != "2022-05-01" {
		t.Fatalf("unexpected filtered trends %+v", filtered.Trends)
	}

	none := svc.Build(snap, "Stirling Moss")
	if none.Listings == nil || len(none.Listings) != 0 || len(none.Trends) != 0 || none.Stats.TotalSales != 0 {
		t.Fatalf("expected empty view, got %+v", none)
	}
}

func TestDashboardService_Ready(t *testing.T) {
	src := fixtureSource()
	svc := NewDashboardService(src, "")
	if err := svc.Ready(context.Background()); err != nil {
		t.Fatalf("ready: %v", err)
	}
	src.pingErr = errBoom
	if err := svc.Ready(context.Background()); !errors.Is(err, errBoom) {
		t.Fatalf("expected ping error")
	}
}
