package service

import (
	"context"
	"sync"

	"github.com/guttosm/nfsindex/internal/domain/models"
	"github.com/guttosm/nfsindex/internal/metrics"
)

// View is the state of one dashboard session: the selected model's snapshot,
// the active trim filter and the derived dashboard.
//
// Model selections are last-write-wins. Each selection takes a new generation
// and cancels the load in flight; a load whose generation is no longer current
// when it finishes is discarded with ErrSuperseded. A failed current load keeps
// the previous state.
type View struct {
	svc DashboardService

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	snapshot   *Snapshot
	current    *models.Dashboard
}

// NewView returns an empty view.
func NewView(svc DashboardService) *View {
	return &View{svc: svc}
}

// SelectModel loads modelID and makes it the current selection, resetting the
// trim filter.
func (v *View) SelectModel(ctx context.Context, modelID int64) (*models.Dashboard, error) {
	v.mu.Lock()
	v.generation++
	gen := v.generation
	if v.cancel != nil {
		v.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.mu.Unlock()
	defer cancel()

	snap, err := v.svc.Load(loadCtx, modelID)

	v.mu.Lock()
	defer v.mu.Unlock()

	if gen != v.generation {
		metrics.SupersededLoadsTotal.Inc()
		return nil, ErrSuperseded
	}
	v.cancel = nil
	if err != nil {
		return nil, err
	}

	d := v.svc.Build(snap, "")
	d.Generation = gen
	v.snapshot = snap
	v.current = &d
	return cloneDashboard(v.current), nil
}

// SetTrim recomputes the view from the current snapshot under a new trim
// filter. No network access is involved.
func (v *View) SetTrim(trim string) (*models.Dashboard, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.snapshot == nil {
		return nil, ErrNoSelection
	}
	d := v.svc.Build(v.snapshot, trim)
	d.Generation = v.generation
	v.current = &d
	return cloneDashboard(v.current), nil
}

// Current returns a copy of the current dashboard, or nil before the first
// successful selection.
func (v *View) Current() *models.Dashboard {
	v.mu.Lock()
	defer v.mu.Unlock()
	return cloneDashboard(v.current)
}

// Close cancels any load in flight.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.generation++
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

// cloneDashboard copies the slices so callers cannot mutate view state.
func cloneDashboard(d *models.Dashboard) *models.Dashboard {
	if d == nil {
		return nil
	}
	out := *d
	out.Trims = append([]string(nil), d.Trims...)
	out.Listings = append([]models.Listing{}, d.Listings...)
	out.Trends = append([]models.TrendPoint{}, d.Trends...)
	return &out
}
