package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/nfsindex/config"
)

func TestSessionStore_CreatePreselectsDefaultModel(t *testing.T) {
	store := NewSessionStore(NewDashboardService(fixtureSource(), config.AnalyticsAuto), time.Minute, "slr mclaren")

	id, view := store.Create(context.Background())
	if id == "" {
		t.Fatalf("expected session id")
	}
	cur := view.Current()
	if cur == nil || cur.Model.ID != 1 {
		t.Fatalf("expected default model preselected, got %+v", cur)
	}

	got, err := store.Get(id)
	if err != nil || got != view {
		t.Fatalf("get: %v", err)
	}
}

func TestSessionStore_UnknownDefaultModel(t *testing.T) {
	store := NewSessionStore(NewDashboardService(fixtureSource(), config.AnalyticsAuto), time.Minute, "Enzo")
	_, view := store.Create(context.Background())
	if view.Current() != nil {
		t.Fatalf("expected empty view when default model is unknown")
	}
}

func TestSessionStore_DeleteAndMissing(t *testing.T) {
	store := NewSessionStore(NewDashboardService(fixtureSource(), config.AnalyticsAuto), time.Minute, "")
	id, _ := store.Create(context.Background())

	if err := store.Delete(id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(id); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := store.Get("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionStore_EvictsIdleSessions(t *testing.T) {
	store := NewSessionStore(NewDashboardService(fixtureSource(), config.AnalyticsAuto), time.Minute, "")
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	stale, _ := store.Create(context.Background())
	now = now.Add(30 * time.Second)
	fresh, _ := store.Create(context.Background())

	now = now.Add(45 * time.Second) // stale idle 75s, fresh idle 45s
	if _, err := store.Get(stale); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected stale session evicted, got %v", err)
	}
	if _, err := store.Get(fresh); err != nil {
		t.Fatalf("fresh session evicted: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 live session, got %d", store.Len())
	}
}

func TestSessionStore_Close(t *testing.T) {
	store := NewSessionStore(NewDashboardService(fixtureSource(), config.AnalyticsAuto), time.Minute, "")
	id, _ := store.Create(context.Background())
	_, _ = store.Create(context.Background())

	store.Close()
	if store.Len() != 0 {
		t.Fatalf("expected no sessions after Close, got %d", store.Len())
	}
	if _, err := store.Get(id); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
