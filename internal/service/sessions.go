package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/guttosm/nfsindex/internal/logger"
	"github.com/guttosm/nfsindex/internal/metrics"
)

type session struct {
	view     *View
	lastSeen time.Time
}

// SessionStore keeps dashboard views per session id. Sessions idle for longer
// than the TTL are evicted whenever the store is accessed.
type SessionStore struct {
	svc          DashboardService
	ttl          time.Duration
	defaultModel string
	now          func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// NewSessionStore creates a store. defaultModel is the model name preselected
// on new sessions; empty disables preselection.
func NewSessionStore(svc DashboardService, ttl time.Duration, defaultModel string) *SessionStore {
	return &SessionStore{
		svc:          svc,
		ttl:          ttl,
		defaultModel: defaultModel,
		now:          time.Now,
		sessions:     make(map[string]*session),
	}
}

// Create registers a new session and, when a default model is configured and
// known to the source, selects it. A failed preselection is logged and leaves
// the session empty.
func (s *SessionStore) Create(ctx context.Context) (string, *View) {
	id := uuid.NewString()
	view := NewView(s.svc)

	s.mu.Lock()
	s.evictLocked()
	s.sessions[id] = &session{view: view, lastSeen: s.now()}
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	if s.defaultModel != "" {
		if err := s.preselect(ctx, view); err != nil {
			logger.L().Warn().Err(err).Str("session_id", id).Str("model", s.defaultModel).Msg("default model preselection failed")
		}
	}
	return id, view
}

func (s *SessionStore) preselect(ctx context.Context, view *View) error {
	all, err := s.svc.Models(ctx)
	if err != nil {
		return err
	}
	for _, m := range all {
		if strings.EqualFold(m.Name, s.defaultModel) {
			_, err := view.SelectModel(ctx, m.ID)
			if errors.Is(err, ErrSuperseded) {
				return nil
			}
			return err
		}
	}
	return fmt.Errorf("default model %q: %w", s.defaultModel, ErrModelNotFound)
}

// Get returns the view of a live session and refreshes its idle timer.
func (s *SessionStore) Get(id string) (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = s.now()
	return sess.view, nil
}

// Delete removes a session and cancels its in-flight load.
func (s *SessionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	sess.view.Close()
	delete(s.sessions, id)
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return nil
}

// Close drops every session, cancelling their in-flight loads.
func (s *SessionStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		sess.view.Close()
		delete(s.sessions, id)
	}
	metrics.ActiveSessions.Set(0)
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) evictLocked() {
	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			sess.view.Close()
			delete(s.sessions, id)
		}
	}
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
}
