// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/case-analyzer/internal/caseform"
	"github.com/pdiddy/case-analyzer/internal/controller"
	"github.com/pdiddy/case-analyzer/internal/telemetry"
)

// session is one browser's controller plus the last manual form it sent.
type session struct {
	ctrl     *controller.Controller
	lastSeen time.Time

	mu   sync.Mutex
	form caseform.ManualForm
}

func (s *session) setForm(f caseform.ManualForm) {
	s.mu.Lock()
	s.form = f
	s.mu.Unlock()
}

func (s *session) manualForm() caseform.ManualForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Sessions holds one controller per browser, keyed by a random id carried in
// a cookie. Idle sessions are evicted by Sweep.
type Sessions struct {
	ttl     time.Duration
	newCtrl func() *controller.Controller
	metrics *telemetry.Metrics
	logger  *zap.Logger
	now     func() time.Time

	mu    sync.Mutex
	items map[string]*session
}

// NewSessions returns an empty registry. newCtrl builds the controller for
// each new session.
func NewSessions(ttl time.Duration, newCtrl func() *controller.Controller, m *telemetry.Metrics, logger *zap.Logger) *Sessions {
	return &Sessions{
		ttl:     ttl,
		newCtrl: newCtrl,
		metrics: m,
		logger:  telemetry.OrNop(logger),
		now:     time.Now,
		items:   make(map[string]*session),
	}
}

// Get returns the session for id, creating a fresh one under a new id when
// id is unknown. The returned id is the one to store in the cookie.
func (s *Sessions) Get(id string) (string, *session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.items[id]; ok {
		sess.lastSeen = s.now()
		return id, sess
	}

	id = uuid.NewString()
	sess := &session{
		ctrl:     s.newCtrl(),
		form:     caseform.Default(),
		lastSeen: s.now(),
	}
	s.items[id] = sess
	s.metrics.SetSessions(len(s.items))
	return id, sess
}

// Len returns the number of sessions held.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep evicts sessions idle for longer than the TTL. Sessions with an
// analysis in flight are kept. It returns the number evicted.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	n := 0
	for id, sess := range s.items {
		if sess.lastSeen.Before(cutoff) && !sess.ctrl.Busy() {
			delete(s.items, id)
			n++
		}
	}
	s.metrics.SetSessions(len(s.items))
	return n
}

// Run sweeps every interval until ctx is done.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Debug("evicted idle sessions", zap.Int("count", n))
			}
		}
	}
}
