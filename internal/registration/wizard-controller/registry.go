// internal/registration/wizard-controller/registry.go
package wizardcontroller

import (
	"context"
	"sync"
	"time"

	"member-registration/internal/common/errors"
	"member-registration/internal/common/logger"
	"member-registration/internal/common/metrics"
	draftstore "member-registration/internal/registration/draft-store"

	"github.com/google/uuid"
)

// StoreFactory opens the draft store for one record key.
type StoreFactory func(key string) DraftStore

type RegistryDependencies struct {
	Logger    logger.Logger
	NewStore  StoreFactory
	Validator StepValidator
	Gateway   Gateway
	Notifier  Notifier
}

// sweepInterval throttles idle eviction to at most one pass per interval.
const sweepInterval = time.Minute

// Registry maps session ids to controllers. A session this process has not
// seen is rebuilt from its persisted draft. Completed sessions are dropped
// right away and idle ones after Config.IdleTimeout.
type Registry struct {
	mu        sync.Mutex
	sessions  map[string]*session
	lastSweep time.Time

	deps   RegistryDependencies
	config *Config
	logger logger.Logger
	now    func() time.Time
}

type session struct {
	ctrl     *Controller
	lastSeen time.Time
}

func NewRegistry(deps RegistryDependencies, cfg *Config) *Registry {
	return &Registry{
		sessions: make(map[string]*session),
		deps:     deps,
		config:   cfg,
		logger:   deps.Logger,
		now:      time.Now,
	}
}

// Create starts a new session.
func (r *Registry) Create(ctx context.Context) (string, *Controller) {
	id := uuid.NewString()
	c := r.newController(ctx, id)

	r.mu.Lock()
	r.sweep()
	r.sessions[id] = &session{ctrl: c, lastSeen: r.now()}
	r.mu.Unlock()

	metrics.WizardSessionsActive.Inc()
	r.logger.Info("wizard session created", map[string]interface{}{"sessionId": id})
	return id, c
}

// Get returns the session's controller. Sessions unknown to this process are
// restored from the draft store when a draft exists for them.
func (r *Registry) Get(ctx context.Context, id string) (*Controller, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.NewSessionNotFoundError(id)
	}
	if c, ok := r.lookup(id); ok {
		return c, nil
	}

	// Restoring reads the draft backend, so it runs without r.mu.
	c := r.newController(ctx, id)
	if len(c.Draft()) == 0 {
		return nil, errors.NewSessionNotFoundError(id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.lastSeen = r.now()
		return s.ctrl, nil
	}
	r.sessions[id] = &session{ctrl: c, lastSeen: r.now()}
	metrics.WizardSessionsActive.Inc()
	r.logger.Info("wizard session restored from draft", map[string]interface{}{"sessionId": id})
	return c, nil
}

func (r *Registry) lookup(id string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweep()

	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	s.lastSeen = r.now()
	return s.ctrl, true
}

// sweep evicts idle sessions. The caller holds r.mu.
func (r *Registry) sweep() {
	if r.config.IdleTimeout <= 0 {
		return
	}
	now := r.now()
	if now.Sub(r.lastSweep) < sweepInterval {
		return
	}
	r.lastSweep = now

	evicted := 0
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) > r.config.IdleTimeout {
			delete(r.sessions, id)
			metrics.WizardSessionsActive.Dec()
			evicted++
		}
	}
	if evicted > 0 {
		r.logger.Debug("idle wizard sessions evicted", map[string]interface{}{
			"evicted":   evicted,
			"remaining": len(r.sessions),
		})
	}
}

// Forget drops a session from memory. Its persisted draft is left alone.
func (r *Registry) Forget(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; ok {
		delete(r.sessions, id)
		metrics.WizardSessionsActive.Dec()
	}
}

// Len returns the number of sessions held in memory.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) newController(ctx context.Context, id string) *Controller {
	return NewController(ctx, ServiceDependencies{
		Logger:    r.logger.WithFields(map[string]interface{}{"sessionId": id}),
		Store:     r.deps.NewStore(draftstore.SessionKey(r.config.DraftKey, id)),
		Validator: r.deps.Validator,
		Gateway:   r.deps.Gateway,
		Notifier:  r.deps.Notifier,

		OnComplete: func() { r.Forget(id) },
	}, r.config)
}
