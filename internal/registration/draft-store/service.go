// internal/registration/draft-store/service.go
package draftstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"member-registration/internal/common/errors"
	"member-registration/internal/common/logger"
	"member-registration/internal/common/metrics"
	"member-registration/internal/models"
)

// Store persists one draft under one key. It never surfaces storage failures:
// a corrupt record reads as an empty draft and an unreachable backend switches
// the store to its in-memory mirror for the rest of its life.
type Store struct {
	key      string
	backend  Backend
	mirror   *MemoryBackend
	logger   logger.Logger
	degraded atomic.Bool
}

func NewStore(deps ServiceDependencies, cfg *Config) *Store {
	backend := deps.Backend
	if backend == nil {
		backend = NewMemoryBackend()
	}
	return &Store{
		key:     cfg.Key,
		backend: backend,
		mirror:  NewMemoryBackend(),
		logger:  deps.Logger.WithFields(map[string]interface{}{"draftKey": cfg.Key}),
	}
}

// Key returns the record name this store reads and writes.
func (s *Store) Key() string {
	return s.key
}

// Degraded reports whether the store has fallen back to memory.
func (s *Store) Degraded() bool {
	return s.degraded.Load()
}

// Load returns the persisted draft, or an empty one when nothing usable is stored.
func (s *Store) Load(ctx context.Context) models.Draft {
	raw, found := s.read(ctx)
	if !found {
		metrics.DraftOperations.WithLabelValues("load", outcomeAbsent).Inc()
		return models.Draft{}
	}

	draft, err := decodeDraft(raw)
	if err != nil {
		s.discardCorrupt(ctx, err)
		return models.Draft{}
	}

	metrics.DraftOperations.WithLabelValues("load", outcomeOK).Inc()
	return draft
}

// Save replaces the slice for step with stepData and writes the whole draft back.
// The only error returned is a failure to encode stepData.
func (s *Store) Save(ctx context.Context, step models.StepNumber, stepData interface{}) error {
	if !step.Valid() {
		return fmt.Errorf("invalid step %d", step)
	}
	encoded, err := json.Marshal(stepData)
	if err != nil {
		return fmt.Errorf("encode step %d: %w", step, err)
	}

	draft := s.Load(ctx)
	draft[step] = encoded

	doc, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	s.write(ctx, doc)
	metrics.DraftOperations.WithLabelValues("save", s.outcome()).Inc()
	return nil
}

// Clear removes the persisted draft.
func (s *Store) Clear(ctx context.Context) {
	_ = s.mirror.Delete(ctx, s.key)
	if !s.Degraded() {
		if err := s.backend.Delete(ctx, s.key); err != nil {
			s.degrade("clear", err)
		}
	}
	metrics.DraftOperations.WithLabelValues("clear", s.outcome()).Inc()
}

func (s *Store) read(ctx context.Context) ([]byte, bool) {
	if !s.Degraded() {
		raw, found, err := s.backend.Get(ctx, s.key)
		if err == nil {
			if found {
				_ = s.mirror.Set(ctx, s.key, raw)
			}
			return raw, found
		}
		s.degrade("load", err)
	}
	raw, found, _ := s.mirror.Get(ctx, s.key)
	return raw, found
}

func (s *Store) write(ctx context.Context, doc []byte) {
	_ = s.mirror.Set(ctx, s.key, doc)
	if s.Degraded() {
		return
	}
	if err := s.backend.Set(ctx, s.key, doc); err != nil {
		s.degrade("save", err)
	}
}

func (s *Store) degrade(op string, err error) {
	if s.degraded.Swap(true) {
		return
	}
	stdErr := errors.NewDraftStorageUnavailableError(op, err)
	s.logger.WithError(err).Warn("draft storage unavailable, continuing in memory", map[string]interface{}{
		"errorCode": string(stdErr.Code),
		"op":        op,
	})
	metrics.DraftOperations.WithLabelValues(op, outcomeDegraded).Inc()
}

func (s *Store) discardCorrupt(ctx context.Context, cause error) {
	stdErr := errors.NewDraftCorruptError(s.key, cause)
	s.logger.Warn("discarding corrupt draft", map[string]interface{}{
		"errorCode": string(stdErr.Code),
		"details":   stdErr.Details,
	})
	metrics.DraftOperations.WithLabelValues("load", outcomeCorrupt).Inc()

	_ = s.mirror.Delete(ctx, s.key)
	if !s.Degraded() {
		if err := s.backend.Delete(ctx, s.key); err != nil {
			s.degrade("clear", err)
		}
	}
}

func (s *Store) outcome() string {
	if s.Degraded() {
		return outcomeDegraded
	}
	return outcomeOK
}

func decodeDraft(raw []byte) (models.Draft, error) {
	result := draftSchema.Validate(raw)
	if !result.Valid {
		return nil, fmt.Errorf("draft document rejected: %v", result.GetErrorMessages())
	}
	var draft models.Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	if draft == nil {
		draft = models.Draft{}
	}
	return draft, nil
}
