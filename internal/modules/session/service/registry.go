package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"attune/internal/modules/session/domain"
	sessionout "attune/internal/modules/session/port/out"
	apperrors "attune/internal/platform/errors"
)

// Registry holds the client-side view of the backend's session list plus the
// active pointer. The server list is authoritative: every Refresh replaces
// local state wholesale, so optimistic edits that raced a failed request are
// corrected on the next poll.
type Registry struct {
	api sessionout.API
	log *zap.Logger

	mu       sync.Mutex
	sessions []domain.Session
	activeID string
	subs     []func(activeID string)
}

func NewRegistry(api sessionout.API, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{api: api, log: log}
}

func (r *Registry) Sessions() []domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Session, len(r.sessions))
	copy(out, r.sessions)
	return out
}

func (r *Registry) ActiveID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeID
}

// Subscribe registers a handler for active-session changes.
func (r *Registry) Subscribe(fn func(activeID string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, fn)
}

// Refresh pulls the server list and reconciles it with the local active
// pointer. A failed poll leaves the last-known list untouched.
func (r *Registry) Refresh(ctx context.Context) error {
	list, err := r.api.List(ctx)
	if err != nil {
		r.log.Warn("session list refresh failed", zap.Error(err))
		return fmt.Errorf("refresh sessions: %w", err)
	}
	r.apply(list)
	return nil
}

func (r *Registry) Create(ctx context.Context, name string, useAPI, enableSearch bool) (domain.Session, error) {
	if name == "" {
		return domain.Session{}, fmt.Errorf("%w: session name is required", apperrors.ErrInvalidInput)
	}
	id, err := r.api.Create(ctx, name, useAPI, enableSearch)
	if err != nil {
		return domain.Session{}, fmt.Errorf("create session: %w", err)
	}
	if err := r.Refresh(ctx); err != nil {
		// The session exists server-side; hand back what we know.
		return domain.Session{ID: id, Name: name}, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return domain.Session{ID: id, Name: name}, nil
}

func (r *Registry) Activate(ctx context.Context, id string) error {
	if !r.knows(id) {
		return fmt.Errorf("%w: session %s", apperrors.ErrNotFound, id)
	}
	if err := r.api.Activate(ctx, id); err != nil {
		return fmt.Errorf("activate session: %w", err)
	}
	r.setActive(id)
	return nil
}

// Delete removes a session. Deleting the last remaining session is rejected
// locally without a network call. When the deleted session was active, the
// lowest-id survivor is activated.
func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	if len(r.sessions) <= 1 {
		r.mu.Unlock()
		return apperrors.ErrLastSession
	}
	if !containsID(r.sessions, id) {
		r.mu.Unlock()
		return fmt.Errorf("%w: session %s", apperrors.ErrNotFound, id)
	}
	wasActive := r.activeID == id
	replacement, _ := domain.Replacement(r.sessions, id)
	r.mu.Unlock()

	if err := r.api.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	r.removeLocally(id)
	if wasActive && replacement != "" {
		if err := r.Activate(ctx, replacement); err != nil {
			r.log.Warn("replacement activation failed", zap.String("session", replacement), zap.Error(err))
		}
	}
	if err := r.Refresh(ctx); err != nil {
		r.log.Debug("post-delete refresh failed, keeping optimistic state", zap.Error(err))
	}
	return nil
}

func (r *Registry) Start(ctx context.Context, id string, useAPI, enableSearch bool) error {
	if err := r.api.Start(ctx, id, useAPI, enableSearch); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	r.mu.Lock()
	for i := range r.sessions {
		if r.sessions[i].ID == id {
			r.sessions[i].Running = true
		}
	}
	r.mu.Unlock()
	return nil
}

func (r *Registry) Stop(ctx context.Context, id string) error {
	if err := r.api.Stop(ctx, id); err != nil {
		return fmt.Errorf("stop session: %w", err)
	}
	r.mu.Lock()
	for i := range r.sessions {
		if r.sessions[i].ID == id {
			r.sessions[i].Running = false
		}
	}
	r.mu.Unlock()
	return nil
}

func (r *Registry) apply(list []domain.Session) {
	r.mu.Lock()
	prev := r.activeID
	merged, activeID := domain.Reconcile(list, r.activeID)
	r.sessions = merged
	r.activeID = activeID
	subs := r.subscribers()
	r.mu.Unlock()

	if activeID != prev {
		for _, fn := range subs {
			fn(activeID)
		}
	}
}

func (r *Registry) setActive(id string) {
	r.mu.Lock()
	prev := r.activeID
	r.activeID = id
	for i := range r.sessions {
		r.sessions[i].Active = r.sessions[i].ID == id
	}
	subs := r.subscribers()
	r.mu.Unlock()

	if id != prev {
		for _, fn := range subs {
			fn(id)
		}
	}
}

func (r *Registry) removeLocally(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.sessions[:0]
	for _, s := range r.sessions {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	r.sessions = kept
}

func (r *Registry) knows(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return containsID(r.sessions, id)
}

// subscribers returns a snapshot; callers must hold r.mu.
func (r *Registry) subscribers() []func(string) {
	subs := make([]func(string), len(r.subs))
	copy(subs, r.subs)
	return subs
}

func containsID(list []domain.Session, id string) bool {
	for _, s := range list {
		if s.ID == id {
			return true
		}
	}
	return false
}
