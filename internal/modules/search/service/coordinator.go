package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"attune/internal/modules/search/dto"
	searchout "attune/internal/modules/search/port/out"
	apperrors "attune/internal/platform/errors"
)

// Coordinator implements trailing-edge debounced history search. The caller
// owns the timer: Submit returns a generation token, and when the timer for
// that token fires the caller invokes Fire. A Submit that arrives before the
// timer fires bumps the generation, so the earlier timer is a no-op at fire
// time. Responses carry a sequence number and only the latest issued request
// may apply its results; anything older is discarded silently.
type Coordinator struct {
	api       searchout.HistoryAPI
	log       *zap.Logger
	minLength int
	limit     int

	mu      sync.Mutex
	text    string
	gen     int
	seq     int
	results []dto.Hit
}

func NewCoordinator(api searchout.HistoryAPI, minLength, limit int, log *zap.Logger) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{api: api, log: log, minLength: minLength, limit: limit}
}

// Submit records the current input text and supersedes any pending timer.
// The returned generation must be handed back to Fire unchanged.
func (c *Coordinator) Submit(text string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	c.gen++
	return c.gen
}

// Fire is called when the debounce timer for gen elapses. A superseded
// generation is a no-op. Input below the minimum length clears results
// locally and issues no request. Otherwise Fire hands back the query and a
// fresh sequence number for the caller to run the request with.
func (c *Coordinator) Fire(gen int) (query string, seq int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return "", 0, false
	}
	if len(c.text) < c.minLength {
		c.results = nil
		return "", 0, false
	}
	c.seq++
	return c.text, c.seq, true
}

// Run executes the request issued by Fire and applies the results when they
// are still the latest. The boolean reports whether the results took effect.
func (c *Coordinator) Run(ctx context.Context, query string, seq int) ([]dto.Hit, bool, error) {
	hits, err := c.api.Search(ctx, query, c.limit)
	if err != nil {
		return nil, false, fmt.Errorf("search history: %w", err)
	}
	return hits, c.apply(seq, hits), nil
}

// Search is the blocking path used outside the event loop. It bypasses the
// debounce but still enforces the minimum query length.
func (c *Coordinator) Search(ctx context.Context, query string) ([]dto.Hit, error) {
	if len(query) < c.minLength {
		return nil, fmt.Errorf("%w: query shorter than %d characters", apperrors.ErrInvalidInput, c.minLength)
	}
	hits, err := c.api.Search(ctx, query, c.limit)
	if err != nil {
		return nil, fmt.Errorf("search history: %w", err)
	}
	return hits, nil
}

func (c *Coordinator) Results() []dto.Hit {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]dto.Hit, len(c.results))
	copy(out, c.results)
	return out
}

// Clear resets input and results, used when the search surface closes.
func (c *Coordinator) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = ""
	c.gen++
	c.results = nil
}

func (c *Coordinator) apply(seq int, hits []dto.Hit) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		c.log.Debug("discarding stale search response", zap.Int("seq", seq), zap.Int("latest", c.seq))
		return false
	}
	c.results = hits
	return true
}
