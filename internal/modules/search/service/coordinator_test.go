package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"attune/internal/modules/search/dto"
	"attune/internal/modules/search/service"
	apperrors "attune/internal/platform/errors"
)

type fakeHistoryAPI struct {
	mu      sync.Mutex
	calls   []string
	results map[string][]dto.Hit
	err     error
}

func (f *fakeHistoryAPI) Search(_ context.Context, query string, _ int) ([]dto.Hit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

func (f *fakeHistoryAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func hits(ids ...string) []dto.Hit {
	out := make([]dto.Hit, len(ids))
	for i, id := range ids {
		out[i] = dto.Hit{SessionID: id}
	}
	return out
}

func TestRapidSubmitsCollapseToOneRequest(t *testing.T) {
	t.Parallel()
	api := &fakeHistoryAPI{results: map[string][]dto.Hit{"budget": hits("s1")}}
	c := service.NewCoordinator(api, 2, 20, nil)

	gen1 := c.Submit("bud")
	gen2 := c.Submit("budget")

	// gen1's timer fires after being superseded: must be a no-op.
	if _, _, ok := c.Fire(gen1); ok {
		t.Fatal("superseded generation must not fire")
	}
	query, seq, ok := c.Fire(gen2)
	if !ok || query != "budget" {
		t.Fatalf("expected latest text to fire, got %q ok=%v", query, ok)
	}

	got, applied, err := c.Run(context.Background(), query, seq)
	if err != nil || !applied {
		t.Fatalf("run: applied=%v err=%v", applied, err)
	}
	if len(got) != 1 || got[0].SessionID != "s1" {
		t.Fatalf("unexpected hits: %+v", got)
	}
	if api.callCount() != 1 {
		t.Fatalf("expected exactly one network call, got %d", api.callCount())
	}
}

func TestShortQueryClearsResultsWithoutNetworkCall(t *testing.T) {
	t.Parallel()
	api := &fakeHistoryAPI{results: map[string][]dto.Hit{"budget": hits("s1")}}
	c := service.NewCoordinator(api, 2, 20, nil)

	gen := c.Submit("budget")
	query, seq, ok := c.Fire(gen)
	if !ok {
		t.Fatal("expected fire")
	}
	if _, _, err := c.Run(context.Background(), query, seq); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(c.Results()) != 1 {
		t.Fatalf("expected results, got %+v", c.Results())
	}

	gen = c.Submit("b")
	if _, _, ok := c.Fire(gen); ok {
		t.Fatal("short query must not issue a request")
	}
	if len(c.Results()) != 0 {
		t.Fatalf("short query must clear results, got %+v", c.Results())
	}
	if api.callCount() != 1 {
		t.Fatalf("expected no extra network call, got %d", api.callCount())
	}
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	t.Parallel()
	api := &fakeHistoryAPI{results: map[string][]dto.Hit{
		"first":  hits("old"),
		"second": hits("new"),
	}}
	c := service.NewCoordinator(api, 2, 20, nil)

	q1, seq1, _ := c.Fire(c.Submit("first"))
	q2, seq2, _ := c.Fire(c.Submit("second"))

	// The newer response lands first.
	if _, applied, err := c.Run(context.Background(), q2, seq2); err != nil || !applied {
		t.Fatalf("latest response must apply: applied=%v err=%v", applied, err)
	}
	if _, applied, err := c.Run(context.Background(), q1, seq1); err != nil || applied {
		t.Fatalf("stale response must be discarded: applied=%v err=%v", applied, err)
	}
	if got := c.Results(); len(got) != 1 || got[0].SessionID != "new" {
		t.Fatalf("stale response overwrote results: %+v", got)
	}
}

func TestClearDropsPendingTimerAndResults(t *testing.T) {
	t.Parallel()
	api := &fakeHistoryAPI{results: map[string][]dto.Hit{"budget": hits("s1")}}
	c := service.NewCoordinator(api, 2, 20, nil)

	gen := c.Submit("budget")
	c.Clear()
	if _, _, ok := c.Fire(gen); ok {
		t.Fatal("fire after clear must be a no-op")
	}
	if len(c.Results()) != 0 {
		t.Fatalf("results survive clear: %+v", c.Results())
	}
}

func TestBlockingSearchEnforcesMinimumLength(t *testing.T) {
	t.Parallel()
	api := &fakeHistoryAPI{}
	c := service.NewCoordinator(api, 2, 20, nil)

	if _, err := c.Search(context.Background(), "x"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if api.callCount() != 0 {
		t.Fatalf("expected no network call, got %d", api.callCount())
	}
}
