package domain_test

import (
	"testing"

	"attune/internal/modules/session/domain"
)

func sessions(ids ...string) []domain.Session {
	out := make([]domain.Session, len(ids))
	for i, id := range ids {
		out[i] = domain.Session{ID: id, Name: "s-" + id}
	}
	return out
}

func TestReplacementPicksLowestRemainingID(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		list    []domain.Session
		deleted string
		want    string
		ok      bool
	}{
		{"middle deleted", sessions("b", "a", "c"), "a", "b", true},
		{"order in list is irrelevant", sessions("c", "b"), "c", "b", true},
		{"last session deleted", sessions("a"), "a", "", false},
		{"deleted id absent still yields lowest", sessions("b", "a"), "zzz", "a", true},
	}
	for _, tc := range cases {
		got, ok := domain.Replacement(tc.list, tc.deleted)
		if got != tc.want || ok != tc.ok {
			t.Errorf("%s: Replacement = (%q, %v), want (%q, %v)", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestReconcileKeepsLocalActiveWhileServerListsIt(t *testing.T) {
	t.Parallel()
	server := sessions("a", "b", "c")
	server[0].Active = true // server thinks a is active

	merged, activeID := domain.Reconcile(server, "b")
	if activeID != "b" {
		t.Fatalf("expected local active to survive, got %q", activeID)
	}
	assertSingleActive(t, merged, "b")
}

func TestReconcileAdoptsServerActiveWhenLocalGone(t *testing.T) {
	t.Parallel()
	server := sessions("a", "b")
	server[1].Active = true

	merged, activeID := domain.Reconcile(server, "deleted-elsewhere")
	if activeID != "b" {
		t.Fatalf("expected server active, got %q", activeID)
	}
	assertSingleActive(t, merged, "b")
}

func TestReconcileFallsBackToLowestIDWhenNothingFlagged(t *testing.T) {
	t.Parallel()
	merged, activeID := domain.Reconcile(sessions("c", "a", "b"), "")
	if activeID != "a" {
		t.Fatalf("expected lowest id fallback, got %q", activeID)
	}
	assertSingleActive(t, merged, "a")
}

func TestReconcileEmptyServerListClearsActive(t *testing.T) {
	t.Parallel()
	merged, activeID := domain.Reconcile(nil, "a")
	if activeID != "" || len(merged) != 0 {
		t.Fatalf("expected empty result, got %v / %q", merged, activeID)
	}
}

func TestReconcileNeverYieldsTwoActiveSessions(t *testing.T) {
	t.Parallel()
	server := sessions("a", "b", "c")
	server[0].Active = true
	server[2].Active = true // server glitch: two flagged

	merged, activeID := domain.Reconcile(server, "")
	assertSingleActive(t, merged, activeID)
}

func assertSingleActive(t *testing.T, list []domain.Session, wantID string) {
	t.Helper()
	count := 0
	for _, s := range list {
		if s.Active {
			count++
			if s.ID != wantID {
				t.Errorf("unexpected active session %q, want %q", s.ID, wantID)
			}
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one active session, got %d", count)
	}
}
