package service_test

import (
	"context"
	"errors"
	"testing"

	livedomain "attune/internal/modules/live/domain"
	"attune/internal/modules/session/domain"
	"attune/internal/modules/session/dto"
	"attune/internal/modules/session/service"
	apperrors "attune/internal/platform/errors"
)

type fakeAPI struct {
	listResult []domain.Session
	listErr    error

	listCalls     int
	createCalls   int
	activateCalls []string
	deleteCalls   []string
	startCalls    []string
	stopCalls     []string

	nextCreateID string
	deleteErr    error
}

func (f *fakeAPI) List(context.Context) ([]domain.Session, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Session, len(f.listResult))
	copy(out, f.listResult)
	return out, nil
}

func (f *fakeAPI) Create(_ context.Context, name string, _, _ bool) (string, error) {
	f.createCalls++
	id := f.nextCreateID
	f.listResult = append(f.listResult, domain.Session{ID: id, Name: name})
	return id, nil
}

func (f *fakeAPI) Activate(_ context.Context, id string) error {
	f.activateCalls = append(f.activateCalls, id)
	return nil
}

func (f *fakeAPI) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleteCalls = append(f.deleteCalls, id)
	kept := f.listResult[:0]
	for _, s := range f.listResult {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	f.listResult = kept
	return nil
}

func (f *fakeAPI) Start(_ context.Context, id string, _, _ bool) error {
	f.startCalls = append(f.startCalls, id)
	return nil
}

func (f *fakeAPI) Stop(_ context.Context, id string) error {
	f.stopCalls = append(f.stopCalls, id)
	return nil
}

func (f *fakeAPI) Clear(context.Context) error { return nil }

func (f *fakeAPI) Transcript(context.Context, string) (string, error) { return "", nil }

func (f *fakeAPI) Response(context.Context, string) (string, []livedomain.Source, error) {
	return "", nil, nil
}

func (f *fakeAPI) Insights(context.Context, string) (livedomain.Insights, error) {
	return livedomain.Insights{}, nil
}

func (f *fakeAPI) DeepDive(context.Context, string, string) error { return nil }

func (f *fakeAPI) EmailDraft(context.Context, dto.EmailDraftInput) (dto.EmailDraftOutput, error) {
	return dto.EmailDraftOutput{}, nil
}

func serverSessions(ids ...string) []domain.Session {
	out := make([]domain.Session, len(ids))
	for i, id := range ids {
		out[i] = domain.Session{ID: id, Name: "s-" + id}
	}
	return out
}

func TestRefreshAdoptsServerListAndPicksActive(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{listResult: serverSessions("b", "a")}
	reg := service.NewRegistry(api, nil)

	if err := reg.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := reg.ActiveID(); got != "a" {
		t.Fatalf("expected lowest id active on first refresh, got %q", got)
	}
	if len(reg.Sessions()) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(reg.Sessions()))
	}
}

func TestFailedRefreshKeepsLastKnownList(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{listResult: serverSessions("a", "b")}
	reg := service.NewRegistry(api, nil)
	if err := reg.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	api.listErr = errors.New("backend down")
	if err := reg.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if len(reg.Sessions()) != 2 || reg.ActiveID() != "a" {
		t.Fatalf("failed refresh must not disturb state: %v / %q", reg.Sessions(), reg.ActiveID())
	}
}

func TestDeleteLastSessionRejectedWithoutNetworkCall(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{listResult: serverSessions("only")}
	reg := service.NewRegistry(api, nil)
	if err := reg.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	err := reg.Delete(context.Background(), "only")
	if !errors.Is(err, apperrors.ErrLastSession) {
		t.Fatalf("expected ErrLastSession, got %v", err)
	}
	if len(api.deleteCalls) != 0 {
		t.Fatalf("rejection must be local, saw %d delete calls", len(api.deleteCalls))
	}
}

func TestDeleteActiveSessionActivatesLowestRemaining(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{listResult: serverSessions("a", "b", "c")}
	reg := service.NewRegistry(api, nil)
	if err := reg.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if err := reg.Activate(context.Background(), "a"); err != nil {
		t.Fatalf("activate: %v", err)
	}

	if err := reg.Delete(context.Background(), "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := reg.ActiveID(); got != "b" {
		t.Fatalf("expected lowest remaining id active, got %q", got)
	}
	// One activate for the initial selection, one for the replacement.
	if len(api.activateCalls) != 2 || api.activateCalls[1] != "b" {
		t.Fatalf("unexpected activate calls: %v", api.activateCalls)
	}
}

func TestDeleteInactiveSessionLeavesActivePointerAlone(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{listResult: serverSessions("a", "b")}
	reg := service.NewRegistry(api, nil)
	if err := reg.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if err := reg.Delete(context.Background(), "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := reg.ActiveID(); got != "a" {
		t.Fatalf("active pointer moved unexpectedly to %q", got)
	}
	if len(api.activateCalls) != 0 {
		t.Fatalf("no activation expected, got %v", api.activateCalls)
	}
}

func TestCreateRefreshesAndReturnsNewSession(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{listResult: serverSessions("a"), nextCreateID: "b"}
	reg := service.NewRegistry(api, nil)
	if err := reg.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	created, err := reg.Create(context.Background(), "standup", true, true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "b" || created.Name != "standup" {
		t.Fatalf("unexpected created session: %+v", created)
	}
	if len(reg.Sessions()) != 2 {
		t.Fatalf("expected refreshed list of 2, got %d", len(reg.Sessions()))
	}
}

func TestCreateRejectsEmptyName(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{}
	reg := service.NewRegistry(api, nil)
	if _, err := reg.Create(context.Background(), "", true, true); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if api.createCalls != 0 {
		t.Fatalf("expected no network call, got %d", api.createCalls)
	}
}

func TestActivateUnknownSessionFailsLocally(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{listResult: serverSessions("a")}
	reg := service.NewRegistry(api, nil)
	if err := reg.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if err := reg.Activate(context.Background(), "ghost"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(api.activateCalls) != 0 {
		t.Fatalf("expected no network call, got %v", api.activateCalls)
	}
}

func TestSubscribersSeeActiveChanges(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{listResult: serverSessions("a", "b")}
	reg := service.NewRegistry(api, nil)

	var seen []string
	reg.Subscribe(func(id string) { seen = append(seen, id) })

	if err := reg.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if err := reg.Activate(context.Background(), "b"); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if err := reg.Activate(context.Background(), "b"); err != nil {
		t.Fatalf("re-activate: %v", err)
	}

	want := []string{"a", "b"}
	if len(seen) != len(want) || seen[0] != want[0] || seen[1] != want[1] {
		t.Fatalf("expected notifications %v, got %v", want, seen)
	}
}
