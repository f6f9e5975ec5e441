package usecase_test

import (
	"context"
	"errors"
	"testing"

	livedomain "attune/internal/modules/live/domain"
	"attune/internal/modules/session/domain"
	"attune/internal/modules/session/dto"
	"attune/internal/modules/session/service"
	"attune/internal/modules/session/usecase"
	apperrors "attune/internal/platform/errors"
)

type historyAPI struct {
	transcript    string
	transcriptErr error
	response      string
	sources       []livedomain.Source
	responseErr   error
	insights      livedomain.Insights
	insightsErr   error

	deepDives []string
}

func (h *historyAPI) List(context.Context) ([]domain.Session, error) {
	return []domain.Session{{ID: "a", Name: "s-a"}}, nil
}
func (h *historyAPI) Create(_ context.Context, name string, _, _ bool) (string, error) {
	return "new", nil
}
func (h *historyAPI) Activate(context.Context, string) error { return nil }
func (h *historyAPI) Delete(context.Context, string) error   { return nil }
func (h *historyAPI) Start(_ context.Context, _ string, _, _ bool) error {
	return nil
}
func (h *historyAPI) Stop(context.Context, string) error { return nil }
func (h *historyAPI) Clear(context.Context) error        { return nil }

func (h *historyAPI) Transcript(context.Context, string) (string, error) {
	return h.transcript, h.transcriptErr
}

func (h *historyAPI) Response(context.Context, string) (string, []livedomain.Source, error) {
	return h.response, h.sources, h.responseErr
}

func (h *historyAPI) Insights(context.Context, string) (livedomain.Insights, error) {
	return h.insights, h.insightsErr
}

func (h *historyAPI) DeepDive(_ context.Context, id, query string) error {
	h.deepDives = append(h.deepDives, id+":"+query)
	return nil
}

func (h *historyAPI) EmailDraft(_ context.Context, input dto.EmailDraftInput) (dto.EmailDraftOutput, error) {
	return dto.EmailDraftOutput{Subject: "Meeting Follow-up", To: input.Recipient, Body: "draft"}, nil
}

func newInteractor(api *historyAPI) *usecase.Interactor {
	reg := service.NewRegistry(api, nil)
	return usecase.NewInteractor(reg, api, nil).(*usecase.Interactor)
}

func TestFetchHistoryAssemblesAllThreeSections(t *testing.T) {
	t.Parallel()
	api := &historyAPI{
		transcript: "Speaker: hi",
		response:   "Hello",
		sources:    []livedomain.Source{{Title: "doc", Snippet: "text"}},
		insights:   livedomain.Insights{KeyTopics: []string{"greetings"}},
	}
	u, err := newInteractor(api).FetchHistory(context.Background(), "a")
	if err != nil {
		t.Fatalf("fetch history: %v", err)
	}
	if u.Transcript != "Speaker: hi" || u.Response != "Hello" {
		t.Fatalf("unexpected snapshot: %+v", u)
	}
	if len(u.Sources) != 1 || len(u.Insights.KeyTopics) != 1 {
		t.Fatalf("sections missing: %+v", u)
	}
}

func TestFetchHistoryDegradesToPartialSnapshot(t *testing.T) {
	t.Parallel()
	api := &historyAPI{
		transcriptErr: errors.New("no active transcription"),
		response:      "stored answer",
	}
	u, err := newInteractor(api).FetchHistory(context.Background(), "a")
	if err != nil {
		t.Fatalf("partial history must not error: %v", err)
	}
	if u.Transcript != "" || u.Response != "stored answer" {
		t.Fatalf("unexpected snapshot: %+v", u)
	}
}

func TestFetchHistoryErrorsOnlyWhenEverySectionFails(t *testing.T) {
	t.Parallel()
	down := errors.New("connection refused")
	api := &historyAPI{transcriptErr: down, responseErr: down, insightsErr: down}
	if _, err := newInteractor(api).FetchHistory(context.Background(), "a"); err == nil {
		t.Fatal("expected error when backend is unreachable")
	}
}

func TestFetchHistoryRequiresSessionID(t *testing.T) {
	t.Parallel()
	if _, err := newInteractor(&historyAPI{}).FetchHistory(context.Background(), ""); !errors.Is(err, apperrors.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestDeepDiveValidatesInputBeforeNetwork(t *testing.T) {
	t.Parallel()
	api := &historyAPI{}
	i := newInteractor(api)

	if err := i.DeepDive(context.Background(), "", "quantum"); !errors.Is(err, apperrors.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if err := i.DeepDive(context.Background(), "a", ""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(api.deepDives) != 0 {
		t.Fatalf("validation failures must not reach the network: %v", api.deepDives)
	}

	if err := i.DeepDive(context.Background(), "a", "quantum"); err != nil {
		t.Fatalf("deep dive: %v", err)
	}
	if len(api.deepDives) != 1 || api.deepDives[0] != "a:quantum" {
		t.Fatalf("unexpected deep dive calls: %v", api.deepDives)
	}
}

func TestStartFallsBackToActiveSession(t *testing.T) {
	t.Parallel()
	api := &historyAPI{}
	i := newInteractor(api)
	if err := i.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if err := i.Start(context.Background(), dto.StartInput{UseAPI: true, EnableSearch: true}); err != nil {
		t.Fatalf("start with implicit session: %v", err)
	}
}

func TestEmailDraftRequiresSession(t *testing.T) {
	t.Parallel()
	i := newInteractor(&historyAPI{})
	if _, err := i.EmailDraft(context.Background(), dto.EmailDraftInput{}); !errors.Is(err, apperrors.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	out, err := i.EmailDraft(context.Background(), dto.EmailDraftInput{SessionID: "a", Recipient: "dev@example.com"})
	if err != nil {
		t.Fatalf("email draft: %v", err)
	}
	if out.To != "dev@example.com" || out.Subject == "" {
		t.Fatalf("unexpected draft: %+v", out)
	}
}
