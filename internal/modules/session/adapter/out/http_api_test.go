package out_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	out "attune/internal/modules/session/adapter/out"
	apperrors "attune/internal/platform/errors"
)

func TestListDecodesBackendSessionRecords(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/sessions" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"sessions": [
			{"id": "s1", "name": "standup", "created_at": "2026-08-30T09:15:00.123456", "is_running": true, "is_active": true},
			{"id": "s2", "name": "retro", "created_at": "2026-08-30T10:00:00Z", "is_running": false, "is_active": false}
		]}`)
	}))
	defer srv.Close()

	api := out.NewHTTPAPI(srv.URL, srv.Client())
	sessions, err := api.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != "s1" || !sessions[0].Running || !sessions[0].Active {
		t.Fatalf("unexpected first session: %+v", sessions[0])
	}
	if sessions[0].CreatedAt.IsZero() || sessions[1].CreatedAt.IsZero() {
		t.Fatalf("timestamps must parse in both ISO forms: %+v", sessions)
	}
}

func TestCreateSendsFlagsAndReturnsID(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/sessions" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req["name"] != "standup" || req["use_api"] != true || req["enable_search"] != true {
			t.Errorf("unexpected request body: %v", req)
		}
		_, _ = io.WriteString(w, `{"session_id": "new-id", "name": "standup"}`)
	}))
	defer srv.Close()

	api := out.NewHTTPAPI(srv.URL, srv.Client())
	id, err := api.Create(context.Background(), "standup", true, true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != "new-id" {
		t.Fatalf("expected new-id, got %q", id)
	}
}

func TestStartCarriesFlagsAsQueryParameters(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sessions/s1/start" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("use_api") != "false" || q.Get("enable_search") != "true" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		_, _ = io.WriteString(w, `{"status": "started"}`)
	}))
	defer srv.Close()

	api := out.NewHTTPAPI(srv.URL, srv.Client())
	if err := api.Start(context.Background(), "s1", false, true); err != nil {
		t.Fatalf("start: %v", err)
	}
}

func TestNotFoundMapsToSentinelError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "Session not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	api := out.NewHTTPAPI(srv.URL, srv.Client())
	if err := api.Activate(context.Background(), "ghost"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResponseReturnsTextAndSources(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sessions/s1/response" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"response": "answer", "sources": [{"title": "doc", "snippet": "text"}]}`)
	}))
	defer srv.Close()

	api := out.NewHTTPAPI(srv.URL, srv.Client())
	text, sources, err := api.Response(context.Background(), "s1")
	if err != nil {
		t.Fatalf("response: %v", err)
	}
	if text != "answer" || len(sources) != 1 || sources[0].Title != "doc" {
		t.Fatalf("unexpected result: %q / %+v", text, sources)
	}
}

func TestInsightsDecodeActionItems(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{
			"key_topics": ["budget"],
			"decisions_made": [],
			"questions_raised": ["when?"],
			"action_items": [{"text": "send deck", "priority": "high", "assigned_to": "sam", "completed": false}]
		}`)
	}))
	defer srv.Close()

	api := out.NewHTTPAPI(srv.URL, srv.Client())
	insights, err := api.Insights(context.Background(), "s1")
	if err != nil {
		t.Fatalf("insights: %v", err)
	}
	if len(insights.ActionItems) != 1 || insights.ActionItems[0].AssignedTo != "sam" {
		t.Fatalf("unexpected insights: %+v", insights)
	}
}
