package out

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	livedomain "attune/internal/modules/live/domain"
	"attune/internal/modules/session/domain"
	"attune/internal/modules/session/dto"
	apperrors "attune/internal/platform/errors"
)

// HTTPAPI is the REST client for the backend's session endpoints. All
// methods honor the context deadline; the caller decides timeouts.
type HTTPAPI struct {
	base   string
	client *http.Client
}

func NewHTTPAPI(base string, client *http.Client) *HTTPAPI {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPAPI{base: base, client: client}
}

type sessionRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	IsRunning bool   `json:"is_running"`
	IsActive  bool   `json:"is_active"`
}

func (a *HTTPAPI) List(ctx context.Context) ([]domain.Session, error) {
	var body struct {
		Sessions []sessionRecord `json:"sessions"`
	}
	if err := a.doJSON(ctx, http.MethodGet, "/sessions", nil, &body); err != nil {
		return nil, err
	}
	out := make([]domain.Session, len(body.Sessions))
	for i, rec := range body.Sessions {
		out[i] = domain.Session{
			ID:        rec.ID,
			Name:      rec.Name,
			Running:   rec.IsRunning,
			Active:    rec.IsActive,
			CreatedAt: parseTimestamp(rec.CreatedAt),
		}
	}
	return out, nil
}

func (a *HTTPAPI) Create(ctx context.Context, name string, useAPI, enableSearch bool) (string, error) {
	req := map[string]any{
		"name":          name,
		"use_api":       useAPI,
		"enable_search": enableSearch,
	}
	var body struct {
		SessionID string `json:"session_id"`
	}
	if err := a.doJSON(ctx, http.MethodPost, "/sessions", req, &body); err != nil {
		return "", err
	}
	return body.SessionID, nil
}

func (a *HTTPAPI) Activate(ctx context.Context, id string) error {
	return a.doJSON(ctx, http.MethodPost, "/sessions/"+url.PathEscape(id)+"/activate", nil, nil)
}

func (a *HTTPAPI) Delete(ctx context.Context, id string) error {
	return a.doJSON(ctx, http.MethodDelete, "/sessions/"+url.PathEscape(id), nil, nil)
}

func (a *HTTPAPI) Start(ctx context.Context, id string, useAPI, enableSearch bool) error {
	path := "/sessions/" + url.PathEscape(id) + "/start" +
		"?use_api=" + strconv.FormatBool(useAPI) +
		"&enable_search=" + strconv.FormatBool(enableSearch)
	return a.doJSON(ctx, http.MethodPost, path, nil, nil)
}

func (a *HTTPAPI) Stop(ctx context.Context, id string) error {
	return a.doJSON(ctx, http.MethodPost, "/sessions/"+url.PathEscape(id)+"/stop", nil, nil)
}

func (a *HTTPAPI) Clear(ctx context.Context) error {
	return a.doJSON(ctx, http.MethodPost, "/clear", nil, nil)
}

func (a *HTTPAPI) Transcript(ctx context.Context, id string) (string, error) {
	var body struct {
		Transcript string `json:"transcript"`
	}
	if err := a.doJSON(ctx, http.MethodGet, "/sessions/"+url.PathEscape(id)+"/transcript", nil, &body); err != nil {
		return "", err
	}
	return body.Transcript, nil
}

func (a *HTTPAPI) Response(ctx context.Context, id string) (string, []livedomain.Source, error) {
	var body struct {
		Response string `json:"response"`
		Sources  []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"sources"`
	}
	if err := a.doJSON(ctx, http.MethodGet, "/sessions/"+url.PathEscape(id)+"/response", nil, &body); err != nil {
		return "", nil, err
	}
	sources := make([]livedomain.Source, len(body.Sources))
	for i, s := range body.Sources {
		sources[i] = livedomain.Source{Title: s.Title, Snippet: s.Snippet}
	}
	return body.Response, sources, nil
}

func (a *HTTPAPI) Insights(ctx context.Context, id string) (livedomain.Insights, error) {
	var body struct {
		KeyTopics       []string `json:"key_topics"`
		DecisionsMade   []string `json:"decisions_made"`
		QuestionsRaised []string `json:"questions_raised"`
		ActionItems     []struct {
			Text       string `json:"text"`
			Priority   string `json:"priority"`
			AssignedTo string `json:"assigned_to"`
			Completed  bool   `json:"completed"`
		} `json:"action_items"`
	}
	if err := a.doJSON(ctx, http.MethodGet, "/sessions/"+url.PathEscape(id)+"/insights", nil, &body); err != nil {
		return livedomain.Insights{}, err
	}
	insights := livedomain.Insights{
		KeyTopics:       body.KeyTopics,
		DecisionsMade:   body.DecisionsMade,
		QuestionsRaised: body.QuestionsRaised,
	}
	for _, item := range body.ActionItems {
		insights.ActionItems = append(insights.ActionItems, livedomain.ActionItem{
			Text:       item.Text,
			AssignedTo: item.AssignedTo,
			Priority:   livedomain.Priority(item.Priority),
			Completed:  item.Completed,
		})
	}
	return insights, nil
}

func (a *HTTPAPI) DeepDive(ctx context.Context, id, query string) error {
	req := map[string]any{"session_id": id, "query": query}
	return a.doJSON(ctx, http.MethodPost, "/research/deepdive", req, nil)
}

func (a *HTTPAPI) EmailDraft(ctx context.Context, input dto.EmailDraftInput) (dto.EmailDraftOutput, error) {
	req := map[string]any{"session_id": input.SessionID}
	if input.Recipient != "" {
		req["recipient"] = input.Recipient
	}
	if input.Subject != "" {
		req["subject"] = input.Subject
	}
	var body struct {
		Subject string `json:"subject"`
		To      string `json:"to"`
		Body    string `json:"body"`
	}
	if err := a.doJSON(ctx, http.MethodPost, "/email/draft", req, &body); err != nil {
		return dto.EmailDraftOutput{}, err
	}
	return dto.EmailDraftOutput{Subject: body.Subject, To: body.To, Body: body.Body}, nil
}

func (a *HTTPAPI) doJSON(ctx context.Context, method, path string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.base+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, path, apperrors.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// parseTimestamp accepts both RFC 3339 and the backend's naive ISO form.
func parseTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts
	}
	if ts, err := time.Parse("2006-01-02T15:04:05.999999999", raw); err == nil {
		return ts.UTC()
	}
	return time.Time{}
}
