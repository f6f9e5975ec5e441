package out

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"attune/internal/modules/search/dto"
)

// HTTPSearch queries the backend's cross-session history index.
type HTTPSearch struct {
	base   string
	client *http.Client
}

func NewHTTPSearch(base string, client *http.Client) *HTTPSearch {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSearch{base: base, client: client}
}

func (s *HTTPSearch) Search(ctx context.Context, query string, limit int) ([]dto.Hit, error) {
	encoded, err := json.Marshal(map[string]any{"query": query, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base+"/search/history", bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search history: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search history: status %d", resp.StatusCode)
	}

	var body struct {
		Results []struct {
			SessionID   string `json:"session_id"`
			SessionName string `json:"session_name"`
			CreatedAt   string `json:"created_at"`
			Preview     string `json:"preview"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	hits := make([]dto.Hit, len(body.Results))
	for i, r := range body.Results {
		hits[i] = dto.Hit{
			SessionID:   r.SessionID,
			SessionName: r.SessionName,
			Preview:     r.Preview,
			CreatedAt:   parseTimestamp(r.CreatedAt),
		}
	}
	return hits, nil
}

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
