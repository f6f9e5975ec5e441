package out

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"attune/internal/modules/export/domain"
)

// HTTPExport asks the backend to render a session in the requested format.
type HTTPExport struct {
	base   string
	client *http.Client
}

func NewHTTPExport(base string, client *http.Client) *HTTPExport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPExport{base: base, client: client}
}

func (e *HTTPExport) Export(ctx context.Context, sessionID string, format domain.Format, include domain.Include) (string, error) {
	encoded, err := json.Marshal(map[string]any{
		"session_id":         sessionID,
		"format":             string(format),
		"include_transcript": include.Transcript,
		"include_sources":    include.Sources,
		"include_insights":   include.Insights,
	})
	if err != nil {
		return "", fmt.Errorf("encode export request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.base+"/export", bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("build export request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("export: status %d", resp.StatusCode)
	}

	var body struct {
		Format  string `json:"format"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode export response: %w", err)
	}
	return body.Content, nil
}
