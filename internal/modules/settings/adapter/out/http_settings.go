package out

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"attune/internal/modules/settings/dto"
)

// HTTPSettings reads and writes the backend's preference blob.
type HTTPSettings struct {
	base   string
	client *http.Client
}

func NewHTTPSettings(base string, client *http.Client) *HTTPSettings {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSettings{base: base, client: client}
}

type settingsBody struct {
	Theme                string `json:"theme"`
	LLMProvider          string `json:"llm_provider"`
	NotificationEnabled  bool   `json:"notification_enabled"`
	VoiceCommandsEnabled bool   `json:"voice_commands_enabled"`
}

func (s *HTTPSettings) Get(ctx context.Context) (dto.Settings, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+"/settings", nil)
	if err != nil {
		return dto.Settings{}, fmt.Errorf("build settings request: %w", err)
	}
	return s.roundtrip(req)
}

func (s *HTTPSettings) Update(ctx context.Context, input dto.UpdateInput) (dto.Settings, error) {
	patch := map[string]any{}
	if input.Theme != nil {
		patch["theme"] = *input.Theme
	}
	if input.APIKey != nil {
		patch["api_key"] = *input.APIKey
	}
	if input.LLMProvider != nil {
		patch["llm_provider"] = *input.LLMProvider
	}
	if input.NotificationEnabled != nil {
		patch["notification_enabled"] = *input.NotificationEnabled
	}
	if input.VoiceCommandsEnabled != nil {
		patch["voice_commands_enabled"] = *input.VoiceCommandsEnabled
	}
	encoded, err := json.Marshal(patch)
	if err != nil {
		return dto.Settings{}, fmt.Errorf("encode settings update: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base+"/settings", bytes.NewReader(encoded))
	if err != nil {
		return dto.Settings{}, fmt.Errorf("build settings request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return s.roundtrip(req)
}

func (s *HTTPSettings) roundtrip(req *http.Request) (dto.Settings, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return dto.Settings{}, fmt.Errorf("settings: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return dto.Settings{}, fmt.Errorf("settings: status %d", resp.StatusCode)
	}
	var body settingsBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return dto.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return dto.Settings{
		Theme:                body.Theme,
		LLMProvider:          body.LLMProvider,
		NotificationEnabled:  body.NotificationEnabled,
		VoiceCommandsEnabled: body.VoiceCommandsEnabled,
	}, nil
}
