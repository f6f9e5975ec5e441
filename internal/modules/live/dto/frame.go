// Package dto holds the wire representation of push-channel frames.
package dto

import (
	"fmt"

	"github.com/goccy/go-json"

	"attune/internal/modules/live/domain"
)

// FrameTypeUpdate is the only frame type the client consumes; frames with
// any other type are dropped by the channel.
const FrameTypeUpdate = "update"

type Frame struct {
	Type           string         `json:"type"`
	SessionID      string         `json:"session_id"`
	Transcript     string         `json:"transcript"`
	Response       string         `json:"response"`
	ResearchStatus researchStatus `json:"research_status"`
	Sources        []source       `json:"sources"`
	Insights       insights       `json:"insights"`
}

type researchStatus struct {
	ActiveSearches []string `json:"active_searches"`
	RecentSearches []string `json:"recent_searches"`
}

type source struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

type actionItem struct {
	Text       string `json:"text"`
	AssignedTo string `json:"assigned_to"`
	Priority   string `json:"priority"`
	Completed  bool   `json:"completed"`
}

type insights struct {
	KeyTopics       []string     `json:"key_topics"`
	DecisionsMade   []string     `json:"decisions_made"`
	QuestionsRaised []string     `json:"questions_raised"`
	ActionItems     []actionItem `json:"action_items"`
}

// DecodeFrame parses a raw frame into a domain snapshot. It returns an
// error for undecodable payloads or non-update frame types; absent fields
// are not errors and decode to empty values.
func DecodeFrame(data []byte) (domain.Update, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return domain.Update{}, fmt.Errorf("decode frame: %w", err)
	}
	if f.Type != FrameTypeUpdate {
		return domain.Update{}, fmt.Errorf("unexpected frame type %q", f.Type)
	}
	return f.toDomain(), nil
}

func (f Frame) toDomain() domain.Update {
	u := domain.Update{
		SessionID:  f.SessionID,
		Transcript: f.Transcript,
		Response:   f.Response,
		Research: domain.ResearchStatus{
			ActiveSearches: f.ResearchStatus.ActiveSearches,
			RecentSearches: f.ResearchStatus.RecentSearches,
		},
	}
	for _, s := range f.Sources {
		u.Sources = append(u.Sources, domain.Source{Title: s.Title, Snippet: s.Snippet})
	}
	u.Insights = domain.Insights{
		KeyTopics:       f.Insights.KeyTopics,
		DecisionsMade:   f.Insights.DecisionsMade,
		QuestionsRaised: f.Insights.QuestionsRaised,
	}
	for _, item := range f.Insights.ActionItems {
		u.Insights.ActionItems = append(u.Insights.ActionItems, domain.ActionItem{
			Text:       item.Text,
			AssignedTo: item.AssignedTo,
			Priority:   domain.Priority(item.Priority),
			Completed:  item.Completed,
		})
	}
	return u
}
