package dto_test

import (
	"testing"

	"attune/internal/modules/live/domain"
	"attune/internal/modules/live/dto"
)

func TestDecodeFullFrame(t *testing.T) {
	t.Parallel()
	raw := []byte(`{
		"type": "update",
		"session_id": "sess-1",
		"transcript": "Speaker: hello world",
		"response": "Hi there",
		"research_status": {
			"active_searches": ["golang websockets"],
			"recent_searches": ["bubble tea tui", "zap logging"]
		},
		"sources": [{"title": "Gorilla WebSocket", "snippet": "A fast websocket implementation"}],
		"insights": {
			"key_topics": ["websockets"],
			"decisions_made": ["use gorilla"],
			"questions_raised": ["what about wss?"],
			"action_items": [{"text": "write the adapter", "assigned_to": "sam", "priority": "high", "completed": false}]
		}
	}`)
	u, err := dto.DecodeFrame(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if u.SessionID != "sess-1" || u.Transcript != "Speaker: hello world" || u.Response != "Hi there" {
		t.Fatalf("unexpected scalar fields: %+v", u)
	}
	if len(u.Research.ActiveSearches) != 1 || len(u.Research.RecentSearches) != 2 {
		t.Fatalf("unexpected research status: %+v", u.Research)
	}
	if len(u.Sources) != 1 || u.Sources[0].Title != "Gorilla WebSocket" {
		t.Fatalf("unexpected sources: %+v", u.Sources)
	}
	items := u.Insights.ActionItems
	if len(items) != 1 || items[0].Priority != domain.PriorityHigh || items[0].AssignedTo != "sam" {
		t.Fatalf("unexpected action items: %+v", items)
	}
}

func TestAbsentFieldsDecodeToEmptyNotError(t *testing.T) {
	t.Parallel()
	u, err := dto.DecodeFrame([]byte(`{"type": "update"}`))
	if err != nil {
		t.Fatalf("minimal frame must decode cleanly: %v", err)
	}
	if !u.Empty() {
		t.Fatalf("expected empty snapshot, got %+v", u)
	}
}

func TestNonUpdateTypeRejected(t *testing.T) {
	t.Parallel()
	if _, err := dto.DecodeFrame([]byte(`{"type": "ping"}`)); err == nil {
		t.Fatal("expected error for non-update frame type")
	}
}

func TestMalformedPayloadRejected(t *testing.T) {
	t.Parallel()
	if _, err := dto.DecodeFrame([]byte(`{"type": "update"`)); err == nil {
		t.Fatal("expected error for truncated payload")
	}
}
