package statusfeed

import (
	"testing"
	"time"

	"github.com/teamarr/teamarr/internal/events"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	evt := events.Event{
		ID:        "1",
		Type:      events.EventTeamCompleted,
		RunID:     "run-42",
		Timestamp: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
		Payload: events.TeamProgress{
			RunID:      "run-42",
			TeamID:     7,
			TeamName:   "Boston Celtics",
			League:     "nba",
			Done:       3,
			Total:      10,
			Programmes: 42,
		},
	}

	data, err := MarshalEvent(evt)
	if err != nil {
		t.Fatal(err)
	}
	got, err := UnmarshalEvent(data)
	if err != nil {
		t.Fatal(err)
	}

	if got.Type != events.EventTeamCompleted || got.RunID != "run-42" {
		t.Errorf("envelope fields lost: %+v", got)
	}
	p, ok := got.Payload.(events.TeamProgress)
	if !ok {
		t.Fatalf("payload type = %T", got.Payload)
	}
	if p.TeamName != "Boston Celtics" || p.Done != 3 || p.Programmes != 42 {
		t.Errorf("payload = %+v", p)
	}
}

func TestUnmarshalUnknownType(t *testing.T) {
	if _, err := UnmarshalEvent([]byte(`{"type":"mystery","ts":"2026-01-15T12:00:00Z","payload":{}}`)); err == nil {
		t.Error("unknown event type must error")
	}
}

func TestUnmarshalGarbage(t *testing.T) {
	if _, err := UnmarshalEvent([]byte("not json")); err == nil {
		t.Error("garbage frame must error")
	}
}
