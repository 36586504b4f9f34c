// Package statusfeed streams generation progress to WebSocket clients.
// Dashboards connect, receive a status snapshot, then the live event
// stream for the rest of the run.
package statusfeed

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/teamarr/teamarr/internal/events"
)

// Envelope is the wire format for events sent over the feed.
type Envelope struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	RunID     string          `json:"run_id,omitempty"`
	Timestamp time.Time       `json:"ts"`
	Payload   json.RawMessage `json:"payload"`
}

// MarshalEvent serializes an Event into a JSON-encoded Envelope.
func MarshalEvent(evt events.Event) ([]byte, error) {
	payload, err := json.Marshal(evt.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	env := Envelope{
		Type:      string(evt.Type),
		ID:        evt.ID,
		RunID:     evt.RunID,
		Timestamp: evt.Timestamp,
		Payload:   payload,
	}
	return json.Marshal(env)
}

// UnmarshalEvent deserializes a JSON Envelope back into a typed Event.
func UnmarshalEvent(data []byte) (events.Event, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return events.Event{}, fmt.Errorf("unmarshal envelope: %w", err)
	}

	evt := events.Event{
		ID:        env.ID,
		Type:      events.EventType(env.Type),
		RunID:     env.RunID,
		Timestamp: env.Timestamp,
	}

	switch evt.Type {
	case events.EventRunStarted:
		var p events.RunStarted
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return evt, fmt.Errorf("unmarshal run_started: %w", err)
		}
		evt.Payload = p
	case events.EventTeamStarted, events.EventTeamCompleted, events.EventTeamFailed:
		var p events.TeamProgress
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return evt, fmt.Errorf("unmarshal %s: %w", evt.Type, err)
		}
		evt.Payload = p
	case events.EventRunCompleted, events.EventRunFailed:
		var p events.RunFinished
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return evt, fmt.Errorf("unmarshal %s: %w", evt.Type, err)
		}
		evt.Payload = p
	case events.EventSoccerRefreshStarted, events.EventSoccerRefreshCompleted:
		var p events.SoccerRefresh
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return evt, fmt.Errorf("unmarshal %s: %w", evt.Type, err)
		}
		evt.Payload = p
	default:
		return evt, fmt.Errorf("unknown event type: %s", env.Type)
	}

	return evt, nil
}
