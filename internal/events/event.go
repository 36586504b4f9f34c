// Package events is the in-process pub/sub layer: the orchestrator
// publishes generation progress, subscribers (status feed, history)
// consume it.
package events

import "time"

// Event is the envelope that flows through the bus.
type Event struct {
	ID        string
	Type      EventType
	RunID     string
	Timestamp time.Time
	Payload   any
}

type EventType string

const (
	EventRunStarted    EventType = "run_started"
	EventTeamStarted   EventType = "team_started"
	EventTeamCompleted EventType = "team_completed"
	EventTeamFailed    EventType = "team_failed"
	EventRunCompleted  EventType = "run_completed"
	EventRunFailed     EventType = "run_failed"

	EventSoccerRefreshStarted   EventType = "soccer_refresh_started"
	EventSoccerRefreshCompleted EventType = "soccer_refresh_completed"
)
