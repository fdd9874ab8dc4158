package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventGameStarted   EventType = "game_started"
	EventCellsRevealed EventType = "cells_revealed"
	EventMarkChanged   EventType = "mark_changed"
	EventTick          EventType = "tick"
	EventGameWon       EventType = "game_won"
	EventGameLost      EventType = "game_lost"
	EventGameAbandoned EventType = "game_abandoned"
)

// Final reports whether the event is the last one a game publishes
func (t EventType) Final() bool {
	switch t {
	case EventGameWon, EventGameLost, EventGameAbandoned:
		return true
	default:
		return false
	}
}

// Event is the base structure for all events
type Event struct {
	Type      EventType
	Timestamp time.Time
	GameID    GameID
	Payload   any // Type-specific data
}

// GameStartedPayload contains data for game started events
type GameStartedPayload struct {
	Rows    int
	Cols    int
	Hazards int
}

// CellsRevealedPayload contains data for cells revealed events
type CellsRevealedPayload struct {
	Outcome       RevealOutcome
	Positions     []Position
	RemainingSafe int
}

// MarkChangedPayload contains data for mark changed events
type MarkChangedPayload struct {
	Position         Position
	Status           CellStatus
	FlaggedCount     int
	HazardsRemaining int
}

// TickPayload contains data for tick events
type TickPayload struct {
	Elapsed int
}

// GameEndedPayload contains data for game won and game lost events
type GameEndedPayload struct {
	Reason  EndReason
	Elapsed int
	Hazards []Position
}
