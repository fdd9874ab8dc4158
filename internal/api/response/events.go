package response

import (
	"time"

	"github.com/mcoot/minegrid/internal/model"
)

// Event is the wire form of a game event on the event stream
type Event struct {
	Type      string    `json:"type"`
	GameID    string    `json:"game_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// GameStartedPayload is sent when a game starts
type GameStartedPayload struct {
	Rows    int `json:"rows"`
	Cols    int `json:"cols"`
	Hazards int `json:"hazards"`
}

// CellsRevealedPayload is sent after a reveal changes the grid
type CellsRevealedPayload struct {
	Outcome       string     `json:"outcome"`
	Positions     []Position `json:"positions"`
	RemainingSafe int        `json:"remaining_safe"`
}

// MarkChangedPayload is sent after a marker changes
type MarkChangedPayload struct {
	Position         Position `json:"position"`
	Status           string   `json:"status"`
	FlaggedCount     int      `json:"flagged_count"`
	HazardsRemaining int      `json:"hazards_remaining"`
}

// TickPayload is sent on every clock tick
type TickPayload struct {
	Elapsed int `json:"elapsed"`
}

// GameEndedPayload is sent when a game is won or lost
type GameEndedPayload struct {
	Reason  string     `json:"reason"`
	Elapsed int        `json:"elapsed"`
	Hazards []Position `json:"hazards"`
}

// EventFromModel converts model.Event and its payload
func EventFromModel(e model.Event) Event {
	return Event{
		Type:      string(e.Type),
		GameID:    string(e.GameID),
		Timestamp: e.Timestamp,
		Payload:   payloadFromModel(e.Payload),
	}
}

func payloadFromModel(payload any) any {
	switch p := payload.(type) {
	case model.GameStartedPayload:
		return GameStartedPayload{Rows: p.Rows, Cols: p.Cols, Hazards: p.Hazards}
	case model.CellsRevealedPayload:
		return CellsRevealedPayload{
			Outcome:       string(p.Outcome),
			Positions:     PositionsFromModel(p.Positions),
			RemainingSafe: p.RemainingSafe,
		}
	case model.MarkChangedPayload:
		return MarkChangedPayload{
			Position:         PositionFromModel(p.Position),
			Status:           string(p.Status),
			FlaggedCount:     p.FlaggedCount,
			HazardsRemaining: p.HazardsRemaining,
		}
	case model.TickPayload:
		return TickPayload{Elapsed: p.Elapsed}
	case model.GameEndedPayload:
		return GameEndedPayload{
			Reason:  string(p.Reason),
			Elapsed: p.Elapsed,
			Hazards: PositionsFromModel(p.Hazards),
		}
	default:
		return payload
	}
}
