package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameState represents the current phase of a game
type GameState string

const (
	GameStateNotStarted GameState = "not_started"
	GameStateInProgress GameState = "in_progress"
	GameStateWon        GameState = "won"
	GameStateLost       GameState = "lost"
)

// EndReason records why a game ended
type EndReason string

const (
	EndReasonNone      EndReason = ""
	EndReasonHazard    EndReason = "hazard"     // A hazard was revealed
	EndReasonCleared   EndReason = "cleared"    // Every safe cell was revealed
	EndReasonTimeLimit EndReason = "time_limit" // The clock passed the time limit
)

// RevealOutcome is the result of a reveal command
type RevealOutcome string

const (
	RevealNoOp   RevealOutcome = "noop"
	RevealSafe   RevealOutcome = "revealed_safe"
	RevealHazard RevealOutcome = "revealed_hazard"
	RevealWin    RevealOutcome = "win"
)

// RevealResult describes what a reveal command changed
type RevealResult struct {
	Outcome  RevealOutcome
	Revealed []Position // Newly revealed cells in visitation order
}

// MarkResult describes what a mark command changed
type MarkResult struct {
	Position Position
	Previous CellStatus
	Current  CellStatus
	Changed  bool
}

// TickOutcome is the result of a clock tick
type TickOutcome string

const (
	TickNoOp    TickOutcome = "noop"
	TickTicked  TickOutcome = "ticked"
	TickExpired TickOutcome = "time_expired"
)

// Game is one play-through from board generation to win or loss
type Game struct {
	ID        GameID
	Config    Config
	State     GameState
	EndReason EndReason

	Grid    *Grid
	Hazards []Position // Placement order, no duplicates

	RemainingSafe int // Safe cells still hidden
	FlaggedCount  int
	Elapsed       int // Ticks since the clock started

	ClockStarted     bool // Tick source armed by the first player command
	HazardsDisclosed bool

	CreatedAt time.Time
	UpdatedAt time.Time
	EndedAt   time.Time
}

// InProgress returns true if the game accepts player commands
func (g *Game) InProgress() bool {
	return g.State == GameStateInProgress
}

// IsEnded returns true if the game was won or lost
func (g *Game) IsEnded() bool {
	return g.State == GameStateWon || g.State == GameStateLost
}

// End moves the game into a terminal state
func (g *Game) End(state GameState, reason EndReason, at time.Time) {
	g.State = state
	g.EndReason = reason
	g.EndedAt = at
	g.UpdatedAt = at
}

// HazardsRemaining returns the counter shown to the player: hazards minus
// flags, never negative
func (g *Game) HazardsRemaining() int {
	flagged := min(g.FlaggedCount, g.Config.Hazards)
	return max(0, g.Config.Hazards-flagged)
}

// Clone returns a deep copy of the game
func (g *Game) Clone() *Game {
	clone := *g
	clone.Grid = g.Grid.Clone()
	if g.Hazards != nil {
		clone.Hazards = make([]Position, len(g.Hazards))
		copy(clone.Hazards, g.Hazards)
	}
	return &clone
}
