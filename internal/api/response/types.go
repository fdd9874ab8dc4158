package response

import (
	"time"

	"github.com/mcoot/minegrid/internal/model"
)

// Position is a cell coordinate
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// PositionFromModel converts model.Position
func PositionFromModel(p model.Position) Position {
	return Position{Row: p.Row, Col: p.Col}
}

// PositionsFromModel converts a slice of model.Position
func PositionsFromModel(ps []model.Position) []Position {
	result := make([]Position, len(ps))
	for i, p := range ps {
		result[i] = PositionFromModel(p)
	}
	return result
}

// Config is a board configuration
type Config struct {
	Rows      int `json:"rows"`
	Cols      int `json:"cols"`
	Hazards   int `json:"hazards"`
	TimeLimit int `json:"time_limit"`
}

// ConfigFromModel converts model.Config
func ConfigFromModel(c model.Config) Config {
	return Config{
		Rows:      c.Rows,
		Cols:      c.Cols,
		Hazards:   c.Hazards,
		TimeLimit: c.TimeLimit,
	}
}

// Cell is one grid cell. Hazard and Adjacent are omitted until the cell
// is revealed or the game has ended.
type Cell struct {
	Status        string `json:"status"`
	Hazard        *bool  `json:"hazard,omitempty"`
	Adjacent      *int   `json:"adjacent,omitempty"`
	FlagConfirmed bool   `json:"flag_confirmed,omitempty"`
}

// CellFromModel converts model.Cell, hiding what the player cannot see yet
func CellFromModel(c model.Cell, ended bool) Cell {
	cell := Cell{
		Status:        string(c.Status),
		FlagConfirmed: c.FlagConfirmed,
	}
	if ended || c.IsRevealed() {
		hazard := c.IsHazard
		cell.Hazard = &hazard
		if !c.IsHazard {
			adjacent := c.Adjacent
			cell.Adjacent = &adjacent
		}
	}
	return cell
}

// Game is the player's view of a session
type Game struct {
	ID               string     `json:"id"`
	State            string     `json:"state"`
	EndReason        string     `json:"end_reason,omitempty"`
	Config           Config     `json:"config"`
	Cells            [][]Cell   `json:"cells"`
	RemainingSafe    int        `json:"remaining_safe"`
	FlaggedCount     int        `json:"flagged_count"`
	HazardsRemaining int        `json:"hazards_remaining"`
	Elapsed          int        `json:"elapsed"`
	ClockStarted     bool       `json:"clock_started"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	EndedAt          *time.Time `json:"ended_at,omitempty"`
}

// GameFromModel converts model.Game
func GameFromModel(g *model.Game) Game {
	ended := g.IsEnded()
	cells := make([][]Cell, g.Grid.Rows)
	for row := range cells {
		cells[row] = make([]Cell, g.Grid.Cols)
		for col := range cells[row] {
			cells[row][col] = CellFromModel(g.Grid.Cells[row][col], ended)
		}
	}

	var endedAt *time.Time
	if ended {
		t := g.EndedAt
		endedAt = &t
	}

	return Game{
		ID:               string(g.ID),
		State:            string(g.State),
		EndReason:        string(g.EndReason),
		Config:           ConfigFromModel(g.Config),
		Cells:            cells,
		RemainingSafe:    g.RemainingSafe,
		FlaggedCount:     g.FlaggedCount,
		HazardsRemaining: g.HazardsRemaining(),
		Elapsed:          g.Elapsed,
		ClockStarted:     g.ClockStarted,
		CreatedAt:        g.CreatedAt,
		UpdatedAt:        g.UpdatedAt,
		EndedAt:          endedAt,
	}
}

// GameList lists live game ids
type GameList struct {
	Games []string `json:"games"`
}

// RevealResponse is the response after revealing a cell
type RevealResponse struct {
	Outcome  string     `json:"outcome"`
	Revealed []Position `json:"revealed"`
	Game     Game       `json:"game"`
}

// MarkResponse is the response after cycling a cell's marker
type MarkResponse struct {
	Previous string `json:"previous"`
	Status   string `json:"status"`
	Changed  bool   `json:"changed"`
	Game     Game   `json:"game"`
}

// Health is the health check response
type Health struct {
	Status string `json:"status"`
}
