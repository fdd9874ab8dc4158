package model

// Position identifies a cell on the grid
type Position struct {
	Row int // 0-indexed from top
	Col int // 0-indexed from left
}

// CellStatus is the visible state of a cell. Hazard-ness is tracked
// separately on Cell.IsHazard.
type CellStatus string

const (
	CellHidden         CellStatus = "hidden"
	CellRevealed       CellStatus = "revealed"
	CellFlagged        CellStatus = "flagged"
	CellQuestioned     CellStatus = "questioned"
	CellHazardRevealed CellStatus = "hazard_revealed" // The hazard that ended the game
)

// Cell is one grid position
type Cell struct {
	Status   CellStatus
	IsHazard bool

	// Adjacent is the number of hazards among the cell's neighbours.
	// Only meaningful for non-hazard cells.
	Adjacent int

	// FlagConfirmed is set during hazard disclosure on a flagged hazard
	FlagConfirmed bool
}

// IsRevealed returns true if the cell has been opened, safe or not
func (c *Cell) IsRevealed() bool {
	return c.Status == CellRevealed || c.Status == CellHazardRevealed
}

// IsConcealed returns true if the cell can still be opened by a reveal
func (c *Cell) IsConcealed() bool {
	return c.Status == CellHidden || c.Status == CellQuestioned
}
