package model

// Grid is a fixed-size rows x cols container of cells
type Grid struct {
	Rows  int
	Cols  int
	Cells [][]Cell // Row-major: Cells[row][col]
}

// NewGrid creates a grid with every cell hidden
func NewGrid(rows, cols int) *Grid {
	cells := make([][]Cell, rows)
	for i := range cells {
		cells[i] = make([]Cell, cols)
		for j := range cells[i] {
			cells[i][j].Status = CellHidden
		}
	}
	return &Grid{
		Rows:  rows,
		Cols:  cols,
		Cells: cells,
	}
}

// IsValidPosition returns true if the position is within bounds
func (g *Grid) IsValidPosition(pos Position) bool {
	return pos.Row >= 0 && pos.Row < g.Rows && pos.Col >= 0 && pos.Col < g.Cols
}

// At returns the cell at the given position, or nil if out of bounds
func (g *Grid) At(pos Position) *Cell {
	if !g.IsValidPosition(pos) {
		return nil
	}
	return &g.Cells[pos.Row][pos.Col]
}

// Neighbors returns the in-bounds neighbours of pos
func (g *Grid) Neighbors(pos Position) []Position {
	return Neighbors(pos, g.Rows, g.Cols)
}

// Size returns the total number of cells
func (g *Grid) Size() int {
	return g.Rows * g.Cols
}

// HazardCount returns the number of cells holding a hazard
func (g *Grid) HazardCount() int {
	count := 0
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			if g.Cells[row][col].IsHazard {
				count++
			}
		}
	}
	return count
}

// CountStatus returns the number of cells with the given status
func (g *Grid) CountStatus(status CellStatus) int {
	count := 0
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			if g.Cells[row][col].Status == status {
				count++
			}
		}
	}
	return count
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	if g == nil {
		return nil
	}
	cells := make([][]Cell, g.Rows)
	for row := range cells {
		cells[row] = make([]Cell, g.Cols)
		copy(cells[row], g.Cells[row])
	}
	return &Grid{
		Rows:  g.Rows,
		Cols:  g.Cols,
		Cells: cells,
	}
}
