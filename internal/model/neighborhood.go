package model

// neighborOffsets lists the 8 surrounding offsets: row above, same row, row below
var neighborOffsets = [8]Position{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Neighbors returns the in-bounds positions adjacent to pos on a rows x cols grid.
// The order is fixed: the row above left to right, then left and right, then
// the row below left to right.
func Neighbors(pos Position, rows, cols int) []Position {
	result := make([]Position, 0, len(neighborOffsets))
	for _, off := range neighborOffsets {
		r, c := pos.Row+off.Row, pos.Col+off.Col
		if r < 0 || r >= rows || c < 0 || c >= cols {
			continue
		}
		result = append(result, Position{Row: r, Col: c})
	}
	return result
}
