package mark

import (
	"fmt"

	"github.com/mcoot/minegrid/internal/model"
)

// Service cycles the player's marker on concealed cells
type Service struct{}

// New creates a new mark Service
func New() *Service {
	return &Service{}
}

// next is the marker cycle: hidden -> flagged -> questioned -> hidden
var next = map[model.CellStatus]model.CellStatus{
	model.CellHidden:     model.CellFlagged,
	model.CellFlagged:    model.CellQuestioned,
	model.CellQuestioned: model.CellHidden,
}

// Cycle advances the marker on the cell at pos. Revealed cells are left
// untouched and reported with Changed false.
func (s *Service) Cycle(game *model.Game, pos model.Position) (model.MarkResult, error) {
	cell := game.Grid.At(pos)
	if cell == nil {
		return model.MarkResult{}, fmt.Errorf("%w: (%d, %d) on %dx%d grid",
			model.ErrOutOfBounds, pos.Row, pos.Col, game.Grid.Rows, game.Grid.Cols)
	}

	result := model.MarkResult{
		Position: pos,
		Previous: cell.Status,
		Current:  cell.Status,
	}

	status, ok := next[cell.Status]
	if !ok {
		return result, nil
	}

	switch {
	case status == model.CellFlagged:
		game.FlaggedCount++
	case cell.Status == model.CellFlagged:
		game.FlaggedCount--
	}

	cell.Status = status
	result.Current = status
	result.Changed = true
	return result, nil
}

// Interface for dependency injection
type ServiceInterface interface {
	Cycle(game *model.Game, pos model.Position) (model.MarkResult, error)
}

var _ ServiceInterface = (*Service)(nil)
