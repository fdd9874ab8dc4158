package reveal

import (
	"github.com/mcoot/minegrid/internal/dependencies/clock"
	"github.com/mcoot/minegrid/internal/model"
)

// Engine applies reveal transitions to a game's grid
type Engine struct {
	clock clock.Clock
}

// New creates a new reveal Engine
func New(clock clock.Clock) *Engine {
	return &Engine{clock: clock}
}

// Reveal opens the cell at pos. A cell with no adjacent hazards also opens
// its concealed neighbours, transitively, using an explicit stack.
//
// Nothing is mutated when the game is not in progress, pos is outside the
// grid, or the cell is already revealed or flagged.
func (e *Engine) Reveal(game *model.Game, pos model.Position) model.RevealResult {
	noop := model.RevealResult{Outcome: model.RevealNoOp}
	if !game.InProgress() {
		return noop
	}

	grid := game.Grid
	cell := grid.At(pos)
	if cell == nil || !cell.IsConcealed() {
		return noop
	}

	now := e.clock.Now()
	game.UpdatedAt = now

	if cell.IsHazard {
		cell.Status = model.CellHazardRevealed
		game.End(model.GameStateLost, model.EndReasonHazard, now)
		e.DiscloseHazards(game)
		return model.RevealResult{
			Outcome:  model.RevealHazard,
			Revealed: []model.Position{pos},
		}
	}

	var revealed []model.Position
	stack := []model.Position{pos}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		c := grid.At(current)
		// Zero-count cells never border a hazard, so the fill cannot reach one
		if !c.IsConcealed() || c.IsHazard {
			continue
		}

		c.Status = model.CellRevealed
		game.RemainingSafe--
		revealed = append(revealed, current)

		if c.Adjacent > 0 {
			continue
		}
		for _, n := range grid.Neighbors(current) {
			if grid.At(n).IsConcealed() {
				stack = append(stack, n)
			}
		}
	}

	if game.RemainingSafe == 0 {
		game.End(model.GameStateWon, model.EndReasonCleared, now)
		e.DiscloseHazards(game)
		return model.RevealResult{Outcome: model.RevealWin, Revealed: revealed}
	}

	return model.RevealResult{Outcome: model.RevealSafe, Revealed: revealed}
}

// DiscloseHazards exposes every hazard once the game has ended. Flagged
// hazards keep their flag and are marked as confirmed instead.
// It runs at most once per game.
func (e *Engine) DiscloseHazards(game *model.Game) {
	if !game.IsEnded() || game.HazardsDisclosed {
		return
	}

	for _, pos := range game.Hazards {
		cell := game.Grid.At(pos)
		if cell == nil {
			continue
		}
		switch cell.Status {
		case model.CellFlagged:
			cell.FlagConfirmed = true
		case model.CellHazardRevealed:
			// Already exposed by the losing reveal
		default:
			cell.Status = model.CellRevealed
		}
	}
	game.HazardsDisclosed = true
}

// Interface for dependency injection
type EngineInterface interface {
	Reveal(game *model.Game, pos model.Position) model.RevealResult
	DiscloseHazards(game *model.Game)
}

var _ EngineInterface = (*Engine)(nil)
