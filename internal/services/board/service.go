package board

import (
	"fmt"
	"log/slog"

	"github.com/mcoot/minegrid/internal/dependencies/random"
	"github.com/mcoot/minegrid/internal/model"
)

// Service generates boards: hazard placement and adjacency counts
type Service struct {
	random random.Random
	logger *slog.Logger
}

// New creates a new BoardService
func New(rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		random: rnd,
		logger: logger.With(slog.String("component", "board-service")),
	}
}

// Generate creates a grid for the given configuration with hazards placed
// uniformly at random. The returned hazard set is in placement order.
func (s *Service) Generate(cfg model.Config) (*model.Grid, []model.Position, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	var indices []int
	if useShuffle(cfg.Hazards, cfg.Cells()) {
		indices = s.shuffleIndices(cfg.Hazards, cfg.Cells())
	} else {
		indices = s.sampleIndices(cfg.Hazards, cfg.Cells())
	}

	hazards := make([]model.Position, len(indices))
	for i, idx := range indices {
		hazards[i] = model.Position{Row: idx / cfg.Cols, Col: idx % cfg.Cols}
	}

	grid := model.NewGrid(cfg.Rows, cfg.Cols)
	if err := Place(grid, hazards); err != nil {
		return nil, nil, err
	}

	s.logger.Debug("board generated",
		slog.Int("rows", cfg.Rows),
		slog.Int("cols", cfg.Cols),
		slog.Int("hazards", cfg.Hazards),
	)

	return grid, hazards, nil
}

// useShuffle switches to bounded shuffle placement once hazards cover more
// than half the board, where rejection sampling would redraw too often
func useShuffle(hazards, cells int) bool {
	return hazards*2 > cells
}

// sampleIndices draws cell indices until count distinct ones are chosen
func (s *Service) sampleIndices(count, cells int) []int {
	chosen := make(map[int]bool, count)
	result := make([]int, 0, count)
	for len(result) < count {
		idx := s.random.Intn(cells)
		if chosen[idx] {
			continue
		}
		chosen[idx] = true
		result = append(result, idx)
	}
	return result
}

// shuffleIndices runs a partial Fisher-Yates shuffle over all cell indices
// and keeps the first count
func (s *Service) shuffleIndices(count, cells int) []int {
	all := make([]int, cells)
	for i := range all {
		all[i] = i
	}
	for i := 0; i < count; i++ {
		j := i + s.random.Intn(cells-i)
		all[i], all[j] = all[j], all[i]
	}
	return all[:count]
}

// Place marks the given positions as hazards and computes adjacency counts
// for every other cell
func Place(grid *model.Grid, hazards []model.Position) error {
	if len(hazards) >= grid.Size() {
		return fmt.Errorf("%w: %d hazards leave no safe cell among %d", model.ErrInvalidConfiguration, len(hazards), grid.Size())
	}
	for _, pos := range hazards {
		cell := grid.At(pos)
		if cell == nil {
			return fmt.Errorf("%w: hazard at (%d, %d)", model.ErrOutOfBounds, pos.Row, pos.Col)
		}
		if cell.IsHazard {
			return fmt.Errorf("%w: (%d, %d)", model.ErrDuplicateHazard, pos.Row, pos.Col)
		}
		cell.IsHazard = true
	}
	CountAdjacent(grid)
	return nil
}

// CountAdjacent sets Adjacent on every non-hazard cell
func CountAdjacent(grid *model.Grid) {
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			pos := model.Position{Row: row, Col: col}
			cell := grid.At(pos)
			if cell.IsHazard {
				cell.Adjacent = 0
				continue
			}
			count := 0
			for _, n := range grid.Neighbors(pos) {
				if grid.At(n).IsHazard {
					count++
				}
			}
			cell.Adjacent = count
		}
	}
}

// Interface for dependency injection
type ServiceInterface interface {
	Generate(cfg model.Config) (*model.Grid, []model.Position, error)
}

var _ ServiceInterface = (*Service)(nil)
