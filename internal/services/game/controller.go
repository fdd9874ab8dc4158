package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mcoot/minegrid/internal/dependencies/clock"
	"github.com/mcoot/minegrid/internal/model"
	"github.com/mcoot/minegrid/internal/services/board"
	"github.com/mcoot/minegrid/internal/services/mark"
	"github.com/mcoot/minegrid/internal/services/reveal"
	"github.com/mcoot/minegrid/internal/services/timer"
	"github.com/mcoot/minegrid/internal/storage"
)

// EventPublisher receives game events after each state change
type EventPublisher interface {
	Publish(event model.Event)
}

// NopPublisher discards every event
type NopPublisher struct{}

func (NopPublisher) Publish(model.Event) {}

// Controller owns the session state machine. Every mutation of a game runs
// under that game's lock for the whole load-mutate-save sequence.
type Controller struct {
	storage   storage.Storage
	board     board.ServiceInterface
	reveal    reveal.EngineInterface
	mark      mark.ServiceInterface
	timer     timer.ServiceInterface
	clock     clock.Clock
	publisher EventPublisher
	logger    *slog.Logger

	locks sync.Map // model.GameID -> *sync.Mutex
}

// NewController creates a new game Controller
func NewController(
	storage storage.Storage,
	board board.ServiceInterface,
	reveal reveal.EngineInterface,
	mark mark.ServiceInterface,
	timer timer.ServiceInterface,
	clock clock.Clock,
	publisher EventPublisher,
	logger *slog.Logger,
) *Controller {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Controller{
		storage:   storage,
		board:     board,
		reveal:    reveal,
		mark:      mark,
		timer:     timer,
		clock:     clock,
		publisher: publisher,
		logger:    logger.With(slog.String("component", "game")),
	}
}

// lock acquires the game's mutex and returns the matching unlock
func (c *Controller) lock(id model.GameID) func() {
	mu, _ := c.locks.LoadOrStore(id, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// Start generates a new board and opens a session on it. The clock does not
// run until the first reveal or mark.
func (c *Controller) Start(ctx context.Context, cfg model.Config) (*model.Game, error) {
	grid, hazards, err := c.board.Generate(cfg)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	game := &model.Game{
		ID:            model.GameID(uuid.NewString()),
		Config:        cfg,
		State:         model.GameStateInProgress,
		Grid:          grid,
		Hazards:       hazards,
		RemainingSafe: cfg.SafeCells(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("game started",
		slog.String("game_id", string(game.ID)),
		slog.Int("rows", cfg.Rows),
		slog.Int("cols", cfg.Cols),
		slog.Int("hazards", cfg.Hazards),
	)

	c.publish(game.ID, model.EventGameStarted, model.GameStartedPayload{
		Rows:    cfg.Rows,
		Cols:    cfg.Cols,
		Hazards: cfg.Hazards,
	})

	return game, nil
}

// Restart discards the previous game, if any, and starts a new one. The old
// tick source has fully exited before the new game exists.
func (c *Controller) Restart(ctx context.Context, previousID model.GameID, cfg model.Config) (*model.Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if previousID != "" {
		if err := c.Abandon(ctx, previousID); err != nil && !errors.Is(err, model.ErrGameNotFound) {
			return nil, err
		}
	}

	return c.Start(ctx, cfg)
}

// GetGame returns a snapshot of the game
func (c *Controller) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	game, err := c.storage.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	return game.Clone(), nil
}

// ListGames returns the ids of every live game
func (c *Controller) ListGames(ctx context.Context) ([]model.GameID, error) {
	return c.storage.ListGameIDs(ctx)
}

// Reveal opens the cell at pos. Out-of-bounds positions are rejected without
// mutation; reveals on an ended game are no-ops.
func (c *Controller) Reveal(ctx context.Context, id model.GameID, pos model.Position) (model.RevealResult, error) {
	noop := model.RevealResult{Outcome: model.RevealNoOp}

	unlock := c.lock(id)
	game, err := c.load(ctx, id, pos)
	if err != nil || !game.InProgress() {
		unlock()
		return noop, err
	}

	result := c.reveal.Reveal(game, pos)
	if result.Outcome != model.RevealNoOp {
		c.armClock(game)
		if err := c.storage.SaveGame(ctx, game); err != nil {
			unlock()
			return noop, err
		}
	}
	unlock()

	if result.Outcome == model.RevealNoOp {
		return result, nil
	}

	c.publish(id, model.EventCellsRevealed, model.CellsRevealedPayload{
		Outcome:       result.Outcome,
		Positions:     result.Revealed,
		RemainingSafe: game.RemainingSafe,
	})
	c.finish(game)

	return result, nil
}

// CycleMark advances the marker on the cell at pos. Marks on an ended game
// are no-ops.
func (c *Controller) CycleMark(ctx context.Context, id model.GameID, pos model.Position) (model.MarkResult, error) {
	unlock := c.lock(id)
	game, err := c.load(ctx, id, pos)
	if err != nil {
		unlock()
		return model.MarkResult{}, err
	}

	cell := game.Grid.At(pos)
	if !game.InProgress() {
		unlock()
		return model.MarkResult{Position: pos, Previous: cell.Status, Current: cell.Status}, nil
	}

	result, err := c.mark.Cycle(game, pos)
	if err != nil || !result.Changed {
		unlock()
		return result, err
	}

	game.UpdatedAt = c.clock.Now()
	c.armClock(game)
	if err := c.storage.SaveGame(ctx, game); err != nil {
		unlock()
		return model.MarkResult{}, err
	}
	unlock()

	c.publish(id, model.EventMarkChanged, model.MarkChangedPayload{
		Position:         pos,
		Status:           result.Current,
		FlaggedCount:     game.FlaggedCount,
		HazardsRemaining: game.HazardsRemaining(),
	})

	return result, nil
}

// Tick advances the game clock by one. Passing the time limit loses the
// game. Ticks on an ended game are no-ops.
func (c *Controller) Tick(ctx context.Context, id model.GameID) (model.TickOutcome, error) {
	unlock := c.lock(id)
	game, err := c.storage.GetGame(ctx, id)
	if err != nil || !game.InProgress() {
		unlock()
		return model.TickNoOp, err
	}

	now := c.clock.Now()
	game.Elapsed++
	game.UpdatedAt = now

	outcome := model.TickTicked
	if game.Elapsed > game.Config.TimeLimit {
		game.End(model.GameStateLost, model.EndReasonTimeLimit, now)
		c.reveal.DiscloseHazards(game)
		outcome = model.TickExpired
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		unlock()
		return model.TickNoOp, err
	}
	unlock()

	c.publish(id, model.EventTick, model.TickPayload{Elapsed: game.Elapsed})
	if outcome == model.TickExpired {
		c.logEnd(game)
		c.publishEnd(game)
	}

	return outcome, nil
}

// Abandon stops the game's clock and deletes it
func (c *Controller) Abandon(ctx context.Context, id model.GameID) error {
	if err := c.discard(ctx, id); err != nil {
		return err
	}

	c.logger.Info("game abandoned", slog.String("game_id", string(id)))
	c.publish(id, model.EventGameAbandoned, nil)
	return nil
}

// Shutdown stops every tick source
func (c *Controller) Shutdown() {
	c.timer.StopAll()
}

// load fetches a game for a player command and bounds-checks pos
func (c *Controller) load(ctx context.Context, id model.GameID, pos model.Position) (*model.Game, error) {
	game, err := c.storage.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	if !game.Grid.IsValidPosition(pos) {
		return nil, fmt.Errorf("%w: (%d, %d) on %dx%d grid",
			model.ErrOutOfBounds, pos.Row, pos.Col, game.Grid.Rows, game.Grid.Cols)
	}
	return game, nil
}

// discard removes the game, then stops its tick source. Arming needs a
// loaded game under the lock, so once the delete lands nothing can re-arm.
func (c *Controller) discard(ctx context.Context, id model.GameID) error {
	unlock := c.lock(id)
	if _, err := c.storage.GetGame(ctx, id); err != nil {
		unlock()
		return err
	}
	if err := c.storage.DeleteGame(ctx, id); err != nil {
		unlock()
		return err
	}
	c.locks.Delete(id)
	unlock()

	c.timer.Stop(id)
	return nil
}

// armClock starts the tick source on the first player command. Arming is
// idempotent, so a game loaded after a server restart gets its clock back.
func (c *Controller) armClock(game *model.Game) {
	if !game.InProgress() {
		return
	}
	game.ClockStarted = true
	c.timer.Arm(game.ID, c.onTick)
}

// onTick drives Tick from the game's tick source
func (c *Controller) onTick(ctx context.Context, id model.GameID) bool {
	outcome, err := c.Tick(ctx, id)
	if err != nil {
		if !errors.Is(err, model.ErrGameNotFound) {
			c.logger.Error("tick failed",
				slog.String("game_id", string(id)),
				slog.String("error", err.Error()),
			)
			return true
		}
		return false
	}
	return outcome == model.TickTicked
}

// finish stops the clock and announces the result once a command ends the
// game. Must be called without the game lock held.
func (c *Controller) finish(game *model.Game) {
	if !game.IsEnded() {
		return
	}
	c.timer.Stop(game.ID)
	c.logEnd(game)
	c.publishEnd(game)
}

func (c *Controller) logEnd(game *model.Game) {
	c.logger.Info("game ended",
		slog.String("game_id", string(game.ID)),
		slog.String("state", string(game.State)),
		slog.String("reason", string(game.EndReason)),
		slog.Int("elapsed", game.Elapsed),
	)
}

func (c *Controller) publishEnd(game *model.Game) {
	eventType := model.EventGameLost
	if game.State == model.GameStateWon {
		eventType = model.EventGameWon
	}
	c.publish(game.ID, eventType, model.GameEndedPayload{
		Reason:  game.EndReason,
		Elapsed: game.Elapsed,
		Hazards: game.Hazards,
	})
}

func (c *Controller) publish(id model.GameID, eventType model.EventType, payload any) {
	c.publisher.Publish(model.Event{
		Type:      eventType,
		Timestamp: c.clock.Now(),
		GameID:    id,
		Payload:   payload,
	})
}

// Interface for dependency injection
type ControllerInterface interface {
	Start(ctx context.Context, cfg model.Config) (*model.Game, error)
	Restart(ctx context.Context, previousID model.GameID, cfg model.Config) (*model.Game, error)
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	ListGames(ctx context.Context) ([]model.GameID, error)
	Reveal(ctx context.Context, id model.GameID, pos model.Position) (model.RevealResult, error)
	CycleMark(ctx context.Context, id model.GameID, pos model.Position) (model.MarkResult, error)
	Tick(ctx context.Context, id model.GameID) (model.TickOutcome, error)
	Abandon(ctx context.Context, id model.GameID) error
	Shutdown()
}

var _ ControllerInterface = (*Controller)(nil)
