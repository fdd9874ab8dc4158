package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/mcoot/minegrid/internal/api/response"
	"github.com/mcoot/minegrid/internal/api/sse"
	"github.com/mcoot/minegrid/internal/factory"
	"github.com/mcoot/minegrid/internal/model"
	"github.com/mcoot/minegrid/internal/services/game"
)

const playHelp = `Commands:
  r <row> <col>   reveal a cell
  m <row> <col>   cycle a cell's marker (flag, question, clear)
  n               start a new game
  q               quit`

func newPlayCmd() *cobra.Command {
	board := model.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game locally in the terminal",
		Long: `Play a game against an in-process engine, without a server.

` + playHelp,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := board.Validate(); err != nil {
				return err
			}

			app, err := factory.New(factory.Config{})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			session := newPlaySession(app.GameController, app.HubManager, board, cfg.Output, cmd.OutOrStdout())
			return session.run(cmd.Context(), cmd.InOrStdin())
		},
	}

	cmd.Flags().IntVar(&board.Rows, "rows", board.Rows, "Board rows")
	cmd.Flags().IntVar(&board.Cols, "cols", board.Cols, "Board columns")
	cmd.Flags().IntVar(&board.Hazards, "hazards", board.Hazards, "Hazard count")
	cmd.Flags().IntVar(&board.TimeLimit, "time-limit", board.TimeLimit, "Time limit in ticks")

	return cmd
}

// lockedWriter serializes writes from the command loop and the clock watcher
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// playSession runs one interactive terminal game at a time
type playSession struct {
	games  game.ControllerInterface
	hubs   *sse.HubManager
	board  model.Config
	format string
	out    *Output
	id     model.GameID
}

func newPlaySession(games game.ControllerInterface, hubs *sse.HubManager, board model.Config, format string, w io.Writer) *playSession {
	return &playSession{
		games:  games,
		hubs:   hubs,
		board:  board,
		format: format,
		out:    NewOutput(format, &lockedWriter{w: w}),
	}
}

func (p *playSession) run(ctx context.Context, in io.Reader) error {
	if err := p.start(ctx); err != nil {
		return err
	}
	defer func() { _ = p.games.Abandon(context.Background(), p.id) }()

	p.message(playHelp)
	p.prompt()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		quit, err := p.handle(ctx, strings.Fields(scanner.Text()))
		if err != nil {
			if !isPlayerError(err) {
				return err
			}
			p.out.PrintError(err)
		}
		if quit {
			return nil
		}
		p.prompt()
	}

	return scanner.Err()
}

// handle runs one command line and reports whether the session should end
func (p *playSession) handle(ctx context.Context, fields []string) (bool, error) {
	if len(fields) == 0 {
		return false, nil
	}

	switch strings.ToLower(fields[0]) {
	case "q", "quit":
		return true, nil
	case "h", "help", "?":
		p.message(playHelp)
		return false, nil
	case "n", "new":
		return false, p.restart(ctx)
	case "r", "reveal":
		pos, err := parsePosition(fields[1:])
		if err != nil {
			return false, err
		}
		return false, p.reveal(ctx, pos)
	case "m", "mark":
		pos, err := parsePosition(fields[1:])
		if err != nil {
			return false, err
		}
		return false, p.mark(ctx, pos)
	}

	return false, fmt.Errorf("%w: unknown command %q", errBadCommand, fields[0])
}

func (p *playSession) start(ctx context.Context) error {
	g, err := p.games.Start(ctx, p.board)
	if err != nil {
		return err
	}
	p.attach(g.ID)
	p.out.Print(response.GameFromModel(g))
	return nil
}

func (p *playSession) restart(ctx context.Context) error {
	g, err := p.games.Restart(ctx, p.id, p.board)
	if err != nil {
		return err
	}
	p.attach(g.ID)
	p.out.Print(response.GameFromModel(g))
	return nil
}

func (p *playSession) reveal(ctx context.Context, pos model.Position) error {
	result, err := p.games.Reveal(ctx, p.id, pos)
	if err != nil {
		return err
	}
	g, err := p.games.GetGame(ctx, p.id)
	if err != nil {
		return err
	}

	p.out.Print(response.RevealResponse{
		Outcome:  string(result.Outcome),
		Revealed: response.PositionsFromModel(result.Revealed),
		Game:     response.GameFromModel(g),
	})
	p.announceEnd(g)
	return nil
}

func (p *playSession) mark(ctx context.Context, pos model.Position) error {
	result, err := p.games.CycleMark(ctx, p.id, pos)
	if err != nil {
		return err
	}
	g, err := p.games.GetGame(ctx, p.id)
	if err != nil {
		return err
	}

	resp := response.MarkResponse{
		Previous: string(result.Previous),
		Status:   string(result.Current),
		Changed:  result.Changed,
		Game:     response.GameFromModel(g),
	}
	p.out.Print(resp)
	if p.format != "json" {
		p.out.printBoard(resp.Game.Cells)
	}
	return nil
}

func (p *playSession) announceEnd(g *model.Game) {
	switch g.State {
	case model.GameStateWon:
		p.message(fmt.Sprintf("You won in %d ticks! 'n' for a new game, 'q' to quit.", g.Elapsed))
	case model.GameStateLost:
		p.message("Game over. 'n' for a new game, 'q' to quit.")
	}
}

// attach makes id the current game and watches its event stream for the
// clock running out between commands
func (p *playSession) attach(id model.GameID) {
	p.id = id

	hub := p.hubs.GetOrCreateHub(id)
	client := sse.NewClient(hub)
	if !hub.Register(client) {
		return
	}

	go func() {
		for msg := range client.Messages() {
			_ = readEvents(bytes.NewReader(msg), p.onEvent)
		}
	}()
}

func (p *playSession) onEvent(event, data string) {
	if event != string(model.EventGameLost) {
		return
	}

	var evt struct {
		Payload response.GameEndedPayload `json:"payload"`
	}
	if err := json.Unmarshal([]byte(data), &evt); err != nil {
		return
	}
	if evt.Payload.Reason == string(model.EndReasonTimeLimit) {
		p.message("\nTime's up! 'n' for a new game, 'q' to quit.")
	}
}

func (p *playSession) message(msg string) {
	if p.format == "json" {
		return
	}
	p.out.PrintMessage(msg)
}

func (p *playSession) prompt() {
	if p.format == "json" {
		return
	}
	p.out.printf("> ")
}

var errBadCommand = errors.New("invalid command")

// isPlayerError reports whether err came from a bad command rather than a
// broken session
func isPlayerError(err error) bool {
	return errors.Is(err, errBadCommand) || errors.Is(err, model.ErrOutOfBounds)
}

func parsePosition(args []string) (model.Position, error) {
	if len(args) != 2 {
		return model.Position{}, fmt.Errorf("%w: expected <row> <col>", errBadCommand)
	}

	row, err := strconv.Atoi(args[0])
	if err != nil {
		return model.Position{}, fmt.Errorf("%w: invalid row %q", errBadCommand, args[0])
	}

	col, err := strconv.Atoi(args[1])
	if err != nil {
		return model.Position{}, fmt.Errorf("%w: invalid col %q", errBadCommand, args[1])
	}

	return model.Position{Row: row, Col: col}, nil
}
