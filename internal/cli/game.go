package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/minegrid/internal/api/response"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameNewCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameRevealCmd())
	cmd.AddCommand(newGameMarkCmd())
	cmd.AddCommand(newGameRestartCmd())
	cmd.AddCommand(newGameAbandonCmd())

	return cmd
}

// boardFlags collects the optional board configuration flags shared by
// new and restart
type boardFlags struct {
	rows, cols, hazards, timeLimit int
}

func (f *boardFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.rows, "rows", 0, "Board rows (server default if unset)")
	cmd.Flags().IntVar(&f.cols, "cols", 0, "Board columns (server default if unset)")
	cmd.Flags().IntVar(&f.hazards, "hazards", 0, "Hazard count (server default if unset)")
	cmd.Flags().IntVar(&f.timeLimit, "time-limit", 0, "Time limit in ticks (server default if unset)")
}

// body returns only the flags the user set, so the server fills the rest
func (f *boardFlags) body(cmd *cobra.Command) map[string]int {
	body := map[string]int{}
	set := func(flag, key string, val int) {
		if cmd.Flags().Changed(flag) {
			body[key] = val
		}
	}
	set("rows", "rows", f.rows)
	set("cols", "cols", f.cols)
	set("hazards", "hazards", f.hazards)
	set("time-limit", "time_limit", f.timeLimit)
	return body
}

func newGameNewCmd() *cobra.Command {
	var flags boardFlags

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new game and make it the current game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game

			if err := client.Post("/api/v1/games", flags.body(cmd), &result); err != nil {
				return err
			}

			if err := cfg.SaveGame(result.ID); err != nil {
				return fmt.Errorf("failed to save game id: %w", err)
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Get the state of a game",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cfg.ResolveGame(args)
			if err != nil {
				return err
			}

			var result response.Game

			if err := client.Get("/api/v1/games/"+id, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newGameListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List live games on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.GameList

			if err := client.Get("/api/v1/games", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

// parseCell reads a row and column pair from positional arguments
func parseCell(args []string) (map[string]int, error) {
	row, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("invalid row: %w", err)
	}

	col, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, fmt.Errorf("invalid col: %w", err)
	}

	return map[string]int{"row": row, "col": col}, nil
}

func newGameRevealCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reveal <row> <col>",
		Short: "Reveal a cell in the current game",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cfg.ResolveGame(nil)
			if err != nil {
				return err
			}

			req, err := parseCell(args)
			if err != nil {
				return err
			}

			var result response.RevealResponse

			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/reveal", id), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newGameMarkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mark <row> <col>",
		Short: "Cycle the marker on a cell (hidden, flagged, questioned)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cfg.ResolveGame(nil)
			if err != nil {
				return err
			}

			req, err := parseCell(args)
			if err != nil {
				return err
			}

			var result response.MarkResponse

			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/mark", id), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newGameRestartCmd() *cobra.Command {
	var flags boardFlags

	cmd := &cobra.Command{
		Use:   "restart [id]",
		Short: "Discard a game and start a fresh one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cfg.ResolveGame(args)
			if err != nil {
				return err
			}

			var result response.Game

			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/restart", id), flags.body(cmd), &result); err != nil {
				return err
			}

			if err := cfg.SaveGame(result.ID); err != nil {
				return fmt.Errorf("failed to save game id: %w", err)
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newGameAbandonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "abandon [id]",
		Short: "Abandon a game",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cfg.ResolveGame(args)
			if err != nil {
				return err
			}

			if err := client.Delete("/api/v1/games/" + id); err != nil {
				return err
			}

			if err := cfg.ClearGame(id); err != nil {
				return fmt.Errorf("failed to clear game id: %w", err)
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.PrintMessage("Game abandoned")
			return nil
		},
	}
}
