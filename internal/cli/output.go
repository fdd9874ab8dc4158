package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mcoot/minegrid/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintf(o.w, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Game:
		o.printGame(v)
	case response.GameList:
		o.printGameList(v)
	case response.RevealResponse:
		o.printReveal(v)
	case response.MarkResponse:
		o.printMark(v)
	case response.Health:
		o.printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) printGame(g response.Game) {
	o.printf("Game: %s\n", g.ID)
	state := g.State
	if g.EndReason != "" {
		state += " (" + g.EndReason + ")"
	}
	o.printf("State: %s\n", state)
	o.printf("Board: %dx%d, %d hazards\n", g.Config.Rows, g.Config.Cols, g.Config.Hazards)
	o.printf("Hazards remaining: %d\n", g.HazardsRemaining)
	o.printf("Time: %d/%d\n", g.Elapsed, g.Config.TimeLimit)
	o.printf("\n")
	o.printBoard(g.Cells)
}

func (o *Output) printGameList(l response.GameList) {
	if len(l.Games) == 0 {
		o.printf("No games\n")
		return
	}
	for _, id := range l.Games {
		o.printf("%s\n", id)
	}
}

func (o *Output) printReveal(r response.RevealResponse) {
	switch r.Outcome {
	case "noop":
		o.printf("Nothing to reveal\n")
	case "revealed_safe":
		o.printf("Revealed %d cell(s)\n", len(r.Revealed))
	case "revealed_hazard":
		o.printf("Hazard! Game over\n")
	case "win":
		o.printf("Revealed %d cell(s). Board cleared!\n", len(r.Revealed))
	}
	o.printf("\n")
	o.printGame(r.Game)
}

func (o *Output) printMark(m response.MarkResponse) {
	if m.Changed {
		o.printf("Marked %s -> %s\n", m.Previous, m.Status)
	} else {
		o.printf("Cell is %s, marker unchanged\n", m.Status)
	}
	o.printf("Hazards remaining: %d\n", m.Game.HazardsRemaining)
}

func (o *Output) printBoard(cells [][]response.Cell) {
	if len(cells) == 0 {
		return
	}
	rows, cols := len(cells), len(cells[0])
	border := "    +" + strings.Repeat("---", cols) + "+\n"

	// Column headers
	o.printf("      ")
	for col := 0; col < cols; col++ {
		o.printf("%-3d", col)
	}
	o.printf("\n")
	o.printf("%s", border)

	for row := 0; row < rows; row++ {
		o.printf("%3d |", row)
		for col := 0; col < cols; col++ {
			o.printf(" %s ", cellGlyph(cells[row][col]))
		}
		o.printf("|\n")
	}

	o.printf("%s", border)
}

// cellGlyph returns the single-character rendering of a cell
func cellGlyph(c response.Cell) string {
	switch c.Status {
	case "flagged":
		if c.Hazard != nil && !*c.Hazard {
			return "x" // Wrong flag, visible once the game ends
		}
		return "F"
	case "questioned":
		return "?"
	case "hazard_revealed":
		return "X"
	case "revealed":
		if c.Adjacent == nil || *c.Adjacent == 0 {
			return " "
		}
		return strconv.Itoa(*c.Adjacent)
	}
	if c.Hazard != nil && *c.Hazard {
		return "*"
	}
	return "."
}
