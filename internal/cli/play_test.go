package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/minegrid/internal/factory"
	"github.com/mcoot/minegrid/internal/model"
)

var smallBoard = model.Config{Rows: 3, Cols: 3, Hazards: 1, TimeLimit: 999}

func runPlay(t *testing.T, app *factory.TestApp, format, script string) string {
	t.Helper()

	var buf bytes.Buffer
	session := newPlaySession(app.GameController, app.HubManager, smallBoard, format, &buf)
	require.NoError(t, session.run(context.Background(), strings.NewReader(script)))
	return buf.String()
}

func TestPlayWin(t *testing.T) {
	app := factory.NewTestApp()
	defer func() { _ = app.Close() }()
	app.QueueHazards(3, [2]int{0, 0})

	out := runPlay(t, app, "text", "r 0 1\nm 0 0\nr 2 2\nq\n")

	assert.Contains(t, out, "Revealed 1 cell(s)")
	assert.Contains(t, out, "Marked hidden -> flagged")
	assert.Contains(t, out, "Revealed 7 cell(s). Board cleared!")
	assert.Contains(t, out, "You won in 0 ticks!")
	assert.Contains(t, out, "State: won (cleared)")
}

func TestPlayLoseAndStartOver(t *testing.T) {
	app := factory.NewTestApp()
	defer func() { _ = app.Close() }()
	app.QueueHazards(3, [2]int{0, 0})
	app.QueueHazards(3, [2]int{2, 2})

	out := runPlay(t, app, "text", "r 0 0\nr 1 1\nn\nr 0 0\nq\n")

	assert.Contains(t, out, "Hazard! Game over")
	assert.Contains(t, out, "Nothing to reveal")
	assert.Contains(t, out, "State: in_progress")

	ids, err := app.GameController.ListGames(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids, "quitting abandons the current game")
}

func TestPlayBadCommandsKeepSessionAlive(t *testing.T) {
	app := factory.NewTestApp()
	defer func() { _ = app.Close() }()
	app.QueueHazards(3, [2]int{0, 0})

	out := runPlay(t, app, "text", "dance\nr 1\nr a b\nr 5 5\n\nh\nr 0 1\n")

	assert.Contains(t, out, `unknown command "dance"`)
	assert.Contains(t, out, "expected <row> <col>")
	assert.Contains(t, out, `invalid row "a"`)
	assert.Contains(t, out, "position is outside the grid")
	assert.Contains(t, out, "Revealed 1 cell(s)")
}

func TestPlayJSONOutput(t *testing.T) {
	app := factory.NewTestApp()
	defer func() { _ = app.Close() }()
	app.QueueHazards(3, [2]int{0, 0})

	out := runPlay(t, app, "json", "r 0 1\nq\n")

	assert.NotContains(t, out, "> ")
	assert.Contains(t, out, `"outcome": "revealed_safe"`)
}

func TestPlayEndOfInputAbandons(t *testing.T) {
	app := factory.NewTestApp()
	defer func() { _ = app.Close() }()
	app.QueueHazards(3, [2]int{0, 0})

	runPlay(t, app, "text", "")

	ids, err := app.GameController.ListGames(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestPlayTimeLimitNotice(t *testing.T) {
	session := newPlaySession(nil, nil, smallBoard, "text", &bytes.Buffer{})
	var buf bytes.Buffer
	session.out = NewOutput("text", &buf)

	session.onEvent("tick", `{"payload":{"elapsed":3}}`)
	session.onEvent("game_lost", `{"payload":{"reason":"hazard"}}`)
	assert.Empty(t, buf.String())

	session.onEvent("game_lost", `{"payload":{"reason":"time_limit","elapsed":1000}}`)
	assert.Contains(t, buf.String(), "Time's up!")
}
