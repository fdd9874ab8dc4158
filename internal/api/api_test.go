package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/minegrid/internal/api"
	"github.com/mcoot/minegrid/internal/api/apierr"
	"github.com/mcoot/minegrid/internal/api/response"
	"github.com/mcoot/minegrid/internal/factory"
	"github.com/mcoot/minegrid/internal/model"
	"github.com/mcoot/minegrid/internal/services/game"
	"github.com/mcoot/minegrid/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	t.Cleanup(func() { _ = app.Close() })

	router := api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		GameController: app.GameController,
		HubManager:     app.HubManager,
		Defaults:       model.Config{Rows: 3, Cols: 3, Hazards: 1, TimeLimit: 999},
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// createGame starts a 3x3 game with its hazard at (0,0)
func (ts *testServer) createGame(t *testing.T) response.Game {
	t.Helper()

	ts.app.QueueHazards(3, [2]int{0, 0})
	rr := ts.request(http.MethodPost, "/api/v1/games", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var g response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &g))
	return g
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apierr.APIError {
	t.Helper()

	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestCreateGameWithDefaults(t *testing.T) {
	ts := newTestServer(t)

	g := ts.createGame(t)

	assert.NotEmpty(t, g.ID)
	assert.Equal(t, "in_progress", g.State)
	assert.Equal(t, response.Config{Rows: 3, Cols: 3, Hazards: 1, TimeLimit: 999}, g.Config)
	assert.Equal(t, 8, g.RemainingSafe)
	assert.Equal(t, 1, g.HazardsRemaining)
	assert.False(t, g.ClockStarted)
	require.Len(t, g.Cells, 3)
	assert.Len(t, g.Cells[0], 3)
}

func TestCreateGamePartialBody(t *testing.T) {
	ts := newTestServer(t)

	ts.app.QueueHazards(5, [2]int{0, 0}, [2]int{4, 4})
	rr := ts.request(http.MethodPost, "/api/v1/games", map[string]int{"cols": 5, "rows": 5, "hazards": 2})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var g response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &g))
	assert.Equal(t, 5, g.Config.Cols)
	assert.Equal(t, 2, g.Config.Hazards)
	assert.Equal(t, 999, g.Config.TimeLimit)
	assert.Equal(t, 23, g.RemainingSafe)
}

func TestCreateGameInvalidConfig(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/games", map[string]int{"hazards": 9})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidConfiguration, decodeError(t, rr).Code)
}

func TestCreateGameMalformedBody(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/games", bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, decodeError(t, rr).Code)
}

func TestGetGame(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createGame(t)

	rr := ts.request(http.MethodGet, "/api/v1/games/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))

	var g response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &g))
	assert.Equal(t, created.ID, g.ID)
}

func TestGetUnknownGame(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/games/nope", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeGameNotFound, decodeError(t, rr).Code)
}

func TestHiddenCellsDoNotLeakHazards(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createGame(t)

	rr := ts.request(http.MethodGet, "/api/v1/games/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), `"hazard"`)
	assert.NotContains(t, rr.Body.String(), `"adjacent"`)
}

func TestRevealCell(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createGame(t)

	rr := ts.request(http.MethodPost, "/api/v1/games/"+created.ID+"/reveal", map[string]int{"row": 0, "col": 1})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp response.RevealResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, string(model.RevealSafe), resp.Outcome)
	assert.Equal(t, []response.Position{{Row: 0, Col: 1}}, resp.Revealed)
	assert.True(t, resp.Game.ClockStarted)
	assert.Equal(t, 7, resp.Game.RemainingSafe)

	cell := resp.Game.Cells[0][1]
	assert.Equal(t, "revealed", cell.Status)
	require.NotNil(t, cell.Hazard)
	assert.False(t, *cell.Hazard)
	require.NotNil(t, cell.Adjacent)
	assert.Equal(t, 1, *cell.Adjacent)

	assert.Nil(t, resp.Game.Cells[0][0].Hazard)
}

func TestRevealWinDisclosesBoard(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createGame(t)

	rr := ts.request(http.MethodPost, "/api/v1/games/"+created.ID+"/reveal", map[string]int{"row": 2, "col": 2})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp response.RevealResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, string(model.RevealWin), resp.Outcome)
	assert.Len(t, resp.Revealed, 8)
	assert.Equal(t, "won", resp.Game.State)
	assert.Equal(t, "cleared", resp.Game.EndReason)
	assert.NotNil(t, resp.Game.EndedAt)

	hazard := resp.Game.Cells[0][0]
	require.NotNil(t, hazard.Hazard)
	assert.True(t, *hazard.Hazard)
}

func TestRevealHazardLoses(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createGame(t)

	rr := ts.request(http.MethodPost, "/api/v1/games/"+created.ID+"/reveal", map[string]int{"row": 0, "col": 0})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.RevealResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, string(model.RevealHazard), resp.Outcome)
	assert.Equal(t, "lost", resp.Game.State)
	assert.Equal(t, "hazard_revealed", resp.Game.Cells[0][0].Status)

	// Commands after the end are no-ops
	rr = ts.request(http.MethodPost, "/api/v1/games/"+created.ID+"/reveal", map[string]int{"row": 2, "col": 2})
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, string(model.RevealNoOp), resp.Outcome)
	assert.Empty(t, resp.Revealed)
}

func TestRevealOutOfBounds(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createGame(t)

	rr := ts.request(http.MethodPost, "/api/v1/games/"+created.ID+"/reveal", map[string]int{"row": 3, "col": 0})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeOutOfBounds, decodeError(t, rr).Code)
}

func TestRevealMissingCoordinate(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createGame(t)

	rr := ts.request(http.MethodPost, "/api/v1/games/"+created.ID+"/reveal", map[string]int{"col": 1})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, decodeError(t, rr).Code)
}

func TestRevealUnknownGame(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/games/nope/reveal", map[string]int{"row": 0, "col": 0})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMarkCycle(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createGame(t)
	path := "/api/v1/games/" + created.ID + "/mark"

	expected := []struct {
		previous string
		status   string
		flagged  int
	}{
		{"hidden", "flagged", 1},
		{"flagged", "questioned", 0},
		{"questioned", "hidden", 0},
	}

	for _, exp := range expected {
		rr := ts.request(http.MethodPost, path, map[string]int{"row": 1, "col": 1})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var resp response.MarkResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, exp.previous, resp.Previous)
		assert.Equal(t, exp.status, resp.Status)
		assert.True(t, resp.Changed)
		assert.Equal(t, exp.flagged, resp.Game.FlaggedCount)
		assert.Equal(t, exp.status, resp.Game.Cells[1][1].Status)
	}
}

func TestMarkRevealedCellUnchanged(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createGame(t)

	rr := ts.request(http.MethodPost, "/api/v1/games/"+created.ID+"/reveal", map[string]int{"row": 0, "col": 1})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/games/"+created.ID+"/mark", map[string]int{"row": 0, "col": 1})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.MarkResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Changed)
	assert.Equal(t, "revealed", resp.Status)
}

func TestMarkOutOfBounds(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createGame(t)

	rr := ts.request(http.MethodPost, "/api/v1/games/"+created.ID+"/mark", map[string]int{"row": -1, "col": 0})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeOutOfBounds, decodeError(t, rr).Code)
}

func TestRestartGame(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createGame(t)

	ts.app.QueueHazards(3, [2]int{2, 2})
	rr := ts.request(http.MethodPost, "/api/v1/games/"+created.ID+"/restart", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var g response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &g))
	assert.NotEqual(t, created.ID, g.ID)
	assert.Equal(t, "in_progress", g.State)

	rr = ts.request(http.MethodGet, "/api/v1/games/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRestartInvalidConfigKeepsGame(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createGame(t)

	rr := ts.request(http.MethodPost, "/api/v1/games/"+created.ID+"/restart", map[string]int{"rows": 0})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/games/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAbandonGame(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createGame(t)

	rr := ts.request(http.MethodDelete, "/api/v1/games/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/games/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request(http.MethodDelete, "/api/v1/games/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListGames(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/games", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var list response.GameList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Empty(t, list.Games)

	first := ts.createGame(t)
	second := ts.createGame(t)

	rr = ts.request(http.MethodGet, "/api/v1/games", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.ElementsMatch(t, []string{first.ID, second.ID}, list.Games)
}

func TestEventsUnknownGame(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/games/nope/events", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, 0, ts.app.HubManager.HubCount())
}

func TestEventsEndedGame(t *testing.T) {
	ts := newTestServer(t)
	created := ts.createGame(t)

	rr := ts.request(http.MethodPost, "/api/v1/games/"+created.ID+"/reveal", map[string]int{"row": 0, "col": 0})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/games/"+created.ID+"/events", nil)
	assert.Equal(t, http.StatusGone, rr.Code)
	assert.Equal(t, apierr.CodeGameEnded, decodeError(t, rr).Code)
	assert.Equal(t, 0, ts.app.HubManager.HubCount())
}

// abandoningController abandons the game the first time it is looked up,
// after handing back the live snapshot
type abandoningController struct {
	game.ControllerInterface
	once sync.Once
}

func (c *abandoningController) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	g, err := c.ControllerInterface.GetGame(ctx, id)
	c.once.Do(func() {
		_ = c.ControllerInterface.Abandon(ctx, id)
	})
	return g, err
}

func TestEventsForGameAbandonedWhileOpening(t *testing.T) {
	app := factory.NewTestApp()
	t.Cleanup(func() { _ = app.Close() })

	router := api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		GameController: &abandoningController{ControllerInterface: app.GameController},
		HubManager:     app.HubManager,
		Defaults:       model.Config{Rows: 3, Cols: 3, Hazards: 1, TimeLimit: 999},
	})
	ts := &testServer{handler: router, app: app}
	created := ts.createGame(t)

	// The abandon closes the hub the request just created, so the stream
	// ends at once and leaves nothing behind
	ts.request(http.MethodGet, "/api/v1/games/"+created.ID+"/events", nil)

	assert.Equal(t, 0, app.HubManager.HubCount())
	_, err := app.GameController.GetGame(context.Background(), model.GameID(created.ID))
	assert.ErrorIs(t, err, model.ErrGameNotFound)
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPut, "/api/v1/games", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
