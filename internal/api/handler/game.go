package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/minegrid/internal/api/apierr"
	"github.com/mcoot/minegrid/internal/api/request"
	"github.com/mcoot/minegrid/internal/api/response"
	"github.com/mcoot/minegrid/internal/api/sse"
	"github.com/mcoot/minegrid/internal/model"
	"github.com/mcoot/minegrid/internal/services/game"
)

// GameHandler handles game endpoints
type GameHandler struct {
	gameController game.ControllerInterface
	hubManager     *sse.HubManager
	defaults       model.Config
	logger         *slog.Logger
}

// NewGameHandler creates a new game handler. defaults fills any board
// parameter a create or restart request omits.
func NewGameHandler(
	gameController game.ControllerInterface,
	hubManager *sse.HubManager,
	defaults model.Config,
	logger *slog.Logger,
) *GameHandler {
	return &GameHandler{
		gameController: gameController,
		hubManager:     hubManager,
		defaults:       defaults,
		logger:         logger,
	}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.decodeConfig(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	g, err := h.gameController.Start(r.Context(), cfg)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(g))
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	ids, err := h.gameController.ListGames(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	games := make([]string, len(ids))
	for i, id := range ids {
		games[i] = string(id)
	}
	response.JSON(w, http.StatusOK, response.GameList{Games: games})
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.gameController.GetGame(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Abandon handles DELETE /api/v1/games/{id}
func (h *GameHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	if err := h.gameController.Abandon(r.Context(), gameID(r)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Restart handles POST /api/v1/games/{id}/restart
func (h *GameHandler) Restart(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.decodeConfig(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	g, err := h.gameController.Restart(r.Context(), gameID(r), cfg)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(g))
}

// Reveal handles POST /api/v1/games/{id}/reveal
func (h *GameHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	id := gameID(r)
	pos, err := decodePosition(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.gameController.Reveal(r.Context(), id, pos)
	if err != nil {
		WriteError(w, err)
		return
	}

	g, err := h.gameController.GetGame(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RevealResponse{
		Outcome:  string(result.Outcome),
		Revealed: response.PositionsFromModel(result.Revealed),
		Game:     response.GameFromModel(g),
	})
}

// Mark handles POST /api/v1/games/{id}/mark
func (h *GameHandler) Mark(w http.ResponseWriter, r *http.Request) {
	id := gameID(r)
	pos, err := decodePosition(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.gameController.CycleMark(r.Context(), id, pos)
	if err != nil {
		WriteError(w, err)
		return
	}

	g, err := h.gameController.GetGame(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MarkResponse{
		Previous: string(result.Previous),
		Status:   string(result.Current),
		Changed:  result.Changed,
		Game:     response.GameFromModel(g),
	})
}

// Events handles GET /api/v1/games/{id}/events
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	id := gameID(r)

	// The game is checked after the hub exists. A game that ends or goes
	// away later publishes its final event to this hub and closes it.
	hub := h.hubManager.GetOrCreateHub(id)
	g, err := h.gameController.GetGame(r.Context(), id)
	if err != nil {
		h.hubManager.RemoveHub(id)
		WriteError(w, err)
		return
	}
	if !g.InProgress() {
		h.hubManager.RemoveHub(id)
		WriteError(w, apierr.NewGameEndedError())
		return
	}

	h.logger.Debug("sse stream opened", slog.String("game_id", string(id)))
	sse.ServeSSE(w, r, hub, id)

	// A game that expired from storage never publishes a final event
	if _, err := h.gameController.GetGame(context.WithoutCancel(r.Context()), id); errors.Is(err, model.ErrGameNotFound) {
		h.hubManager.RemoveHub(id)
	}
}

func gameID(r *http.Request) model.GameID {
	return model.GameID(mux.Vars(r)["id"])
}

// decodeConfig reads an optional board configuration body
func (h *GameHandler) decodeConfig(r *http.Request) (model.Config, error) {
	var req request.GameConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return model.Config{}, NewInvalidRequestError("Invalid request body")
	}
	return req.Config(h.defaults), nil
}

func decodePosition(r *http.Request) (model.Position, error) {
	var req request.CellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return model.Position{}, NewInvalidRequestError("Invalid request body")
	}
	pos, ok := req.Position()
	if !ok {
		return model.Position{}, NewInvalidRequestError("row and col are required")
	}
	return pos, nil
}
