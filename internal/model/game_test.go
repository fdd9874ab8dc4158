package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHazardsRemaining(t *testing.T) {
	g := &Game{Config: Config{Hazards: 3}}

	assert.Equal(t, 3, g.HazardsRemaining())

	g.FlaggedCount = 2
	assert.Equal(t, 1, g.HazardsRemaining())

	g.FlaggedCount = 5
	assert.Equal(t, 0, g.HazardsRemaining())
}

func TestGameEnd(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	g := &Game{State: GameStateInProgress}

	assert.True(t, g.InProgress())
	assert.False(t, g.IsEnded())

	g.End(GameStateLost, EndReasonTimeLimit, at)

	assert.False(t, g.InProgress())
	assert.True(t, g.IsEnded())
	assert.Equal(t, EndReasonTimeLimit, g.EndReason)
	assert.Equal(t, at, g.EndedAt)
}

func TestGameCloneIsDeep(t *testing.T) {
	g := &Game{
		ID:      "game-1",
		Grid:    NewGrid(2, 2),
		Hazards: []Position{{Row: 0, Col: 0}},
	}

	clone := g.Clone()
	clone.Hazards[0] = Position{Row: 1, Col: 1}
	clone.Grid.At(Position{Row: 1, Col: 1}).Status = CellFlagged

	assert.Equal(t, Position{Row: 0, Col: 0}, g.Hazards[0])
	assert.Equal(t, CellHidden, g.Grid.At(Position{Row: 1, Col: 1}).Status)
	assert.Equal(t, GameID("game-1"), clone.ID)
}

func TestEventTypeFinal(t *testing.T) {
	tests := []struct {
		eventType EventType
		final     bool
	}{
		{EventGameStarted, false},
		{EventCellsRevealed, false},
		{EventMarkChanged, false},
		{EventTick, false},
		{EventGameWon, true},
		{EventGameLost, true},
		{EventGameAbandoned, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			assert.Equal(t, tt.final, tt.eventType.Final())
		})
	}
}
