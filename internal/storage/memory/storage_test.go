package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/minegrid/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func newGame(id model.GameID) *model.Game {
	return &model.Game{
		ID:            id,
		Config:        model.Config{Rows: 2, Cols: 2, Hazards: 1, TimeLimit: 999},
		State:         model.GameStateInProgress,
		Grid:          model.NewGrid(2, 2),
		Hazards:       []model.Position{{Row: 0, Col: 0}},
		RemainingSafe: 3,
		CreatedAt:     time.Now(),
	}
}

func (s *StorageSuite) TestSaveAndGetGame() {
	game := newGame("game-1")

	err := s.storage.SaveGame(s.ctx, game)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(game, retrieved)
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestDeleteGame() {
	_ = s.storage.SaveGame(s.ctx, newGame("game-1"))

	err := s.storage.DeleteGame(s.ctx, "game-1")
	s.Require().NoError(err)

	_, err = s.storage.GetGame(s.ctx, "game-1")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestDeleteMissingGame() {
	s.NoError(s.storage.DeleteGame(s.ctx, "nonexistent"))
}

func (s *StorageSuite) TestSavedGameIsIsolated() {
	game := newGame("game-1")
	_ = s.storage.SaveGame(s.ctx, game)

	// Mutating the caller's copy does not change what is stored
	game.Grid.At(model.Position{Row: 1, Col: 1}).Status = model.CellRevealed
	game.RemainingSafe = 2

	retrieved, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(model.CellHidden, retrieved.Grid.At(model.Position{Row: 1, Col: 1}).Status)
	s.Equal(3, retrieved.RemainingSafe)

	// Nor does mutating a retrieved copy
	retrieved.State = model.GameStateLost
	again, _ := s.storage.GetGame(s.ctx, "game-1")
	s.Equal(model.GameStateInProgress, again.State)
}

func (s *StorageSuite) TestListGameIDs() {
	_ = s.storage.SaveGame(s.ctx, newGame("b"))
	_ = s.storage.SaveGame(s.ctx, newGame("a"))

	ids, err := s.storage.ListGameIDs(s.ctx)
	s.Require().NoError(err)
	s.Equal([]model.GameID{"a", "b"}, ids)
}
