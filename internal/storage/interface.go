package storage

import (
	"context"

	"github.com/mcoot/minegrid/internal/model"
)

// Storage defines the interface for live game sessions
type Storage interface {
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) error
	ListGameIDs(ctx context.Context) ([]model.GameID, error)
}
