package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/mcoot/minegrid/internal/api/response"
	"github.com/mcoot/minegrid/internal/model"
	"github.com/mcoot/minegrid/internal/services/game"
)

// Publisher forwards game events to the game's hub as JSON
type Publisher struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewPublisher creates a new Publisher
func NewPublisher(hubManager *HubManager, logger *slog.Logger) *Publisher {
	return &Publisher{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-publisher")),
	}
}

var _ game.EventPublisher = (*Publisher)(nil)

// Publish sends the event to anyone watching the game. The hub is closed
// once a game's final event is queued.
func (p *Publisher) Publish(event model.Event) {
	hub := p.hubManager.GetHub(event.GameID)
	if hub == nil {
		return
	}

	data, err := json.Marshal(response.EventFromModel(event))
	if err != nil {
		p.logger.Error("sse failed to encode event",
			slog.String("game_id", string(event.GameID)),
			slog.String("type", string(event.Type)),
			slog.Any("error", err))
		return
	}
	hub.BroadcastEvent(string(event.Type), string(data))

	if event.Type.Final() {
		p.hubManager.RemoveHub(event.GameID)
	}
}
