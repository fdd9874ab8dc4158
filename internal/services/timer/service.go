package timer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/minegrid/internal/dependencies/clock"
	"github.com/mcoot/minegrid/internal/model"
)

// DefaultPeriod is the wall-clock length of one tick
const DefaultPeriod = time.Second

// TickFunc is called once per tick. Returning false stops the source.
type TickFunc func(ctx context.Context, id model.GameID) (running bool)

// Service runs one tick source per game
type Service struct {
	clock  clock.Clock
	period time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	sources map[model.GameID]*source
}

type source struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a new timer Service
func New(clock clock.Clock, period time.Duration, logger *slog.Logger) *Service {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Service{
		clock:   clock,
		period:  period,
		logger:  logger.With(slog.String("component", "timer")),
		sources: make(map[model.GameID]*source),
	}
}

// Arm starts the tick source for a game. It returns false if the game
// already has one.
func (s *Service) Arm(id model.GameID, fn TickFunc) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sources[id]; ok {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	src := &source{cancel: cancel, done: make(chan struct{})}
	s.sources[id] = src

	// Created before returning so the first tick is never missed
	ticker := s.clock.NewTicker(s.period)
	go s.run(ctx, id, ticker, src, fn)

	s.logger.Debug("tick source armed",
		slog.String("game_id", string(id)),
		slog.Duration("period", s.period),
	)
	return true
}

func (s *Service) run(ctx context.Context, id model.GameID, ticker clock.Ticker, src *source, fn TickFunc) {
	defer close(src.done)
	defer s.forget(id, src)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if !fn(ctx, id) {
				s.logger.Debug("tick source finished", slog.String("game_id", string(id)))
				return
			}
		}
	}
}

// forget removes src if it is still the registered source for id
func (s *Service) forget(id model.GameID, src *source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sources[id] == src {
		delete(s.sources, id)
	}
}

// Stop cancels the game's tick source and waits for it to exit.
// It must not be called from inside a TickFunc.
func (s *Service) Stop(id model.GameID) {
	s.mu.Lock()
	src, ok := s.sources[id]
	if ok {
		delete(s.sources, id)
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	src.cancel()
	<-src.done

	s.logger.Debug("tick source stopped", slog.String("game_id", string(id)))
}

// StopAll stops every tick source
func (s *Service) StopAll() {
	s.mu.Lock()
	ids := make([]model.GameID, 0, len(s.sources))
	for id := range s.sources {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		s.Stop(id)
	}
}

// Active reports whether the game has a running tick source
func (s *Service) Active(id model.GameID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sources[id]
	return ok
}

// Interface for dependency injection
type ServiceInterface interface {
	Arm(id model.GameID, fn TickFunc) bool
	Stop(id model.GameID)
	StopAll()
	Active(id model.GameID) bool
}

var _ ServiceInterface = (*Service)(nil)
