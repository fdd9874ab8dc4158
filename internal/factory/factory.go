package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/minegrid/internal/api/sse"
	"github.com/mcoot/minegrid/internal/dependencies/clock"
	"github.com/mcoot/minegrid/internal/dependencies/random"
	"github.com/mcoot/minegrid/internal/services/board"
	"github.com/mcoot/minegrid/internal/services/game"
	"github.com/mcoot/minegrid/internal/services/mark"
	"github.com/mcoot/minegrid/internal/services/reveal"
	"github.com/mcoot/minegrid/internal/services/timer"
	"github.com/mcoot/minegrid/internal/storage"
	"github.com/mcoot/minegrid/internal/storage/memory"
	redisstorage "github.com/mcoot/minegrid/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	BoardService   *board.Service
	RevealEngine   *reveal.Engine
	MarkService    *mark.Service
	TimerService   *timer.Service
	GameController *game.Controller
	HubManager     *sse.HubManager

	closeStorage func() error
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// TickPeriod is the wall-clock length of one game tick
	// If zero, defaults to timer.DefaultPeriod
	TickPeriod time.Duration
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	closeStorage := func() error { return nil }
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		closeStorage = redisStore.Close
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	app := newWithDependencies(store, clock.New(), random.New(), cfg.TickPeriod, logger)
	app.closeStorage = closeStorage
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, tickPeriod time.Duration, logger *slog.Logger) *App {
	boardService := board.New(rnd, logger)
	revealEngine := reveal.New(clk)
	markService := mark.New()
	timerService := timer.New(clk, tickPeriod, logger)
	hubManager := sse.NewHubManager(logger)
	publisher := sse.NewPublisher(hubManager, logger)
	gameController := game.NewController(
		store,
		boardService,
		revealEngine,
		markService,
		timerService,
		clk,
		publisher,
		logger,
	)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		BoardService:   boardService,
		RevealEngine:   revealEngine,
		MarkService:    markService,
		TimerService:   timerService,
		GameController: gameController,
		HubManager:     hubManager,
		closeStorage:   func() error { return nil },
	}
}

// Close stops every game clock, disconnects event streams and releases
// the storage backend
func (a *App) Close() error {
	a.GameController.Shutdown()
	a.HubManager.CloseAll()
	return a.closeStorage()
}
