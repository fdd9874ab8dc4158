package factory

import (
	"time"

	"github.com/mcoot/minegrid/internal/dependencies/mocks"
	"github.com/mcoot/minegrid/internal/storage/memory"
	"github.com/mcoot/minegrid/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, time.Second, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// QueueHazards queues board indices so the next generated board places
// its hazards at the given cells, in order
func (t *TestApp) QueueHazards(cols int, cells ...[2]int) {
	for _, c := range cells {
		t.MockRandom.QueueIntn(c[0]*cols + c[1])
	}
}

// LastTicker returns the most recently armed game clock
func (t *TestApp) LastTicker() *mocks.MockTicker {
	tickers := t.MockClock.Tickers()
	if len(tickers) == 0 {
		return nil
	}
	return tickers[len(tickers)-1]
}
