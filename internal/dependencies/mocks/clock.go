package mocks

import (
	"sync"
	"time"

	"github.com/mcoot/minegrid/internal/dependencies/clock"
)

// fireTimeout bounds how long Fire waits for a receiver
const fireTimeout = time.Second

// MockClock is a mock implementation of Clock for testing.
// Tickers it creates only fire when the test calls Fire or FireAll.
type MockClock struct {
	mu          sync.Mutex
	CurrentTime time.Time
	tickers     []*MockTicker
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CurrentTime
}

// Advance moves the clock forward by the given duration
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CurrentTime = c.CurrentTime.Add(d)
}

// Set sets the clock to the given time
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CurrentTime = t
}

// NewTicker creates a manually driven ticker
func (c *MockClock) NewTicker(d time.Duration) clock.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &MockTicker{
		Period: d,
		ch:     make(chan time.Time),
		clock:  c,
	}
	c.tickers = append(c.tickers, t)
	return t
}

// Tickers returns every ticker created so far, stopped or not
func (c *MockClock) Tickers() []*MockTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]*MockTicker, len(c.tickers))
	copy(result, c.tickers)
	return result
}

// ActiveTickers returns the number of tickers not yet stopped
func (c *MockClock) ActiveTickers() int {
	count := 0
	for _, t := range c.Tickers() {
		if !t.Stopped() {
			count++
		}
	}
	return count
}

// MockTicker is a ticker driven by the test
type MockTicker struct {
	Period time.Duration

	mu      sync.Mutex
	ch      chan time.Time
	stopped bool
	clock   *MockClock
}

// C returns the tick channel
func (t *MockTicker) C() <-chan time.Time {
	return t.ch
}

// Stop stops the ticker; later Fire calls return false
func (t *MockTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

// Stopped reports whether Stop has been called
func (t *MockTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Fire delivers one tick and reports whether a receiver took it
func (t *MockTicker) Fire() bool {
	if t.Stopped() {
		return false
	}
	select {
	case t.ch <- t.clock.Now():
		return true
	case <-time.After(fireTimeout):
		return false
	}
}
