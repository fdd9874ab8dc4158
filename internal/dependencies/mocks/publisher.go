package mocks

import (
	"sync"

	"github.com/mcoot/minegrid/internal/model"
)

// MockPublisher records published events for assertions
type MockPublisher struct {
	mu     sync.Mutex
	events []model.Event
}

// NewMockPublisher creates an empty MockPublisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Publish records the event
func (p *MockPublisher) Publish(event model.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

// Events returns every event published so far
func (p *MockPublisher) Events() []model.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	result := make([]model.Event, len(p.events))
	copy(result, p.events)
	return result
}

// Types returns the type of every event published so far, in order
func (p *MockPublisher) Types() []model.EventType {
	var types []model.EventType
	for _, e := range p.Events() {
		types = append(types, e.Type)
	}
	return types
}

// Last returns the most recent event of the given type
func (p *MockPublisher) Last(eventType model.EventType) (model.Event, bool) {
	events := p.Events()
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Type == eventType {
			return events[i], true
		}
	}
	return model.Event{}, false
}

// Reset clears the recorded events
func (p *MockPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}
