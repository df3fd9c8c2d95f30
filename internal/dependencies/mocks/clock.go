package mocks

import (
	"sync"
	"time"

	"github.com/mcoot/tourney/internal/dependencies/clock"
)

// MockClock is a settable Clock. It is safe for concurrent use.
type MockClock struct {
	mu      sync.Mutex
	current time.Time
	step    time.Duration
}

var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{current: t}
}

// Now returns the mocked time, then advances it by the configured step
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.current
	c.current = c.current.Add(c.step)
	return now
}

// Advance moves the clock forward by the given duration
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// Set sets the clock to the given time
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}

// Tick makes every call to Now advance the clock by d, so consecutive
// operations get distinct timestamps
func (c *MockClock) Tick(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = d
}
