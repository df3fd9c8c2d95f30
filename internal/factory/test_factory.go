package factory

import (
	"time"

	"github.com/mcoot/tourney/internal/dependencies/mocks"
	"github.com/mcoot/tourney/internal/storage/memory"
	"github.com/mcoot/tourney/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockIDs   *mocks.MockIDGen
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// The clock advances one second per operation.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockClock.Tick(time.Second)
	mockIDs := mocks.NewMockIDGen()

	app := newWithDependencies(store, mockClock, mockIDs, testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockIDs:   mockIDs,
	}
}
