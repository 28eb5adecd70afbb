package factory

import (
	"time"

	"github.com/mcoot/trucogame-go/internal/dependencies/mocks"
	"github.com/mcoot/trucogame-go/internal/services/auth"
	"github.com/mcoot/trucogame-go/internal/services/session"
	"github.com/mcoot/trucogame-go/internal/storage/memory"
	"github.com/mcoot/trucogame-go/internal/testutil"
)

// TestSettleDelay is the settle delay used by NewTestApp
const TestSettleDelay = 3 * time.Second

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

	app := newWithDependencies(
		store, mockClock, mockRandom, auth.DefaultConfig(), session.DefaultConfig(),
		TestSettleDelay, testutil.NopLogger(),
	)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// SettleAll advances the mock clock past every pending transition
func (t *TestApp) SettleAll() {
	t.MockClock.Advance(TestSettleDelay)
}
