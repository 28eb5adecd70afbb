package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/trucogame-go/internal/dependencies/mocks"
	"github.com/mcoot/trucogame-go/internal/testutil"
)

type SchedulerSuite struct {
	suite.Suite
	clock     *mocks.MockClock
	scheduler *Scheduler
}

func TestSchedulerSuite(t *testing.T) {
	suite.Run(t, new(SchedulerSuite))
}

func (s *SchedulerSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.scheduler = New(s.clock, testutil.NopLogger())
}

func (s *SchedulerSuite) TestScheduleFiresOnceDue() {
	fired := 0
	s.scheduler.Schedule("room", 3*time.Second, func() { fired++ })
	s.True(s.scheduler.Pending("room"))

	s.clock.Advance(2 * time.Second)
	s.Equal(0, fired)

	s.clock.Advance(time.Second)
	s.Equal(1, fired)
	s.False(s.scheduler.Pending("room"))

	s.clock.Advance(time.Minute)
	s.Equal(1, fired)
}

func (s *SchedulerSuite) TestRescheduleReplacesCallback() {
	var got []string
	s.scheduler.Schedule("room", time.Second, func() { got = append(got, "first") })
	s.scheduler.Schedule("room", 2*time.Second, func() { got = append(got, "second") })

	s.clock.Advance(time.Second)
	s.Empty(got)

	s.clock.Advance(time.Second)
	s.Equal([]string{"second"}, got)
	s.Equal(0, s.clock.PendingTimers())
}

func (s *SchedulerSuite) TestKeysAreIndependent() {
	var got []string
	s.scheduler.Schedule("a", time.Second, func() { got = append(got, "a") })
	s.scheduler.Schedule("b", 2*time.Second, func() { got = append(got, "b") })

	s.clock.Advance(3 * time.Second)
	s.Equal([]string{"a", "b"}, got)
}

func (s *SchedulerSuite) TestCancel() {
	fired := false
	s.scheduler.Schedule("room", time.Second, func() { fired = true })

	s.True(s.scheduler.Cancel("room"))
	s.False(s.scheduler.Cancel("room"))

	s.clock.Advance(time.Minute)
	s.False(fired)
}

func (s *SchedulerSuite) TestCallbackMayReschedule() {
	fired := 0
	var tick func()
	tick = func() {
		fired++
		if fired < 3 {
			s.scheduler.Schedule("loop", time.Second, tick)
		}
	}
	s.scheduler.Schedule("loop", time.Second, tick)

	for i := 0; i < 5; i++ {
		s.clock.Advance(time.Second)
	}
	s.Equal(3, fired)
}

func (s *SchedulerSuite) TestStopCancelsEverything() {
	fired := false
	s.scheduler.Schedule("a", time.Second, func() { fired = true })
	s.scheduler.Schedule("b", time.Second, func() { fired = true })

	s.scheduler.Stop()
	s.scheduler.Schedule("c", time.Second, func() { fired = true })

	s.clock.Advance(time.Minute)
	s.False(fired)
	s.False(s.scheduler.Pending("c"))
}
