package scheduler

import (
	"errors"
	"runboard/internal/services"
	"runboard/internal/structures"
	"runboard/internal/testutil"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	services.RunSessionServiceInterface
	mu       sync.Mutex
	active   bool
	ticks    []float64
	tickErr  error
	finished []string
	waits    int
}

func (f *fakeSession) Tick(dt float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ticks = append(f.ticks, dt)
	return f.tickErr
}

func (f *fakeSession) Active() bool { return f.active }

func (f *fakeSession) FinishRun(reason string) (services.FinishResult, error) {
	f.finished = append(f.finished, reason)
	f.active = false
	return services.FinishResult{RunID: "r1", Reason: reason}, nil
}

func (f *fakeSession) WaitIdle() { f.waits++ }

func (f *fakeSession) tickCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ticks)
}

func testConfig(autoTick bool, interval time.Duration) *structures.Config {
	return &structures.Config{Run: structures.RunConfig{AutoTick: autoTick, TickInterval: interval}}
}

func TestScheduler_IntervalRounding(t *testing.T) {
	s := &Scheduler{config: testConfig(true, 2500*time.Millisecond)}
	assert.Equal(t, 2*time.Second, s.interval())
	s.config = testConfig(true, 200*time.Millisecond)
	assert.Equal(t, time.Second, s.interval())
}

func TestScheduler_DisabledDoesNotStartCron(t *testing.T) {
	session := &fakeSession{}
	logger := &testutil.MockLogger{}
	s := NewScheduler(testConfig(false, time.Second), logger, session).(*Scheduler)
	s.Init()
	defer s.Stop()
	assert.Nil(t, s.cron)
	assert.Equal(t, 1, logger.Count("info", "client ticks"))
}

func TestScheduler_TicksSession(t *testing.T) {
	session := &fakeSession{active: true}
	s := NewScheduler(testConfig(true, time.Second), &testutil.MockLogger{}, session)
	s.Init()
	defer s.Stop()

	assert.Eventually(t, func() bool { return session.tickCount() > 0 }, 3*time.Second, 50*time.Millisecond)
	session.mu.Lock()
	assert.Equal(t, 1.0, session.ticks[0])
	session.mu.Unlock()
}

func TestScheduler_TickErrors(t *testing.T) {
	logger := &testutil.MockLogger{}
	session := &fakeSession{tickErr: services.ErrNoActiveRun}
	s := NewScheduler(testConfig(true, time.Second), logger, session).(*Scheduler)

	s.tick(time.Second)
	assert.Equal(t, 0, logger.Count("error", "tick failed"), "idle session is not an error")

	session.tickErr = errors.New("boom")
	s.tick(time.Second)
	assert.Equal(t, 1, logger.Count("error", "tick failed"))
}

func TestScheduler_DrainAbandonsActiveRun(t *testing.T) {
	session := &fakeSession{active: true}
	s := NewScheduler(testConfig(false, 0), &testutil.MockLogger{}, session)

	require.NoError(t, s.Drain())
	assert.Equal(t, []string{services.FinishAbandon}, session.finished)

	require.NoError(t, s.Drain())
	assert.Len(t, session.finished, 1, "nothing to close the second time")
	assert.Equal(t, 2, session.waits, "every drain waits for background rebuilds")
}
