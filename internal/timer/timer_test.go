package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestTimer() (*Timer, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)}
	return NewWithClock(func() time.Time { return clock.now }), clock
}

func TestStartStop(t *testing.T) {
	t.Parallel()

	timer, clock := newTestTimer()
	require.NoError(t, timer.Start())
	assert.True(t, timer.Running())

	clock.advance(95 * time.Minute)
	minutes, err := timer.Stop()
	require.NoError(t, err)
	assert.Equal(t, 95, minutes)
	assert.False(t, timer.Running())
}

func TestPauseExcludedFromElapsed(t *testing.T) {
	t.Parallel()

	timer, clock := newTestTimer()
	require.NoError(t, timer.Start())

	clock.advance(30 * time.Minute)
	require.NoError(t, timer.Pause())
	assert.True(t, timer.Paused())
	assert.Equal(t, 30*time.Minute, timer.Elapsed())

	clock.advance(2 * time.Hour) // lunch break
	assert.Equal(t, 30*time.Minute, timer.Elapsed(), "elapsed frozen while paused")

	require.NoError(t, timer.Resume())
	clock.advance(45 * time.Minute)

	minutes, err := timer.Stop()
	require.NoError(t, err)
	assert.Equal(t, 75, minutes)
}

func TestStopWhilePaused(t *testing.T) {
	t.Parallel()

	timer, clock := newTestTimer()
	require.NoError(t, timer.Start())
	clock.advance(10 * time.Minute)
	require.NoError(t, timer.Pause())
	clock.advance(time.Hour)

	minutes, err := timer.Stop()
	require.NoError(t, err)
	assert.Equal(t, 10, minutes)
}

func TestStopTruncatesToWholeMinutes(t *testing.T) {
	t.Parallel()

	timer, clock := newTestTimer()
	require.NoError(t, timer.Start())
	clock.advance(5*time.Minute + 59*time.Second)

	minutes, err := timer.Stop()
	require.NoError(t, err)
	assert.Equal(t, 5, minutes)
}

func TestStateErrors(t *testing.T) {
	t.Parallel()

	timer, _ := newTestTimer()
	assert.ErrorIs(t, timer.Pause(), ErrNotRunning)
	assert.ErrorIs(t, timer.Resume(), ErrNotPaused)
	_, err := timer.Stop()
	assert.ErrorIs(t, err, ErrNotRunning)

	require.NoError(t, timer.Start())
	assert.ErrorIs(t, timer.Start(), ErrAlreadyRunning)

	require.NoError(t, timer.Pause())
	assert.ErrorIs(t, timer.Start(), ErrAlreadyRunning)
	assert.ErrorIs(t, timer.Pause(), ErrNotRunning)
}

func TestRestartAfterStop(t *testing.T) {
	t.Parallel()

	timer, clock := newTestTimer()
	require.NoError(t, timer.Start())
	clock.advance(20 * time.Minute)
	_, err := timer.Stop()
	require.NoError(t, err)

	require.NoError(t, timer.Start())
	clock.advance(7 * time.Minute)
	minutes, err := timer.Stop()
	require.NoError(t, err)
	assert.Equal(t, 7, minutes, "paused time from earlier sessions must not leak")
}
