// Package timer implements the cooperative focus timer: wall-clock
// based, pausable, with paused time subtracted at stop. No background
// ticking is needed for correctness, only for live display.
package timer

import (
	"errors"
	"time"
)

var (
	ErrNotRunning     = errors.New("timer is not running")
	ErrAlreadyRunning = errors.New("timer is already running")
	ErrNotPaused      = errors.New("timer is not paused")
)

type state int

const (
	stateIdle state = iota
	stateRunning
	statePaused
)

type Timer struct {
	clock func() time.Time

	state     state
	startedAt time.Time
	pausedAt  time.Time
	paused    time.Duration
}

func New() *Timer {
	return &Timer{clock: time.Now}
}

// NewWithClock injects the time source, for tests.
func NewWithClock(clock func() time.Time) *Timer {
	return &Timer{clock: clock}
}

func (t *Timer) Start() error {
	if t.state != stateIdle {
		return ErrAlreadyRunning
	}
	t.state = stateRunning
	t.startedAt = t.clock()
	t.paused = 0
	return nil
}

func (t *Timer) Pause() error {
	if t.state != stateRunning {
		return ErrNotRunning
	}
	t.state = statePaused
	t.pausedAt = t.clock()
	return nil
}

func (t *Timer) Resume() error {
	if t.state != statePaused {
		return ErrNotPaused
	}
	t.paused += t.clock().Sub(t.pausedAt)
	t.state = stateRunning
	return nil
}

// Stop ends the session and returns the focused time in whole minutes,
// paused stretches excluded.
func (t *Timer) Stop() (int, error) {
	if t.state == stateIdle {
		return 0, ErrNotRunning
	}
	elapsed := t.Elapsed()
	t.state = stateIdle
	t.paused = 0
	return int(elapsed / time.Minute), nil
}

// Elapsed is the focused duration so far, paused stretches excluded.
func (t *Timer) Elapsed() time.Duration {
	switch t.state {
	case stateIdle:
		return 0
	case statePaused:
		return t.pausedAt.Sub(t.startedAt) - t.paused
	default:
		return t.clock().Sub(t.startedAt) - t.paused
	}
}

func (t *Timer) Running() bool {
	return t.state == stateRunning
}

func (t *Timer) Paused() bool {
	return t.state == statePaused
}
