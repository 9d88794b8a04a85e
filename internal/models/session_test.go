package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTerminalAndRunning(t *testing.T) {
	t.Parallel()
	cases := []struct {
		state    SessionState
		terminal bool
		running  bool
	}{
		{StateCreated, false, false},
		{StateActive, false, true},
		{StatePaused, false, true},
		{StateCompleted, true, false},
		{StateCancelled, true, false},
	}
	for _, tc := range cases {
		s := Session{State: tc.state}
		assert.Equal(t, tc.terminal, s.Terminal(), "Terminal for %s", tc.state)
		assert.Equal(t, tc.running, s.Running(), "Running for %s", tc.state)
	}
}

func TestElapsedSecondsWhileActive(t *testing.T) {
	t.Parallel()
	started := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	s := Session{
		State:          StateActive,
		PlannedSeconds: 1500,
		StartedAt:      &started,
	}

	now := started.Add(10 * time.Minute)
	assert.Equal(t, 600, s.ElapsedSeconds(now))
	assert.Equal(t, 900, s.RemainingSeconds(now))
}

func TestElapsedSecondsCountsFromLastResume(t *testing.T) {
	t.Parallel()
	started := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	resumed := started.Add(15 * time.Minute)
	s := Session{
		State:          StateActive,
		PlannedSeconds: 1500,
		ActualSeconds:  600, // banked before the pause
		StartedAt:      &started,
		ResumedAt:      &resumed,
	}

	// 5 minutes into the resumed interval: pause gap is excluded
	now := resumed.Add(5 * time.Minute)
	assert.Equal(t, 900, s.ElapsedSeconds(now))
	assert.Equal(t, 600, s.RemainingSeconds(now))
}

func TestElapsedSecondsFrozenWhilePaused(t *testing.T) {
	t.Parallel()
	started := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	paused := started.Add(10 * time.Minute)
	s := Session{
		State:          StatePaused,
		PlannedSeconds: 1500,
		ActualSeconds:  600,
		StartedAt:      &started,
		PausedAt:       &paused,
	}

	// The clock keeps moving, the accounting doesn't
	now := paused.Add(2 * time.Hour)
	assert.Equal(t, 600, s.ElapsedSeconds(now))
}

func TestRemainingSecondsFloorsAtZero(t *testing.T) {
	t.Parallel()
	started := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	s := Session{
		State:          StateActive,
		PlannedSeconds: 300,
		StartedAt:      &started,
	}

	now := started.Add(time.Hour)
	assert.Equal(t, 0, s.RemainingSeconds(now))
}

func TestDurationForType(t *testing.T) {
	t.Parallel()
	settings := UserSettings{
		WorkSeconds:       1500,
		ShortBreakSeconds: 300,
		LongBreakSeconds:  900,
	}

	assert.Equal(t, 1500, settings.DurationFor(SessionWork))
	assert.Equal(t, 300, settings.DurationFor(SessionShortBreak))
	assert.Equal(t, 900, settings.DurationFor(SessionLongBreak))
}
