package countdown

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeedAndTick(t *testing.T) {
	t.Parallel()
	c := New(nil)

	c.Seed(3*time.Second, true)
	assert.Equal(t, 3*time.Second, c.Remaining())
	assert.True(t, c.Running())

	c.Tick()
	c.Tick()
	assert.Equal(t, time.Second, c.Remaining())
}

func TestTickFloorsAtZero(t *testing.T) {
	t.Parallel()
	c := New(nil)

	c.Seed(time.Second, true)
	c.Tick()
	c.Tick()
	c.Tick()
	assert.Equal(t, time.Duration(0), c.Remaining(), "display never goes negative")
}

func TestTickFrozenWhileNotRunning(t *testing.T) {
	t.Parallel()
	c := New(nil)

	// Paused: the seed sticks, ticks are ignored
	c.Seed(10*time.Second, false)
	c.Tick()
	c.Tick()
	assert.Equal(t, 10*time.Second, c.Remaining())
	assert.False(t, c.Running())
}

func TestSeedFloorsNegativeRemaining(t *testing.T) {
	t.Parallel()
	c := New(nil)

	c.Seed(-5*time.Second, true)
	assert.Equal(t, time.Duration(0), c.Remaining())
}

func TestReseedOverridesLocalDrift(t *testing.T) {
	t.Parallel()
	c := New(nil)

	c.Seed(20*time.Second, true)
	c.Tick()
	c.Tick()

	// Server says otherwise; the confirmed value wins
	c.Seed(25*time.Second, true)
	assert.Equal(t, 25*time.Second, c.Remaining())
}

func TestClear(t *testing.T) {
	t.Parallel()
	c := New(nil)

	c.Seed(10*time.Second, true)
	c.Clear()
	assert.Equal(t, time.Duration(0), c.Remaining())
	assert.False(t, c.Running())
}

func TestRunTicksUntilCancelled(t *testing.T) {
	t.Parallel()
	done := make(chan struct{})
	c := New(func(remaining time.Duration) {
		if remaining == 0 {
			select {
			case <-done:
			default:
				close(done)
			}
		}
	})
	c.interval = 5 * time.Millisecond

	c.Seed(3*c.interval, true)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(stopped)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("countdown never reached zero")
	}
	assert.Equal(t, time.Duration(0), c.Remaining())

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestOnTickObservesEachStep(t *testing.T) {
	t.Parallel()
	var seen []time.Duration
	c := New(func(remaining time.Duration) {
		seen = append(seen, remaining)
	})

	c.Seed(2*time.Second, true)
	c.Tick()
	c.Tick()
	c.Tick() // already at zero, still reported

	assert.Equal(t, []time.Duration{time.Second, 0, 0}, seen)
}
