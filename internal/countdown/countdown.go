// Package countdown is the client-side ticking display: a local,
// advisory countdown seeded from server-confirmed remaining time. It
// never feeds back into duration accounting — the store's timestamps
// stay authoritative.
package countdown

import (
	"context"
	"sync"
	"time"
)

// Countdown ticks a remaining duration toward zero once per interval
// while running. Reads and reseeds are synchronous and non-blocking.
type Countdown struct {
	mu        sync.Mutex
	remaining time.Duration
	running   bool

	interval time.Duration
	onTick   func(remaining time.Duration)
}

// New builds a Countdown ticking every second. onTick may be nil.
func New(onTick func(remaining time.Duration)) *Countdown {
	return &Countdown{
		interval: time.Second,
		onTick:   onTick,
	}
}

// Seed resets the countdown to a server-confirmed remaining time.
// Called after every control operation and every reconcile update.
// running=false freezes the display (paused session or no session).
func (c *Countdown) Seed(remaining time.Duration, running bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if remaining < 0 {
		remaining = 0
	}
	c.remaining = remaining
	c.running = running
}

// Clear stops and zeroes the display, for when no session is active.
func (c *Countdown) Clear() {
	c.Seed(0, false)
}

// Remaining returns the currently displayed remaining time.
func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Running reports whether the countdown is ticking down.
func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Run ticks until ctx is cancelled. Each viewer runs its own
// countdown; cancelling it affects nobody else.
func (c *Countdown) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Tick()
		}
	}
}

// Tick advances the display by one interval. Run drives this on its
// own ticker; a UI with its own timer loop calls it directly.
func (c *Countdown) Tick() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.remaining -= c.interval
	if c.remaining < 0 {
		c.remaining = 0
	}
	remaining := c.remaining
	onTick := c.onTick
	c.mu.Unlock()

	if onTick != nil {
		onTick(remaining)
	}
}
