// Package reconcile keeps a viewer converged on the store: a periodic
// poll diffs the freshly fetched session set against the previous
// snapshot and publishes one event per actual id+state change.
// Secondary-field edits don't count as changes, so a viewer never sees
// duplicate toasts for the same transition.
package reconcile

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/arisanov/pomo/internal/engine"
	"github.com/arisanov/pomo/internal/models"
)

// DefaultInterval between polls.
const DefaultInterval = 5 * time.Second

// FetchFunc returns the current session set for the viewer's user.
type FetchFunc func(ctx context.Context) ([]models.Session, error)

// Loop is one viewer's reconciliation loop. Each viewer owns its own
// Loop and snapshot; cancelling one viewer's context never disturbs
// another's.
type Loop struct {
	fetch    FetchFunc
	bus      *engine.Bus
	interval time.Duration
	logger   *log.Logger
	now      func() time.Time

	// completer, when set, auto-completes an Active session whose
	// planned duration has fully elapsed (the timer firing).
	completer func(ctx context.Context, id string) error

	mu       sync.Mutex
	primed   bool
	snapshot map[string]models.SessionState
	active   *models.Session
}

// Option tweaks a Loop.
type Option func(*Loop)

// WithInterval overrides the poll interval.
func WithInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loop) { l.logger = logger }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Loop) { l.now = now }
}

// WithCompleter enables timer-driven completion through the given
// engine operation.
func WithCompleter(complete func(ctx context.Context, id string) error) Option {
	return func(l *Loop) { l.completer = complete }
}

// New builds a Loop that publishes observed changes on bus.
func New(fetch FetchFunc, bus *engine.Bus, opts ...Option) *Loop {
	l := &Loop{
		fetch:    fetch,
		bus:      bus,
		interval: DefaultInterval,
		logger:   log.Default(),
		now:      time.Now,
		snapshot: make(map[string]models.SessionState),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run polls until ctx is cancelled. A failed tick is logged and simply
// retried on the next interval.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	// Immediate first tick so the viewer isn't blank for an interval
	if err := l.Tick(ctx); err != nil {
		l.logger.Printf("reconcile: tick failed: %v", err)
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := l.Tick(ctx); err != nil {
				l.logger.Printf("reconcile: tick failed: %v", err)
			}
		}
	}
}

// Tick runs one fetch-diff-publish round. Exported so a UI can force a
// resync after issuing a control command.
func (l *Loop) Tick(ctx context.Context) error {
	sessions, err := l.fetch(ctx)
	if err != nil {
		return err
	}

	now := l.now()
	next := make(map[string]models.SessionState, len(sessions))
	var active *models.Session
	var overdue string

	l.mu.Lock()
	prev := l.snapshot
	primed := l.primed
	l.mu.Unlock()

	var events []engine.Event
	for i := range sessions {
		s := sessions[i]
		next[s.ID] = s.State

		prevState, known := prev[s.ID]
		if primed && (!known || prevState != s.State) {
			events = append(events, engine.Event{
				Name:       engine.TransitionEvent(known, prevState, s.State),
				Session:    s,
				ObservedAt: now,
			})
		}

		if s.Running() {
			active = &sessions[i]
			if s.State == models.StateActive && s.RemainingSeconds(now) == 0 {
				overdue = s.ID
			}
		}
	}

	// Swap the whole snapshot at once so the next tick diffs against a
	// consistent baseline. The first successful fetch only primes that
	// baseline: a freshly started loop has no idea what already happened,
	// so replaying history as transitions would re-notify long-finished
	// sessions.
	l.mu.Lock()
	l.snapshot = next
	l.active = active
	l.primed = true
	l.mu.Unlock()

	for _, e := range events {
		l.bus.Publish(e)
	}

	if overdue != "" && l.completer != nil {
		if err := l.completer(ctx, overdue); err != nil {
			l.logger.Printf("reconcile: auto-complete %s failed: %v", overdue, err)
		}
	}
	return nil
}

// Active returns the session this loop currently considers to hold the
// active slot, or nil. The countdown seeds from this.
func (l *Loop) Active() *models.Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active == nil {
		return nil
	}
	s := *l.active
	return &s
}
