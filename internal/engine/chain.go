package engine

import (
	"context"
	"errors"
	"log"

	"github.com/arisanov/pomo/internal/models"
)

// Chainer implements break auto-chaining: when a Work session
// completes, it decides whether the next break is short or long and
// starts it. Everything here is best-effort — a failure never reaches
// the completion path, it is logged and dropped.
type Chainer struct {
	engine *Engine
	logger *log.Logger
}

// NewChainer builds a Chainer. logger may be nil for the default.
func NewChainer(engine *Engine, logger *log.Logger) *Chainer {
	if logger == nil {
		logger = log.Default()
	}
	return &Chainer{engine: engine, logger: logger}
}

// HandleEvent is a Bus handler. Only Work completions are acted on:
// break completions never chain, going back to work is always an
// explicit user action.
func (c *Chainer) HandleEvent(e Event) {
	if e.Name != EventCompleted || e.Session.Type != models.SessionWork {
		return
	}
	c.chain(context.Background(), e.Session)
}

func (c *Chainer) chain(ctx context.Context, completed models.Session) {
	userID := completed.UserID

	settings, err := c.engine.Settings(ctx, userID)
	if err != nil {
		c.logger.Printf("chain: failed to load settings for %s: %v", userID, err)
		return
	}
	if !settings.AutoStartBreaks {
		return
	}

	// The completed row is already stored, so the count includes it.
	count, err := c.engine.store.CountCompletedWork(ctx, userID)
	if err != nil {
		c.logger.Printf("chain: failed to count work sessions for %s: %v", userID, err)
		return
	}

	breakType := models.SessionShortBreak
	if settings.LongBreakInterval > 0 && count%int64(settings.LongBreakInterval) == 0 {
		breakType = models.SessionLongBreak
	}

	// A manual action may have claimed the active slot already; if so,
	// skip quietly rather than fight the user.
	active, err := c.engine.Active(ctx, userID)
	if err != nil {
		c.logger.Printf("chain: failed to check active session for %s: %v", userID, err)
		return
	}
	if active != nil {
		return
	}

	sess, err := c.engine.Create(ctx, userID, breakType, settings.DurationFor(breakType), CreateOptions{})
	if err != nil {
		c.logger.Printf("chain: failed to create %s for %s: %v", breakType, userID, err)
		return
	}
	if _, err := c.engine.Start(ctx, sess.ID); err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			// Lost the race after all. Drop the never-started session.
			if _, cerr := c.engine.Cancel(ctx, sess.ID); cerr != nil {
				c.logger.Printf("chain: failed to discard unstarted break %s: %v", sess.ID, cerr)
			}
			return
		}
		c.logger.Printf("chain: failed to start %s %s: %v", breakType, sess.ID, err)
	}
}
