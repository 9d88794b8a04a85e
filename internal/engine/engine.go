package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arisanov/pomo/internal/db"
	"github.com/arisanov/pomo/internal/models"
)

// DefaultStoreTimeout bounds every store round-trip issued by an
// engine operation. A timed-out operation is reported as failed and
// never assumed to have succeeded.
const DefaultStoreTimeout = 5 * time.Second

// Engine is the session state machine: the only writer to the session
// store. Operations for the same session are serialized by a
// per-session lock locally and by the store's version token across
// processes.
type Engine struct {
	store    *db.Store
	defaults models.UserSettings
	now      func() time.Time
	timeout  time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New builds an Engine over the given store. defaults seed a user's
// settings row on first contact. now may be nil for wall-clock time.
func New(store *db.Store, defaults models.UserSettings, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{
		store:    store,
		defaults: defaults,
		now:      now,
		timeout:  DefaultStoreTimeout,
		locks:    make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutex serializing operations on one session id.
func (e *Engine) lockFor(id string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[id]
	if !ok {
		l = &sync.Mutex{}
		e.locks[id] = l
	}
	return l
}

func (e *Engine) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.timeout)
}

// mapStoreErr translates store-level failures into the engine's error
// taxonomy.
func mapStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, db.ErrSessionNotFound):
		return ErrNotFound
	case errors.Is(err, db.ErrStaleVersion):
		return &ConflictError{}
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

// CreateOptions carries the optional fields of a new session.
type CreateOptions struct {
	TaskID     string
	CategoryID string
	Title      string
	Notes      string
}

// Create inserts a new session in state Created. It does not occupy
// the user's active slot until started. plannedSeconds <= 0 falls back
// to the user's configured duration for the session type.
func (e *Engine) Create(ctx context.Context, userID string, typ models.SessionType, plannedSeconds int, opts CreateOptions) (*models.Session, error) {
	switch typ {
	case models.SessionWork, models.SessionShortBreak, models.SessionLongBreak:
	default:
		return nil, fmt.Errorf("unknown session type %q", typ)
	}

	ctx, cancel := e.opCtx(ctx)
	defer cancel()

	if plannedSeconds <= 0 {
		settings, err := e.Settings(ctx, userID)
		if err != nil {
			return nil, err
		}
		plannedSeconds = settings.DurationFor(typ)
	}
	if plannedSeconds <= 0 {
		return nil, fmt.Errorf("planned duration must be positive, got %d", plannedSeconds)
	}

	sess := &models.Session{
		ID:             uuid.NewString(),
		UserID:         userID,
		Type:           typ,
		State:          models.StateCreated,
		PlannedSeconds: plannedSeconds,
		TaskID:         opts.TaskID,
		CategoryID:     opts.CategoryID,
		Title:          opts.Title,
		Notes:          opts.Notes,
	}
	if err := e.store.CreateSession(ctx, sess); err != nil {
		return nil, mapStoreErr(err)
	}
	return sess, nil
}

// Get returns the canonical record for a session id.
func (e *Engine) Get(ctx context.Context, id string) (*models.Session, error) {
	ctx, cancel := e.opCtx(ctx)
	defer cancel()

	sess, err := e.store.GetSession(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return sess, nil
}

// Resolve expands a possibly-shortened session id to the full record.
func (e *Engine) Resolve(ctx context.Context, userID, idOrPrefix string) (*models.Session, error) {
	ctx, cancel := e.opCtx(ctx)
	defer cancel()

	sess, err := e.store.FindByIDPrefix(ctx, userID, idOrPrefix)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return sess, nil
}

// Active returns the user's session in Active or Paused state, or nil.
// Always answered from the store, never from a cache.
func (e *Engine) Active(ctx context.Context, userID string) (*models.Session, error) {
	ctx, cancel := e.opCtx(ctx)
	defer cancel()

	sess, err := e.store.ActiveSession(ctx, userID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return sess, nil
}

// List returns the user's sessions matching the filter.
func (e *Engine) List(ctx context.Context, userID string, filter db.SessionFilter) ([]models.Session, error) {
	ctx, cancel := e.opCtx(ctx)
	defer cancel()

	sessions, err := e.store.ListSessions(ctx, userID, filter)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return sessions, nil
}

// Settings returns the user's settings, creating them from the
// configured defaults on first use.
func (e *Engine) Settings(ctx context.Context, userID string) (*models.UserSettings, error) {
	ctx, cancel := e.opCtx(ctx)
	defer cancel()

	settings, err := e.store.GetUserSettings(ctx, userID, e.defaults)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return settings, nil
}

// Start transitions Created → Active. The single-active-session
// invariant is enforced here against the store: if the user already
// has an Active/Paused session the start fails with ConflictError
// carrying the blocking id.
func (e *Engine) Start(ctx context.Context, id string) (*models.Session, error) {
	l := e.lockFor(id)
	l.Lock()
	defer l.Unlock()

	ctx, cancel := e.opCtx(ctx)
	defer cancel()

	sess, err := e.store.GetSession(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if sess.State != models.StateCreated {
		return nil, invalidState("start", sess.State)
	}

	active, err := e.store.ActiveSession(ctx, sess.UserID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if active != nil && active.ID != sess.ID {
		return nil, &ConflictError{ActiveSessionID: active.ID}
	}

	now := e.now()
	sess.StartedAt = &now
	sess.State = models.StateActive
	if err := e.store.UpdateSession(ctx, sess); err != nil {
		return nil, mapStoreErr(err)
	}
	return sess, nil
}

// Pause transitions Active → Paused, folding the elapsed active
// interval into the accumulated duration.
func (e *Engine) Pause(ctx context.Context, id string) (*models.Session, error) {
	l := e.lockFor(id)
	l.Lock()
	defer l.Unlock()

	ctx, cancel := e.opCtx(ctx)
	defer cancel()

	sess, err := e.store.GetSession(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if sess.State != models.StateActive {
		return nil, invalidState("pause", sess.State)
	}

	now := e.now()
	sess.ActualSeconds = sess.ElapsedSeconds(now)
	sess.PausedAt = &now
	sess.State = models.StatePaused
	if err := e.store.UpdateSession(ctx, sess); err != nil {
		return nil, mapStoreErr(err)
	}
	return sess, nil
}

// Resume transitions Paused → Active.
func (e *Engine) Resume(ctx context.Context, id string) (*models.Session, error) {
	l := e.lockFor(id)
	l.Lock()
	defer l.Unlock()

	ctx, cancel := e.opCtx(ctx)
	defer cancel()

	sess, err := e.store.GetSession(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if sess.State != models.StatePaused {
		return nil, invalidState("resume", sess.State)
	}

	now := e.now()
	sess.ResumedAt = &now
	sess.State = models.StateActive
	if err := e.store.UpdateSession(ctx, sess); err != nil {
		return nil, mapStoreErr(err)
	}
	return sess, nil
}

// Complete transitions Active/Paused → Completed and freezes the
// accumulated duration. Calling it on a session that is already
// terminal returns the record unchanged.
func (e *Engine) Complete(ctx context.Context, id string) (*models.Session, error) {
	l := e.lockFor(id)
	l.Lock()
	defer l.Unlock()

	ctx, cancel := e.opCtx(ctx)
	defer cancel()

	sess, err := e.store.GetSession(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if sess.Terminal() {
		return sess, nil
	}
	if sess.State != models.StateActive && sess.State != models.StatePaused {
		return nil, invalidState("complete", sess.State)
	}

	now := e.now()
	sess.ActualSeconds = sess.ElapsedSeconds(now)
	sess.CompletedAt = &now
	sess.State = models.StateCompleted
	if err := e.store.UpdateSession(ctx, sess); err != nil {
		return nil, mapStoreErr(err)
	}
	return sess, nil
}

// Cancel aborts any non-terminal session. No duration accounting is
// performed. Cancelling a terminal session returns the record
// unchanged.
func (e *Engine) Cancel(ctx context.Context, id string) (*models.Session, error) {
	l := e.lockFor(id)
	l.Lock()
	defer l.Unlock()

	ctx, cancel := e.opCtx(ctx)
	defer cancel()

	sess, err := e.store.GetSession(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if sess.Terminal() {
		return sess, nil
	}

	now := e.now()
	sess.CancelledAt = &now
	sess.State = models.StateCancelled
	if err := e.store.UpdateSession(ctx, sess); err != nil {
		return nil, mapStoreErr(err)
	}
	return sess, nil
}
