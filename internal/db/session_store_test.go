package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arisanov/pomo/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	gdb, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewStore(gdb)
}

func newWorkSession(userID string) *models.Session {
	return &models.Session{
		ID:             uuid.NewString(),
		UserID:         userID,
		Type:           models.SessionWork,
		State:          models.StateCreated,
		PlannedSeconds: 1500,
	}
}

func TestSessionRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess := newWorkSession("alice")
	sess.Title = "deep work"
	require.NoError(t, store.CreateSession(ctx, sess))

	got, err := store.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, models.StateCreated, got.State)
	assert.Equal(t, "deep work", got.Title)
	assert.Equal(t, int64(0), got.Version)
}

func TestGetSessionNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetSession(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestUpdateSessionBumpsVersion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess := newWorkSession("alice")
	require.NoError(t, store.CreateSession(ctx, sess))

	now := time.Now()
	sess.State = models.StateActive
	sess.StartedAt = &now
	require.NoError(t, store.UpdateSession(ctx, sess))
	assert.Equal(t, int64(1), sess.Version)

	got, err := store.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateActive, got.State)
	require.NotNil(t, got.StartedAt)
	assert.Equal(t, int64(1), got.Version)
}

func TestUpdateSessionStaleVersion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess := newWorkSession("alice")
	require.NoError(t, store.CreateSession(ctx, sess))

	// Two callers load the same version
	first, err := store.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	second, err := store.GetSession(ctx, sess.ID)
	require.NoError(t, err)

	first.State = models.StateActive
	require.NoError(t, store.UpdateSession(ctx, first))

	second.State = models.StateCancelled
	err = store.UpdateSession(ctx, second)
	assert.ErrorIs(t, err, ErrStaleVersion)

	// The first writer's state stands
	got, err := store.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateActive, got.State)
}

func TestUpdateSessionMissingRow(t *testing.T) {
	store := newTestStore(t)

	ghost := newWorkSession("alice")
	err := store.UpdateSession(context.Background(), ghost)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestActiveSessionQuery(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	active, err := store.ActiveSession(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, active, "no sessions yet")

	created := newWorkSession("alice")
	require.NoError(t, store.CreateSession(ctx, created))

	active, err = store.ActiveSession(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, active, "created sessions don't hold the active slot")

	created.State = models.StatePaused
	require.NoError(t, store.UpdateSession(ctx, created))

	active, err = store.ActiveSession(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, created.ID, active.ID)

	// Another user's slot is independent
	other, err := store.ActiveSession(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestListSessionsFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	work := newWorkSession("alice")
	work.State = models.StateCompleted
	require.NoError(t, store.CreateSession(ctx, work))

	brk := newWorkSession("alice")
	brk.Type = models.SessionShortBreak
	require.NoError(t, store.CreateSession(ctx, brk))

	bob := newWorkSession("bob")
	require.NoError(t, store.CreateSession(ctx, bob))

	all, err := store.ListSessions(ctx, "alice", SessionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	completed, err := store.ListSessions(ctx, "alice", SessionFilter{
		States: []models.SessionState{models.StateCompleted},
	})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, work.ID, completed[0].ID)

	breaks, err := store.ListSessions(ctx, "alice", SessionFilter{
		Types: []models.SessionType{models.SessionShortBreak},
	})
	require.NoError(t, err)
	require.Len(t, breaks, 1)
	assert.Equal(t, brk.ID, breaks[0].ID)

	limited, err := store.ListSessions(ctx, "alice", SessionFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestListSessionRefs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := newWorkSession("alice")
	require.NoError(t, store.CreateSession(ctx, a))
	b := newWorkSession("alice")
	b.State = models.StateActive
	require.NoError(t, store.CreateSession(ctx, b))

	refs, err := store.ListSessionRefs(ctx, "alice", time.Hour)
	require.NoError(t, err)
	require.Len(t, refs, 2)

	byID := map[string]models.SessionState{}
	for _, ref := range refs {
		byID[ref.ID] = ref.State
	}
	assert.Equal(t, models.StateCreated, byID[a.ID])
	assert.Equal(t, models.StateActive, byID[b.ID])
}

func TestListSessionRefsSkipsOldTerminalSessions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Finished long ago: its state can't change, the poll skips it
	stale := newWorkSession("alice")
	stale.State = models.StateCompleted
	stale.UpdatedAt = time.Now().Add(-24 * time.Hour)
	require.NoError(t, store.CreateSession(ctx, stale))

	// Finished just now: still reported so a watcher sees the transition
	fresh := newWorkSession("alice")
	fresh.State = models.StateCompleted
	require.NoError(t, store.CreateSession(ctx, fresh))

	// Non-terminal sessions are reported regardless of age
	paused := newWorkSession("alice")
	paused.State = models.StatePaused
	paused.UpdatedAt = time.Now().Add(-48 * time.Hour)
	require.NoError(t, store.CreateSession(ctx, paused))

	refs, err := store.ListSessionRefs(ctx, "alice", time.Hour)
	require.NoError(t, err)

	ids := map[string]bool{}
	for _, ref := range refs {
		ids[ref.ID] = true
	}
	assert.False(t, ids[stale.ID], "day-old terminal session should be skipped")
	assert.True(t, ids[fresh.ID])
	assert.True(t, ids[paused.ID])
}

func TestCountCompletedWork(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	n, err := store.CountCompletedWork(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, n)

	for i := 0; i < 3; i++ {
		s := newWorkSession("alice")
		s.State = models.StateCompleted
		require.NoError(t, store.CreateSession(ctx, s))
	}
	// Cancelled work and completed breaks don't count
	cancelled := newWorkSession("alice")
	cancelled.State = models.StateCancelled
	require.NoError(t, store.CreateSession(ctx, cancelled))
	brk := newWorkSession("alice")
	brk.Type = models.SessionLongBreak
	brk.State = models.StateCompleted
	require.NoError(t, store.CreateSession(ctx, brk))

	n, err = store.CountCompletedWork(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestFindByIDPrefix(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess := newWorkSession("alice")
	sess.ID = "abcdef12-3456-7890-abcd-ef1234567890"
	require.NoError(t, store.CreateSession(ctx, sess))

	got, err := store.FindByIDPrefix(ctx, "alice", "abcdef12")
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)

	got, err = store.FindByIDPrefix(ctx, "alice", sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)

	_, err = store.FindByIDPrefix(ctx, "alice", "zzz")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Someone else's session is invisible
	_, err = store.FindByIDPrefix(ctx, "bob", "abcdef12")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestUserSettingsSeededOnce(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	defaults := models.UserSettings{
		WorkSeconds:       1500,
		ShortBreakSeconds: 300,
		LongBreakSeconds:  900,
		AutoStartBreaks:   true,
		LongBreakInterval: 4,
	}

	settings, err := store.GetUserSettings(ctx, "alice", defaults)
	require.NoError(t, err)
	assert.Equal(t, "alice", settings.UserID)
	assert.Equal(t, 1500, settings.WorkSeconds)

	settings.WorkSeconds = 3000
	require.NoError(t, store.SaveUserSettings(ctx, settings))

	// Defaults don't clobber the saved row
	again, err := store.GetUserSettings(ctx, "alice", defaults)
	require.NoError(t, err)
	assert.Equal(t, 3000, again.WorkSeconds)
}
