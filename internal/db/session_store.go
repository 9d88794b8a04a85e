package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/arisanov/pomo/internal/models"
)

// ErrStaleVersion is returned when a write carries a version token that
// no longer matches the stored row: someone else got there first.
var ErrStaleVersion = errors.New("session was modified concurrently")

// ErrSessionNotFound is returned when a session id doesn't exist.
var ErrSessionNotFound = errors.New("session not found")

// Store wraps a gorm handle with the session and settings queries the
// engine needs. All methods honour the caller's context deadline.
type Store struct {
	db *gorm.DB
}

// NewStore returns a Store over the given database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Default returns a Store over the package-level connection opened by
// Initialize.
func Default() *Store {
	return &Store{db: DB}
}

// CreateSession inserts a new session record.
func (s *Store) CreateSession(ctx context.Context, sess *models.Session) error {
	return s.db.WithContext(ctx).Create(sess).Error
}

// GetSession loads a session by id.
func (s *Store) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var sess models.Session
	err := s.db.WithContext(ctx).First(&sess, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// UpdateSession writes the session back, guarded by its version token.
// On success the record's version is bumped and the struct refreshed to
// the stored row. Returns ErrStaleVersion when a concurrent writer won.
func (s *Store) UpdateSession(ctx context.Context, sess *models.Session) error {
	res := s.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ? AND version = ?", sess.ID, sess.Version).
		Updates(map[string]interface{}{
			"state":          sess.State,
			"actual_seconds": sess.ActualSeconds,
			"started_at":     sess.StartedAt,
			"paused_at":      sess.PausedAt,
			"resumed_at":     sess.ResumedAt,
			"completed_at":   sess.CompletedAt,
			"cancelled_at":   sess.CancelledAt,
			"title":          sess.Title,
			"notes":          sess.Notes,
			"version":        sess.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Either the row is gone or the token is stale
		var exists models.Session
		err := s.db.WithContext(ctx).Select("id").First(&exists, "id = ?", sess.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		return ErrStaleVersion
	}
	sess.Version++
	return nil
}

// FindByIDPrefix resolves a possibly-shortened session id for a user.
// Exact match wins; otherwise the prefix must be unambiguous.
func (s *Store) FindByIDPrefix(ctx context.Context, userID, prefix string) (*models.Session, error) {
	if sess, err := s.GetSession(ctx, prefix); err == nil && sess.UserID == userID {
		return sess, nil
	}

	var matches []models.Session
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND id LIKE ?", userID, prefix+"%").
		Limit(2).
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, ErrSessionNotFound
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("session id %q is ambiguous", prefix)
	}
}

// ActiveSession returns the user's session holding the active slot
// (Active or Paused), or nil when there is none.
func (s *Store) ActiveSession(ctx context.Context, userID string) (*models.Session, error) {
	var sess models.Session
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND state IN ?", userID, []models.SessionState{models.StateActive, models.StatePaused}).
		First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // No active session is not an error
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// SessionFilter narrows ListSessions results. Zero value lists
// everything for the user, newest first.
type SessionFilter struct {
	States []models.SessionState
	Types  []models.SessionType
	Since  *time.Time
	Limit  int
}

// ListSessions returns the user's sessions matching the filter,
// ordered by creation time descending.
func (s *Store) ListSessions(ctx context.Context, userID string, filter SessionFilter) ([]models.Session, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if len(filter.States) > 0 {
		q = q.Where("state IN ?", filter.States)
	}
	if len(filter.Types) > 0 {
		q = q.Where("type IN ?", filter.Types)
	}
	if filter.Since != nil {
		q = q.Where("created_at >= ?", *filter.Since)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var sessions []models.Session
	if err := q.Order("created_at DESC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// SessionRef is the cheap id+state projection the reconcile loop diffs
// on.
type SessionRef struct {
	ID    string
	State models.SessionState
}

// ListSessionRefs returns just id and state for the user's sessions
// the diff still cares about: everything non-terminal, plus terminal
// sessions touched within recentWindow so their final transition is
// still observed. Older history can no longer change and would only
// churn the cache. Full records are resolved through the cache.
func (s *Store) ListSessionRefs(ctx context.Context, userID string, recentWindow time.Duration) ([]SessionRef, error) {
	cutoff := time.Now().Add(-recentWindow)
	var refs []SessionRef
	err := s.db.WithContext(ctx).Model(&models.Session{}).
		Select("id", "state").
		Where("user_id = ? AND (state IN ? OR updated_at >= ?)",
			userID,
			[]models.SessionState{models.StateCreated, models.StateActive, models.StatePaused},
			cutoff).
		Order("created_at DESC").
		Find(&refs).Error
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// CountCompletedWork returns how many Work sessions the user has
// completed. The chaining policy derives its rolling counter from this
// rather than keeping a mutable row that could drift.
func (s *Store) CountCompletedWork(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Session{}).
		Where("user_id = ? AND type = ? AND state = ?", userID, models.SessionWork, models.StateCompleted).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count completed work sessions: %w", err)
	}
	return n, nil
}
