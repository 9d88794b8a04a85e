package models

import (
	"time"
)

// SessionType distinguishes focused work from the two break lengths.
type SessionType string

const (
	SessionWork       SessionType = "work"
	SessionShortBreak SessionType = "short_break"
	SessionLongBreak  SessionType = "long_break"
)

// SessionState is the lifecycle state of a session.
type SessionState string

const (
	StateCreated   SessionState = "created"
	StateActive    SessionState = "active"
	StatePaused    SessionState = "paused"
	StateCompleted SessionState = "completed"
	StateCancelled SessionState = "cancelled"
)

// Session represents one timed work or break interval
type Session struct {
	ID        string    `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID string       `gorm:"not null;index" json:"user_id"`
	Type   SessionType  `gorm:"not null" json:"type"`
	State  SessionState `gorm:"not null;default:created;index" json:"state"`

	PlannedSeconds int `gorm:"not null" json:"planned_seconds"`
	ActualSeconds  int `json:"actual_seconds"` // accumulated active time, pauses excluded

	StartedAt   *time.Time `json:"started_at"`
	PausedAt    *time.Time `json:"paused_at"`
	ResumedAt   *time.Time `json:"resumed_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	// Optional links into the surrounding task app, opaque here
	TaskID     string `json:"task_id"`
	CategoryID string `json:"category_id"`

	Title string `json:"title"`
	Notes string `json:"notes"`

	// Optimistic concurrency token, bumped on every write
	Version int64 `gorm:"not null;default:0" json:"version"`
}

// Terminal reports whether the session can no longer change.
func (s *Session) Terminal() bool {
	return s.State == StateCompleted || s.State == StateCancelled
}

// Running reports whether the session occupies the user's single
// active slot (Active or Paused).
func (s *Session) Running() bool {
	return s.State == StateActive || s.State == StatePaused
}

// lastActiveBoundary is the start of the current active interval:
// the latest resume if one happened, otherwise the original start.
func (s *Session) lastActiveBoundary() *time.Time {
	if s.ResumedAt != nil {
		return s.ResumedAt
	}
	return s.StartedAt
}

// ElapsedSeconds returns active time accumulated so far, including the
// interval currently in flight when the session is Active.
func (s *Session) ElapsedSeconds(now time.Time) int {
	elapsed := s.ActualSeconds
	if s.State == StateActive {
		if b := s.lastActiveBoundary(); b != nil {
			elapsed += int(now.Sub(*b).Seconds())
		}
	}
	return elapsed
}

// RemainingSeconds returns planned time not yet worked, never negative.
func (s *Session) RemainingSeconds(now time.Time) int {
	remaining := s.PlannedSeconds - s.ElapsedSeconds(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}
