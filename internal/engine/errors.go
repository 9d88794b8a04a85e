package engine

import (
	"errors"
	"fmt"

	"github.com/arisanov/pomo/internal/models"
)

// ErrInvalidState means the command is not legal from the session's
// current state. Never retried automatically.
var ErrInvalidState = errors.New("command not valid in current session state")

// ErrNotFound means the session id does not exist.
var ErrNotFound = errors.New("session not found")

// ErrStoreUnavailable wraps persistence timeouts/unavailability. The
// engine leaves no partial state behind, so the whole operation can be
// retried by the caller.
var ErrStoreUnavailable = errors.New("session store unavailable")

// ConflictError is returned when the single-active-session invariant
// would be violated, or when a concurrent write won the race.
// ActiveSessionID carries the blocking session when known, so the UI
// can offer "cancel it and start new".
type ConflictError struct {
	ActiveSessionID string
}

func (e *ConflictError) Error() string {
	if e.ActiveSessionID != "" {
		return fmt.Sprintf("another session is already running (%s)", e.ActiveSessionID)
	}
	return "session was modified concurrently, re-fetch and retry"
}

// invalidState builds an ErrInvalidState with the offending command and
// state in the message.
func invalidState(op string, state models.SessionState) error {
	return fmt.Errorf("cannot %s a %s session: %w", op, state, ErrInvalidState)
}
