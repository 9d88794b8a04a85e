package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/arisanov/pomo/internal/models"
)

// SoundSink plays the completion cue. It prefers a desktop
// notification daemon when one is reachable and falls back to the
// terminal bell.
type SoundSink struct {
	out      io.Writer
	lookPath func(string) (string, error)
}

// NewSoundSink builds a SoundSink writing its bell to out. A nil out
// means stdout.
func NewSoundSink(out io.Writer) *SoundSink {
	if out == nil {
		out = os.Stdout
	}
	return &SoundSink{out: out, lookPath: exec.LookPath}
}

func (s *SoundSink) Channel() Channel { return ChannelSound }

func (s *SoundSink) Notify(ctx context.Context, _ models.UserSettings, sess models.Session) error {
	title := "Session complete"
	body := fmt.Sprintf("%s session finished", sessionLabel(sess.Type))

	if path, err := s.lookPath("notify-send"); err == nil {
		if err := exec.CommandContext(ctx, path, title, body).Run(); err == nil {
			return nil
		}
		// Daemon present but flaky: still ring the bell below
	}

	_, err := fmt.Fprint(s.out, "\a")
	return err
}

func sessionLabel(t models.SessionType) string {
	switch t {
	case models.SessionShortBreak:
		return "Short break"
	case models.SessionLongBreak:
		return "Long break"
	default:
		return "Work"
	}
}
