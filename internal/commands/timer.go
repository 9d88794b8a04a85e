package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arisanov/pomo/internal/engine"
	"github.com/arisanov/pomo/internal/models"
	"github.com/arisanov/pomo/internal/tui"
)

var startCmd = &cobra.Command{
	Use:   "start [session-id]",
	Short: "Start a created session",
	Long: `Start a session. With no argument the most recently created,
not-yet-started session is used. Opens the interactive timer by
default, use --no-ui for a plain start.

Examples:
  pomo start            # start the latest created session with the timer UI
  pomo start 1a2b3c4d   # start a specific session
  pomo start --no-ui    # start and return to the shell`,
	Args: cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		var id string
		if len(args) == 1 {
			sess, err := eng.Resolve(ctx, cfg.User, args[0])
			if err != nil {
				printCommandError(err)
				return
			}
			id = sess.ID
		} else {
			sess, err := latestCreated(ctx)
			if err != nil {
				printCommandError(err)
				return
			}
			if sess == nil {
				fmt.Println("No session waiting to start. Create one with 'pomo new'.")
				return
			}
			id = sess.ID
		}

		sess, err := eng.Start(ctx, id)
		if err != nil {
			printCommandError(err)
			return
		}

		noUI, _ := cmd.Flags().GetBool("no-ui")
		if noUI {
			fmt.Printf("▶️  Started %s session %s at %s\n",
				sessionTypeLabel(sess.Type), shortID(sess.ID), sess.StartedAt.Format("15:04:05"))
			return
		}
		if err := tui.RunTimer(eng, cfg, sess); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}),
}

var pauseCmd = &cobra.Command{
	Use:   "pause [session-id]",
	Short: "Pause the running session",
	Args:  cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		id, err := resolveTarget(ctx, args)
		if err != nil {
			printCommandError(err)
			return
		}
		sess, err := eng.Pause(ctx, id)
		if err != nil {
			printCommandError(err)
			return
		}
		fmt.Printf("⏸️  Paused %s session %s (%s worked so far)\n",
			sessionTypeLabel(sess.Type), shortID(sess.ID), formatSeconds(sess.ActualSeconds))
	}),
}

var resumeCmd = &cobra.Command{
	Use:   "resume [session-id]",
	Short: "Resume a paused session",
	Args:  cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		id, err := resolveTarget(ctx, args)
		if err != nil {
			printCommandError(err)
			return
		}
		sess, err := eng.Resume(ctx, id)
		if err != nil {
			printCommandError(err)
			return
		}
		fmt.Printf("▶️  Resumed %s session %s (%s remaining)\n",
			sessionTypeLabel(sess.Type), shortID(sess.ID), formatSeconds(sess.RemainingSeconds(time.Now())))
	}),
}

var doneCmd = &cobra.Command{
	Use:   "done [session-id]",
	Short: "Complete the running session",
	Args:  cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		id, err := resolveTarget(ctx, args)
		if err != nil {
			printCommandError(err)
			return
		}
		sess, err := eng.Complete(ctx, id)
		if err != nil {
			printCommandError(err)
			return
		}
		fmt.Printf("✅ Completed %s session %s\n", sessionTypeLabel(sess.Type), shortID(sess.ID))
		fmt.Printf("📊 Focused time: %s of %s planned\n",
			formatSeconds(sess.ActualSeconds), formatSeconds(sess.PlannedSeconds))
	}),
}

var cancelCmd = &cobra.Command{
	Use:   "cancel [session-id]",
	Short: "Abort the running session",
	Args:  cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		id, err := resolveTarget(ctx, args)
		if err != nil {
			printCommandError(err)
			return
		}
		sess, err := eng.Cancel(ctx, id)
		if err != nil {
			printCommandError(err)
			return
		}
		fmt.Printf("❌ Cancelled %s session %s\n", sessionTypeLabel(sess.Type), shortID(sess.ID))
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	Run: withApp(func(cmd *cobra.Command, args []string) {
		sess, err := eng.Active(context.Background(), cfg.User)
		if err != nil {
			printCommandError(err)
			return
		}
		if sess == nil {
			fmt.Println("No session running. Create one with 'pomo new'.")
			return
		}

		now := time.Now()
		state := "running"
		if sess.State == models.StatePaused {
			state = "paused"
		}
		fmt.Printf("🍅 %s session %s — %s\n", sessionTypeLabel(sess.Type), shortID(sess.ID), state)
		if sess.Title != "" {
			fmt.Printf("   %s\n", sess.Title)
		}
		fmt.Printf("   Remaining: %s of %s planned\n",
			formatSeconds(sess.RemainingSeconds(now)), formatSeconds(sess.PlannedSeconds))
		if sess.StartedAt != nil {
			fmt.Printf("   Started at %s\n", sess.StartedAt.Format("15:04:05"))
		}
	}),
}

func init() {
	startCmd.Flags().Bool("no-ui", false, "Start without the interactive timer")
}

// resolveTarget turns an optional id argument into a concrete session
// id, defaulting to the user's active session.
func resolveTarget(ctx context.Context, args []string) (string, error) {
	if len(args) == 1 {
		sess, err := eng.Resolve(ctx, cfg.User, args[0])
		if err != nil {
			return "", err
		}
		return sess.ID, nil
	}
	sess, err := eng.Active(ctx, cfg.User)
	if err != nil {
		return "", err
	}
	if sess == nil {
		return "", fmt.Errorf("no active session: %w", engine.ErrNotFound)
	}
	return sess.ID, nil
}

// latestCreated finds the newest session still waiting to start.
func latestCreated(ctx context.Context) (*models.Session, error) {
	sessions, err := eng.List(ctx, cfg.User, listFilter(models.StateCreated, 1))
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return &sessions[0], nil
}

// printCommandError renders an engine error as an actionable message.
func printCommandError(err error) {
	var conflict *engine.ConflictError
	switch {
	case errors.As(err, &conflict):
		fmt.Printf("⚠️  %v\n", conflict)
		if conflict.ActiveSessionID != "" {
			fmt.Printf("   Finish it with 'pomo done' or drop it with 'pomo cancel %s'\n",
				shortID(conflict.ActiveSessionID))
		}
	case errors.Is(err, engine.ErrInvalidState):
		fmt.Printf("⚠️  %v\n", err)
	case errors.Is(err, engine.ErrNotFound):
		fmt.Printf("Error: %v\n", err)
	case errors.Is(err, engine.ErrStoreUnavailable):
		fmt.Printf("Error: %v — nothing was changed, try again\n", err)
	default:
		fmt.Printf("Error: %v\n", err)
	}
}

// formatSeconds formats a whole-second count the way the list view
// formats durations.
func formatSeconds(seconds int) string {
	return formatDuration(time.Duration(seconds) * time.Second)
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d.Hours() >= 1 {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else if d.Minutes() >= 1 {
		return fmt.Sprintf("%.0fm", d.Minutes())
	} else {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
}
