package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arisanov/pomo/internal/engine"
	"github.com/arisanov/pomo/internal/models"
	"github.com/arisanov/pomo/internal/tui"
)

var newCmd = &cobra.Command{
	Use:   "new [work|short-break|long-break]",
	Short: "Create a new focus or break session",
	Long: `Create a new session. It stays in the created state (and doesn't
block anything) until you start it.

Examples:
  pomo new                          # 25 min work session from your settings
  pomo new work -m 50               # 50 min work session
  pomo new short-break              # break with your configured duration
  pomo new work --task 42 --start   # create, link to a task and start now`,
	Args: cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string) {
		typ := models.SessionWork
		if len(args) == 1 {
			var ok bool
			typ, ok = parseSessionType(args[0])
			if !ok {
				fmt.Printf("Error: unknown session type '%s' (want work, short-break or long-break)\n", args[0])
				return
			}
		}

		minutes, _ := cmd.Flags().GetInt("minutes")
		taskID, _ := cmd.Flags().GetString("task")
		categoryID, _ := cmd.Flags().GetString("category")
		title, _ := cmd.Flags().GetString("title")
		notes, _ := cmd.Flags().GetString("notes")

		ctx := context.Background()
		sess, err := eng.Create(ctx, cfg.User, typ, minutes*60, engine.CreateOptions{
			TaskID:     taskID,
			CategoryID: categoryID,
			Title:      title,
			Notes:      notes,
		})
		if err != nil {
			printCommandError(err)
			return
		}

		fmt.Printf("🍅 Created %s session %s (%s planned)\n",
			sessionTypeLabel(sess.Type), shortID(sess.ID), formatSeconds(sess.PlannedSeconds))

		autoStart, _ := cmd.Flags().GetBool("start")
		if !autoStart {
			fmt.Printf("   Start it with 'pomo start %s'\n", shortID(sess.ID))
			return
		}

		sess, err = eng.Start(ctx, sess.ID)
		if err != nil {
			printCommandError(err)
			return
		}

		noUI, _ := cmd.Flags().GetBool("no-ui")
		if noUI {
			fmt.Printf("▶️  Started at %s\n", sess.StartedAt.Format("15:04:05"))
			return
		}
		if err := tui.RunTimer(eng, cfg, sess); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}),
}

func init() {
	newCmd.Flags().IntP("minutes", "m", 0, "Planned duration in minutes (default from settings)")
	newCmd.Flags().String("task", "", "Link the session to a task id")
	newCmd.Flags().String("category", "", "Link the session to a category id")
	newCmd.Flags().String("title", "", "Session title")
	newCmd.Flags().String("notes", "", "Free-form notes")
	newCmd.Flags().Bool("start", false, "Start the session immediately")
	newCmd.Flags().Bool("no-ui", false, "With --start, skip the interactive timer")
}

func parseSessionType(s string) (models.SessionType, bool) {
	switch s {
	case "work":
		return models.SessionWork, true
	case "short-break", "short":
		return models.SessionShortBreak, true
	case "long-break", "long":
		return models.SessionLongBreak, true
	default:
		return "", false
	}
}

func sessionTypeLabel(t models.SessionType) string {
	switch t {
	case models.SessionShortBreak:
		return "short break"
	case models.SessionLongBreak:
		return "long break"
	default:
		return "work"
	}
}

// shortID keeps printed ids readable; every command accepts the prefix
// as well as the full id.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
