package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/arisanov/pomo/internal/db"
	"github.com/arisanov/pomo/internal/models"
)

var listCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List sessions",
	Long:    "List sessions with optional filters for state, type and date range",
	Run: withApp(func(cmd *cobra.Command, args []string) {
		filter := db.SessionFilter{}

		if state, _ := cmd.Flags().GetString("state"); state != "" {
			filter.States = []models.SessionState{models.SessionState(state)}
		}
		if typ, _ := cmd.Flags().GetString("type"); typ != "" {
			t, ok := parseSessionType(typ)
			if !ok {
				fmt.Printf("Error: unknown session type '%s'\n", typ)
				return
			}
			filter.Types = []models.SessionType{t}
		}
		if today, _ := cmd.Flags().GetBool("today"); today {
			y, m, d := time.Now().Date()
			midnight := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
			filter.Since = &midnight
		}
		filter.Limit, _ = cmd.Flags().GetInt("limit")

		sessions, err := eng.List(context.Background(), cfg.User, filter)
		if err != nil {
			printCommandError(err)
			return
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions found. Use 'pomo new' to create your first session.")
			return
		}

		// Print table header
		fmt.Printf("%-10s %-12s %-10s %-9s %-9s %-30s\n", "ID", "TYPE", "STATE", "PLANNED", "ACTUAL", "TITLE")
		fmt.Println(strings.Repeat("-", 84))

		for _, sess := range sessions {
			title := sess.Title
			if len(title) > 28 {
				title = title[:25] + "..."
			}

			fmt.Printf("%-10s %-12s %-10s %-9s %-9s %-30s\n",
				shortID(sess.ID),
				sessionTypeLabel(sess.Type),
				sess.State,
				formatSeconds(sess.PlannedSeconds),
				formatSeconds(sess.ActualSeconds),
				title)
		}
	}),
}

func init() {
	listCmd.Flags().StringP("state", "s", "", "Filter by state: created, active, paused, completed, cancelled")
	listCmd.Flags().StringP("type", "t", "", "Filter by type: work, short-break, long-break")
	listCmd.Flags().Bool("today", false, "Show only today's sessions")
	listCmd.Flags().IntP("limit", "n", 0, "Limit the number of rows")
}

// listFilter is a small helper for single-state lookups.
func listFilter(state models.SessionState, limit int) db.SessionFilter {
	return db.SessionFilter{
		States: []models.SessionState{state},
		Limit:  limit,
	}
}
