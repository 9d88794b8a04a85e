package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arisanov/pomo/internal/config"
	"github.com/arisanov/pomo/internal/db"
	"github.com/arisanov/pomo/internal/engine"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfg *config.Config
	eng *engine.Engine
)

var rootCmd = &cobra.Command{
	Use:   "pomo",
	Short: "A focus timer for your tasks",
	Long: `pomo runs timed work and break sessions from the terminal.
Start a focus session, pause and resume it, and let breaks chain
automatically — the session record in the local database stays
authoritative no matter how many terminals are watching.`,
}

// initApp loads config, opens the database and builds the engine.
// Panics on failure: there is nothing sensible to do without a
// database.
func initApp() {
	c, err := config.Load()
	if err != nil {
		panic(err)
	}
	cfg = c

	if err := db.Initialize(); err != nil {
		panic(err)
	}
	eng = engine.New(db.Default(), cfg.Defaults, nil)
}

// withApp wraps a command function to initialize everything first
func withApp(fn func(*cobra.Command, []string)) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		initApp()
		fn(cmd, args)
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pomo %s (commit %s, built %s)\n", version, commit, date)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
