package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long:  "Show the settings in effect for this user: config file values, environment overrides and defaults merged.",
	Run: withApp(func(cmd *cobra.Command, args []string) {
		settings, err := eng.Settings(context.Background(), cfg.User)
		if err != nil {
			printCommandError(err)
			return
		}

		fmt.Printf("User:                %s\n", cfg.User)
		fmt.Printf("Poll interval:       %s\n", cfg.PollInterval)
		fmt.Printf("Cache capacity:      %d\n", cfg.CacheCapacity)
		fmt.Println()
		fmt.Printf("Work session:        %s\n", formatSeconds(settings.WorkSeconds))
		fmt.Printf("Short break:         %s\n", formatSeconds(settings.ShortBreakSeconds))
		fmt.Printf("Long break:          %s\n", formatSeconds(settings.LongBreakSeconds))
		fmt.Printf("Auto-start breaks:   %t\n", settings.AutoStartBreaks)
		fmt.Printf("Long break interval: every %d work sessions\n", settings.LongBreakInterval)
		fmt.Println()
		fmt.Printf("Notifications:       sound=%t email=%t sms=%t push=%t\n",
			settings.SoundEnabled, settings.EmailEnabled, settings.SMSEnabled, settings.PushEnabled)
	}),
}
