package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/arisanov/pomo/internal/cache"
	"github.com/arisanov/pomo/internal/db"
	"github.com/arisanov/pomo/internal/engine"
	"github.com/arisanov/pomo/internal/models"
	"github.com/arisanov/pomo/internal/notify"
	"github.com/arisanov/pomo/internal/reconcile"
)

// recentTerminalWindow is how long a completed or cancelled session
// keeps showing up in the poll after its last change, long enough for
// any poll interval to catch the final transition.
const recentTerminalWindow = 10 * time.Minute

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch sessions and run break chaining + notifications",
	Long: `Follow the session store and react to changes: print every
transition, auto-complete a session whose planned time has elapsed,
auto-start breaks after work sessions, and fire the configured
notification channels. Typically left running in its own terminal
while other terminals issue commands.

Press Ctrl+C to stop watching; the session itself is untouched.`,
	Run: withApp(func(cmd *cobra.Command, args []string) {
		interval := cfg.PollInterval
		if flagInterval, _ := cmd.Flags().GetDuration("interval"); flagInterval > 0 {
			interval = flagInterval
		}

		logger := log.New(os.Stderr, "", log.LstdFlags)
		bus := engine.NewBus()

		// Chaining and notifications hang off the observed changes, so
		// they fire exactly once per real transition no matter how
		// often we poll.
		chainer := engine.NewChainer(eng, logger)
		bus.Subscribe(chainer.HandleEvent)

		dispatcher := notify.NewDispatcher(eng.Settings, logger,
			notify.NewSoundSink(os.Stdout),
			notify.NewEmailSink(cfg.SMTP, logger),
			notify.NewWebhookSink(notify.ChannelSMS, cfg.SMSWebhookURL, logger),
			notify.NewWebhookSink(notify.ChannelPush, cfg.PushWebhookURL, logger),
		)
		bus.Subscribe(dispatcher.HandleEvent)

		bus.Subscribe(func(e engine.Event) {
			fmt.Printf("%s  %-17s %s %s\n",
				e.ObservedAt.Format("15:04:05"), e.Name,
				sessionTypeLabel(e.Session.Type), shortID(e.Session.ID))
		})

		// Each tick fetches only id+state and resolves full records
		// through the bounded cache, so the hot session is read from
		// the store once, not every poll.
		sessionCache := cache.New(cfg.CacheCapacity)
		store := db.Default()
		fetch := func(ctx context.Context) ([]models.Session, error) {
			refs, err := store.ListSessionRefs(ctx, cfg.User, recentTerminalWindow)
			if err != nil {
				return nil, err
			}
			sessions := make([]models.Session, 0, len(refs))
			for _, ref := range refs {
				if sess, ok := sessionCache.Get(ref.ID); ok && sess.State == ref.State {
					sessions = append(sessions, sess)
					continue
				}
				sess, err := eng.Get(ctx, ref.ID)
				if err != nil {
					return nil, err
				}
				sessionCache.Put(*sess)
				sessions = append(sessions, *sess)
			}
			return sessions, nil
		}

		loop := reconcile.New(fetch, bus,
			reconcile.WithInterval(interval),
			reconcile.WithLogger(logger),
			reconcile.WithCompleter(func(ctx context.Context, id string) error {
				_, err := eng.Complete(ctx, id)
				return err
			}),
		)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("👀 Watching sessions for %s every %s (Ctrl+C to stop)\n", cfg.User, interval)
		loop.Run(ctx)

		stats := sessionCache.Stats()
		fmt.Printf("\nStopped. Cache: %d resident, %.0f%% hit rate\n",
			sessionCache.Len(), stats.HitRate*100)
	}),
}

func init() {
	watchCmd.Flags().Duration("interval", 0, "Poll interval (default from config, 5s)")
}
