// Package notify fans out best-effort completion notifications. Every
// channel is independent: a failing provider is logged and swallowed,
// never letting it block another channel or the completion itself.
// Delivery is at-most-once per channel per completion, no retries.
package notify

import (
	"context"
	"log"
	"time"

	"github.com/arisanov/pomo/internal/engine"
	"github.com/arisanov/pomo/internal/models"
)

// Channel identifies a delivery mechanism.
type Channel string

const (
	ChannelSound Channel = "sound"
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
)

// Sink delivers one notification on one channel.
type Sink interface {
	Channel() Channel
	Notify(ctx context.Context, settings models.UserSettings, sess models.Session) error
}

// SettingsFunc resolves a user's settings, deciding which channels are
// enabled.
type SettingsFunc func(ctx context.Context, userID string) (*models.UserSettings, error)

// Dispatcher routes completion events to the enabled sinks.
type Dispatcher struct {
	sinks    []Sink
	settings SettingsFunc
	logger   *log.Logger
	timeout  time.Duration
}

// NewDispatcher builds a Dispatcher over the given sinks. logger may
// be nil for the default.
func NewDispatcher(settings SettingsFunc, logger *log.Logger, sinks ...Sink) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{
		sinks:    sinks,
		settings: settings,
		logger:   logger,
		timeout:  10 * time.Second,
	}
}

// HandleEvent is a Bus handler. Only completions notify; a cancelled
// session stays quiet.
func (d *Dispatcher) HandleEvent(e engine.Event) {
	if e.Name != engine.EventCompleted {
		return
	}
	d.Dispatch(context.Background(), e.Session)
}

// Dispatch fans the completed session out to every enabled channel.
func (d *Dispatcher) Dispatch(ctx context.Context, sess models.Session) {
	settings, err := d.settings(ctx, sess.UserID)
	if err != nil {
		d.logger.Printf("notify: failed to load settings for %s: %v", sess.UserID, err)
		return
	}

	for _, sink := range d.sinks {
		if !channelEnabled(settings, sink.Channel()) {
			continue
		}
		d.deliver(ctx, sink, *settings, sess)
	}
}

// deliver wraps one sink call so neither an error nor a panic escapes
// the dispatch.
func (d *Dispatcher) deliver(ctx context.Context, sink Sink, settings models.UserSettings, sess models.Session) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Printf("notify: %s sink panicked for session %s: %v", sink.Channel(), sess.ID, r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := sink.Notify(ctx, settings, sess); err != nil {
		d.logger.Printf("notify: %s delivery failed for session %s: %v", sink.Channel(), sess.ID, err)
	}
}

func channelEnabled(settings *models.UserSettings, ch Channel) bool {
	switch ch {
	case ChannelSound:
		return settings.SoundEnabled
	case ChannelEmail:
		return settings.EmailEnabled
	case ChannelSMS:
		return settings.SMSEnabled
	case ChannelPush:
		return settings.PushEnabled
	default:
		return false
	}
}
