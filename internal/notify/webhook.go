package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/arisanov/pomo/internal/models"
)

// WebhookSink posts a completion payload to an external delivery
// provider. SMS and push gateways are both driven through this shape;
// the provider behind the URL is opaque to the engine. An empty URL
// puts the sink in dev mode, logging the payload instead.
type WebhookSink struct {
	channel Channel
	url     string
	client  *http.Client
	logger  *log.Logger
}

// NewWebhookSink builds a sink for the given channel posting to url.
func NewWebhookSink(channel Channel, url string, logger *log.Logger) *WebhookSink {
	if logger == nil {
		logger = log.Default()
	}
	if url == "" {
		logger.Printf("notify: %s sink running in dev mode (logging to console)", channel)
	}
	return &WebhookSink{
		channel: channel,
		url:     url,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

func (s *WebhookSink) Channel() Channel { return s.channel }

type webhookPayload struct {
	Channel     Channel            `json:"channel"`
	SessionID   string             `json:"session_id"`
	UserID      string             `json:"user_id"`
	Type        models.SessionType `json:"type"`
	Phone       string             `json:"phone,omitempty"`
	ActualSecs  int                `json:"actual_seconds"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
}

func (s *WebhookSink) Notify(ctx context.Context, settings models.UserSettings, sess models.Session) error {
	payload := webhookPayload{
		Channel:     s.channel,
		SessionID:   sess.ID,
		UserID:      sess.UserID,
		Type:        sess.Type,
		ActualSecs:  sess.ActualSeconds,
		CompletedAt: sess.CompletedAt,
	}
	if s.channel == ChannelSMS {
		payload.Phone = settings.PhoneNumber
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if s.url == "" {
		s.logger.Printf("notify: [dev %s] %s", s.channel, body)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s webhook returned %s", s.channel, resp.Status)
	}
	return nil
}
