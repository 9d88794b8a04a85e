package notify

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"

	"github.com/arisanov/pomo/internal/models"
)

// SMTPConfig holds the mail relay credentials.
type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// EmailSink sends a completion summary over SMTP. When the relay is
// not configured it runs in dev mode and logs the message instead.
type EmailSink struct {
	cfg     SMTPConfig
	logger  *log.Logger
	devMode bool
}

// NewEmailSink builds an EmailSink. logger may be nil for the default.
func NewEmailSink(cfg SMTPConfig, logger *log.Logger) *EmailSink {
	if logger == nil {
		logger = log.Default()
	}
	devMode := cfg.Host == "" || cfg.User == ""
	if devMode {
		logger.Println("notify: email sink running in dev mode (logging to console)")
	}
	return &EmailSink{cfg: cfg, logger: logger, devMode: devMode}
}

func (s *EmailSink) Channel() Channel { return ChannelEmail }

func (s *EmailSink) Notify(_ context.Context, settings models.UserSettings, sess models.Session) error {
	to := settings.EmailAddress
	if to == "" {
		return fmt.Errorf("no email address configured for user %s", sess.UserID)
	}

	subject := fmt.Sprintf("%s session complete", sessionLabel(sess.Type))
	body := fmt.Sprintf("Your %s session finished after %s of focused time.",
		strings.ToLower(sessionLabel(sess.Type)),
		(time.Duration(sess.ActualSeconds) * time.Second).String())

	if s.devMode {
		s.logger.Printf("notify: [dev email] to=%s subject=%q body=%q", to, subject, body)
		return nil
	}

	msg := strings.Join([]string{
		"From: " + s.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	addr := s.cfg.Host + ":" + s.cfg.Port
	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg))
}
