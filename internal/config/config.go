package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/arisanov/pomo/internal/models"
	"github.com/arisanov/pomo/internal/notify"
)

// Config is everything read from ~/.pomo/config.toml plus POMO_*
// environment overrides. Missing file means defaults.
type Config struct {
	User string

	PollInterval  time.Duration
	CacheCapacity int

	Defaults models.UserSettings

	SMTP           notify.SMTPConfig
	SMSWebhookURL  string
	PushWebhookURL string
}

// Load reads the config from the default location.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	v := viper.New()
	v.AddConfigPath(filepath.Join(home, ".pomo"))
	return LoadFrom(v)
}

// LoadFrom reads config through the given viper instance, so tests can
// point it at a fixture directory or feed values directly.
func LoadFrom(v *viper.Viper) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.SetEnvPrefix("POMO")
	v.AutomaticEnv()

	v.SetDefault("user", "local")
	v.SetDefault("poll_interval", "5s")
	v.SetDefault("cache_capacity", 100)

	v.SetDefault("timer.work_minutes", 25)
	v.SetDefault("timer.short_break_minutes", 5)
	v.SetDefault("timer.long_break_minutes", 15)
	v.SetDefault("timer.auto_start_breaks", true)
	v.SetDefault("timer.long_break_interval", 4)

	v.SetDefault("notify.sound", true)
	v.SetDefault("notify.email", false)
	v.SetDefault("notify.sms", false)
	v.SetDefault("notify.push", false)
	v.SetDefault("notify.email_address", "")
	v.SetDefault("notify.phone_number", "")

	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", "587")
	v.SetDefault("smtp.user", "")
	v.SetDefault("smtp.pass", "")
	v.SetDefault("smtp.from", "pomo@localhost")

	v.SetDefault("webhook.sms_url", "")
	v.SetDefault("webhook.push_url", "")

	if err := v.ReadInConfig(); err != nil {
		// No file is fine, a broken file is not
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		User:          v.GetString("user"),
		PollInterval:  v.GetDuration("poll_interval"),
		CacheCapacity: v.GetInt("cache_capacity"),
		Defaults: models.UserSettings{
			WorkSeconds:       v.GetInt("timer.work_minutes") * 60,
			ShortBreakSeconds: v.GetInt("timer.short_break_minutes") * 60,
			LongBreakSeconds:  v.GetInt("timer.long_break_minutes") * 60,
			AutoStartBreaks:   v.GetBool("timer.auto_start_breaks"),
			LongBreakInterval: v.GetInt("timer.long_break_interval"),
			SoundEnabled:      v.GetBool("notify.sound"),
			EmailEnabled:      v.GetBool("notify.email"),
			SMSEnabled:        v.GetBool("notify.sms"),
			PushEnabled:       v.GetBool("notify.push"),
			EmailAddress:      v.GetString("notify.email_address"),
			PhoneNumber:       v.GetString("notify.phone_number"),
		},
		SMTP: notify.SMTPConfig{
			Host: v.GetString("smtp.host"),
			Port: v.GetString("smtp.port"),
			User: v.GetString("smtp.user"),
			Pass: v.GetString("smtp.pass"),
			From: v.GetString("smtp.from"),
		},
		SMSWebhookURL:  v.GetString("webhook.sms_url"),
		PushWebhookURL: v.GetString("webhook.push_url"),
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	return cfg, nil
}
