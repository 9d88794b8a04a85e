package models

import "time"

// UserSettings holds per-user timer preferences. One row per user,
// seeded from config defaults the first time the user is seen.
type UserSettings struct {
	UserID    string    `gorm:"primarykey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	WorkSeconds       int `gorm:"not null;default:1500" json:"work_seconds"`
	ShortBreakSeconds int `gorm:"not null;default:300" json:"short_break_seconds"`
	LongBreakSeconds  int `gorm:"not null;default:900" json:"long_break_seconds"`

	AutoStartBreaks   bool `gorm:"default:true" json:"auto_start_breaks"`
	LongBreakInterval int  `gorm:"not null;default:4" json:"long_break_interval"` // every Nth work session earns a long break

	SoundEnabled bool `gorm:"default:true" json:"sound_enabled"`
	EmailEnabled bool `gorm:"default:false" json:"email_enabled"`
	SMSEnabled   bool `gorm:"default:false" json:"sms_enabled"`
	PushEnabled  bool `gorm:"default:false" json:"push_enabled"`

	EmailAddress string `json:"email_address"`
	PhoneNumber  string `json:"phone_number"`
}

// DurationFor returns the user's configured planned duration for a
// session type, in seconds.
func (u *UserSettings) DurationFor(t SessionType) int {
	switch t {
	case SessionShortBreak:
		return u.ShortBreakSeconds
	case SessionLongBreak:
		return u.LongBreakSeconds
	default:
		return u.WorkSeconds
	}
}
