package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/arisanov/pomo/internal/models"
)

// GetUserSettings loads the user's settings row, creating one from the
// given defaults the first time the user is seen.
func (s *Store) GetUserSettings(ctx context.Context, userID string, defaults models.UserSettings) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := s.db.WithContext(ctx).First(&settings, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = defaults
		settings.UserID = userID
		if err := s.db.WithContext(ctx).Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// SaveUserSettings upserts the user's settings row.
func (s *Store) SaveUserSettings(ctx context.Context, settings *models.UserSettings) error {
	return s.db.WithContext(ctx).Save(settings).Error
}
