package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/JustLearn2025/JustLearnBot/pkg/models"
)

// ReminderRepository handles per-user reminder settings
type ReminderRepository struct{}

// NewReminderRepository creates a new repository instance
func NewReminderRepository() *ReminderRepository {
	return &ReminderRepository{}
}

// Get returns the reminder settings for a user, with defaults if unset
func (r *ReminderRepository) Get(userID string) (*models.ReminderSettings, error) {
	var settings models.ReminderSettings
	query := "SELECT user_id, enabled, hour, timezone FROM user_reminders WHERE user_id = ?"
	err := DB.Get(&settings, DB.Rebind(query), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.ReminderSettings{UserID: userID, Enabled: false, Hour: 9, Timezone: "UTC"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder settings: %v", err)
	}
	return &settings, nil
}

// Save stores the reminder settings for a user
func (r *ReminderRepository) Save(settings *models.ReminderSettings) error {
	userRepo := NewUserRepository()
	if err := userRepo.EnsureExists(settings.UserID); err != nil {
		return err
	}

	var query string
	if DB.DriverName() == "postgres" {
		query = `
			INSERT INTO user_reminders (user_id, enabled, hour, timezone, updated_at)
			VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
			ON CONFLICT (user_id) DO UPDATE SET
				enabled = EXCLUDED.enabled,
				hour = EXCLUDED.hour,
				timezone = EXCLUDED.timezone,
				updated_at = CURRENT_TIMESTAMP
		`
	} else {
		query = `
			INSERT OR REPLACE INTO user_reminders (user_id, enabled, hour, timezone, updated_at)
			VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		`
	}

	_, err := DB.Exec(query, settings.UserID, settings.Enabled, settings.Hour, settings.Timezone)
	if err != nil {
		return fmt.Errorf("failed to save reminder settings: %v", err)
	}
	return nil
}

// ListEnabled returns the settings of all users with reminders enabled
func (r *ReminderRepository) ListEnabled() ([]models.ReminderSettings, error) {
	var settings []models.ReminderSettings
	query := "SELECT user_id, enabled, hour, timezone FROM user_reminders WHERE enabled = ?"
	err := DB.Select(&settings, DB.Rebind(query), true)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminder settings: %v", err)
	}
	return settings, nil
}
