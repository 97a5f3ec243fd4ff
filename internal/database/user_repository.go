package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/JustLearn2025/JustLearnBot/pkg/models"
)

// UserRepository handles database operations for users
type UserRepository struct{}

// NewUserRepository creates a new repository instance
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// EnsureExists creates the user row if it is not present yet
func (r *UserRepository) EnsureExists(userID string) error {
	var query string
	if DB.DriverName() == "postgres" {
		query = "INSERT INTO users (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING"
	} else {
		query = "INSERT OR IGNORE INTO users (user_id) VALUES (?)"
	}

	if _, err := DB.Exec(query, userID); err != nil {
		return fmt.Errorf("failed to ensure user exists: %v", err)
	}
	return nil
}

// GetByID returns a user by ID, or nil if unknown
func (r *UserRepository) GetByID(userID string) (*models.User, error) {
	var user models.User
	err := DB.Get(&user, DB.Rebind("SELECT * FROM users WHERE user_id = ?"), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	return &user, nil
}

// GetLanguage returns the user's language preference, defaulting to "en"
func (r *UserRepository) GetLanguage(userID string) (string, error) {
	var language string
	err := DB.Get(&language, DB.Rebind("SELECT language FROM users WHERE user_id = ?"), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "en", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get user language: %v", err)
	}
	return language, nil
}

// SetLanguage stores the user's language preference
func (r *UserRepository) SetLanguage(userID, language string) error {
	if err := r.EnsureExists(userID); err != nil {
		return err
	}

	query := "UPDATE users SET language = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ?"
	if _, err := DB.Exec(DB.Rebind(query), language, userID); err != nil {
		return fmt.Errorf("failed to set user language: %v", err)
	}
	return nil
}
