package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/JustLearn2025/JustLearnBot/pkg/models"
)

// SessionRepository persists the single active session per user as an opaque
// JSON snapshot
type SessionRepository struct{}

// NewSessionRepository creates a new repository instance
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

// Load returns the persisted session for a user, or nil if none exists
func (r *SessionRepository) Load(userID string) (*models.Session, error) {
	var data string
	err := DB.Get(&data, DB.Rebind("SELECT session_data FROM user_sessions WHERE user_id = ?"), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %v", err)
	}

	var session models.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %v", err)
	}
	return &session, nil
}

// Save stores the session snapshot for a user, replacing any previous one
func (r *SessionRepository) Save(session *models.Session) error {
	userRepo := NewUserRepository()
	if err := userRepo.EnsureExists(session.UserID); err != nil {
		return err
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %v", err)
	}

	var query string
	if DB.DriverName() == "postgres" {
		query = `
			INSERT INTO user_sessions (user_id, session_data)
			VALUES ($1, $2)
			ON CONFLICT (user_id) DO UPDATE SET session_data = EXCLUDED.session_data
		`
	} else {
		query = `
			INSERT OR REPLACE INTO user_sessions (user_id, session_data)
			VALUES (?, ?)
		`
	}

	_, err = DB.Exec(query, session.UserID, string(data))
	if err != nil {
		return fmt.Errorf("failed to save session: %v", err)
	}
	return nil
}

// Delete removes the persisted session for a user. Deleting a user with no
// session is not an error.
func (r *SessionRepository) Delete(userID string) error {
	_, err := DB.Exec(DB.Rebind("DELETE FROM user_sessions WHERE user_id = ?"), userID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %v", err)
	}
	return nil
}
