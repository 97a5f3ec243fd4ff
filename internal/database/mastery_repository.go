package database

import (
	"fmt"

	"github.com/JustLearn2025/JustLearnBot/pkg/models"
)

// masteryTables maps a pool name to its table
var masteryTables = map[models.MasteryPool]string{
	models.WeakTopics:    "user_weak_topics",
	models.NeedsTraining: "user_needs_training",
}

// MasteryRepository handles the per-user weak-topic and needs-training pools.
// The UNIQUE(user_id, topic) constraint keeps entries deduplicated.
type MasteryRepository struct{}

// NewMasteryRepository creates a new repository instance
func NewMasteryRepository() *MasteryRepository {
	return &MasteryRepository{}
}

func masteryTable(pool models.MasteryPool) (string, error) {
	table, ok := masteryTables[pool]
	if !ok {
		return "", fmt.Errorf("unknown mastery pool: %q", pool)
	}
	return table, nil
}

// Add inserts a topic into a user's pool; adding an existing topic is a no-op
func (r *MasteryRepository) Add(userID string, topic string, pool models.MasteryPool) error {
	table, err := masteryTable(pool)
	if err != nil {
		return err
	}

	userRepo := NewUserRepository()
	if err := userRepo.EnsureExists(userID); err != nil {
		return err
	}

	var query string
	if DB.DriverName() == "postgres" {
		query = fmt.Sprintf(`
			INSERT INTO %s (user_id, topic)
			VALUES ($1, $2)
			ON CONFLICT (user_id, topic) DO NOTHING
		`, table)
	} else {
		query = fmt.Sprintf(`
			INSERT OR IGNORE INTO %s (user_id, topic)
			VALUES (?, ?)
		`, table)
	}

	if _, err := DB.Exec(query, userID, topic); err != nil {
		return fmt.Errorf("failed to add topic to %s: %v", table, err)
	}
	return nil
}

// Remove deletes a topic from a user's pool
func (r *MasteryRepository) Remove(userID string, topic string, pool models.MasteryPool) error {
	table, err := masteryTable(pool)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE user_id = ? AND topic = ?", table)
	if _, err := DB.Exec(DB.Rebind(query), userID, topic); err != nil {
		return fmt.Errorf("failed to remove topic from %s: %v", table, err)
	}
	return nil
}

// List returns the topics in a user's pool, oldest first
func (r *MasteryRepository) List(userID string, pool models.MasteryPool) ([]string, error) {
	table, err := masteryTable(pool)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT topic FROM %s WHERE user_id = ? ORDER BY created_at, id", table)

	var topics []string
	if err := DB.Select(&topics, DB.Rebind(query), userID); err != nil {
		return nil, fmt.Errorf("failed to list topics from %s: %v", table, err)
	}
	return topics, nil
}

// Entries returns the full rows of a user's pool, oldest first
func (r *MasteryRepository) Entries(userID string, pool models.MasteryPool) ([]models.TopicEntry, error) {
	table, err := masteryTable(pool)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT id, user_id, topic, created_at FROM %s WHERE user_id = ? ORDER BY created_at, id", table)

	var entries []models.TopicEntry
	if err := DB.Select(&entries, DB.Rebind(query), userID); err != nil {
		return nil, fmt.Errorf("failed to list entries from %s: %v", table, err)
	}
	return entries, nil
}
