package database

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/JustLearn2025/JustLearnBot/pkg/models"
)

// ResultRepository handles test results, progress entries and the atomic
// finalization commit
type ResultRepository struct{}

// NewResultRepository creates a new repository instance
func NewResultRepository() *ResultRepository {
	return &ResultRepository{}
}

// resultRow is the flat storage form of a test result
type resultRow struct {
	ID             int       `db:"id"`
	UserID         string    `db:"user_id"`
	TestType       string    `db:"test_type"`
	TakenAt        time.Time `db:"taken_at"`
	CorrectCount   int       `db:"correct_count"`
	TotalQuestions int       `db:"total_questions"`
	WeakTopics     []byte    `db:"weak_topics"`
	NeedsTraining  []byte    `db:"needs_training"`
	QuestionIDs    []byte    `db:"question_ids"`
	Answers        []byte    `db:"answers"`
	TopicsSelected []byte    `db:"topics_selected"`
	PassedTopics   []byte    `db:"passed_topics"`
	Substitutions  []byte    `db:"substitutions"`
	CreatedAt      time.Time `db:"created_at"`
}

func encodeJSON(v interface{}) ([]byte, error) {
	if v == nil {
		return []byte("[]"), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result field: %v", err)
	}
	return data, nil
}

func decodeJSON(data []byte, v interface{}) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// CommitFinalization writes the mastery-pool delta, the test result and one
// progress entry as a single transaction. If any write fails the whole unit
// rolls back, so no partial mastery mutation is ever visible.
func (r *ResultRepository) CommitFinalization(result *models.TestResult, delta models.MasteryDelta) error {
	tx, err := DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin finalization: %v", err)
	}
	defer tx.Rollback()

	if err := ensureUserInTx(tx, result.UserID); err != nil {
		return err
	}
	if err := applyMasteryDelta(tx, result.UserID, delta); err != nil {
		return err
	}
	if err := insertResult(tx, result); err != nil {
		return err
	}
	if err := insertProgress(tx, result); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit finalization: %v", err)
	}
	return nil
}

// ensureUserInTx creates the user row inside the finalization transaction so
// that a failed commit leaves no trace at all
func ensureUserInTx(tx *sqlx.Tx, userID string) error {
	var query string
	if tx.DriverName() == "postgres" {
		query = "INSERT INTO users (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING"
	} else {
		query = "INSERT OR IGNORE INTO users (user_id) VALUES (?)"
	}
	if _, err := tx.Exec(query, userID); err != nil {
		return fmt.Errorf("failed to ensure user exists: %v", err)
	}
	return nil
}

func applyMasteryDelta(tx *sqlx.Tx, userID string, delta models.MasteryDelta) error {
	type change struct {
		table  string
		topics []string
		remove bool
	}
	changes := []change{
		{"user_weak_topics", delta.AddWeak, false},
		{"user_weak_topics", delta.RemoveWeak, true},
		{"user_needs_training", delta.AddNeedsTraining, false},
		{"user_needs_training", delta.RemoveNeedsTraining, true},
	}

	for _, c := range changes {
		for _, topic := range c.topics {
			var query string
			if c.remove {
				query = fmt.Sprintf("DELETE FROM %s WHERE user_id = ? AND topic = ?", c.table)
			} else if DB.DriverName() == "postgres" {
				query = fmt.Sprintf("INSERT INTO %s (user_id, topic) VALUES (?, ?) ON CONFLICT (user_id, topic) DO NOTHING", c.table)
			} else {
				query = fmt.Sprintf("INSERT OR IGNORE INTO %s (user_id, topic) VALUES (?, ?)", c.table)
			}
			if _, err := tx.Exec(tx.Rebind(query), userID, topic); err != nil {
				return fmt.Errorf("failed to update %s: %v", c.table, err)
			}
		}
	}
	return nil
}

func insertResult(tx *sqlx.Tx, result *models.TestResult) error {
	weak, err := encodeJSON(result.WeakTopics)
	if err != nil {
		return err
	}
	training, err := encodeJSON(result.NeedsTraining)
	if err != nil {
		return err
	}
	questionIDs, err := encodeJSON(result.QuestionIDs)
	if err != nil {
		return err
	}
	answers, err := encodeJSON(result.Answers)
	if err != nil {
		return err
	}
	selected, err := encodeJSON(result.TopicsSelected)
	if err != nil {
		return err
	}
	passed, err := encodeJSON(result.PassedTopics)
	if err != nil {
		return err
	}
	subs, err := encodeJSON(result.Substitutions)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO test_results (
			user_id, test_type, taken_at, correct_count, total_questions,
			weak_topics, needs_training, question_ids, answers,
			topics_selected, passed_topics, substitutions
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if tx.DriverName() == "postgres" {
		query = tx.Rebind(query + " RETURNING id")
		return tx.QueryRow(query,
			result.UserID, string(result.TestType), result.TakenAt,
			result.CorrectCount, result.TotalQuestions,
			weak, training, questionIDs, answers, selected, passed, subs,
		).Scan(&result.ID)
	}

	res, err := tx.Exec(tx.Rebind(query),
		result.UserID, string(result.TestType), result.TakenAt,
		result.CorrectCount, result.TotalQuestions,
		weak, training, questionIDs, answers, selected, passed, subs,
	)
	if err != nil {
		return fmt.Errorf("failed to insert test result: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get result ID: %v", err)
	}
	result.ID = int(id)
	return nil
}

func insertProgress(tx *sqlx.Tx, result *models.TestResult) error {
	score := result.Score() * 100
	query := tx.Rebind("INSERT INTO user_progress (user_id, date, score) VALUES (?, ?, ?)")
	if _, err := tx.Exec(query, result.UserID, result.TakenAt, score); err != nil {
		return fmt.Errorf("failed to insert progress entry: %v", err)
	}
	return nil
}

// GetByUser returns the most recent test results for a user, newest first
func (r *ResultRepository) GetByUser(userID string, limit int) ([]models.TestResult, error) {
	var rows []resultRow
	query := "SELECT * FROM test_results WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?"
	err := DB.Select(&rows, DB.Rebind(query), userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get test results: %v", err)
	}

	results := make([]models.TestResult, 0, len(rows))
	for _, row := range rows {
		result := models.TestResult{
			ID:             row.ID,
			UserID:         row.UserID,
			TestType:       models.TestMode(row.TestType),
			TakenAt:        row.TakenAt,
			CorrectCount:   row.CorrectCount,
			TotalQuestions: row.TotalQuestions,
			CreatedAt:      row.CreatedAt,
		}
		if err := decodeJSON(row.WeakTopics, &result.WeakTopics); err != nil {
			return nil, fmt.Errorf("failed to decode test result %d: %v", row.ID, err)
		}
		if err := decodeJSON(row.NeedsTraining, &result.NeedsTraining); err != nil {
			return nil, fmt.Errorf("failed to decode test result %d: %v", row.ID, err)
		}
		if err := decodeJSON(row.QuestionIDs, &result.QuestionIDs); err != nil {
			return nil, fmt.Errorf("failed to decode test result %d: %v", row.ID, err)
		}
		if err := decodeJSON(row.Answers, &result.Answers); err != nil {
			return nil, fmt.Errorf("failed to decode test result %d: %v", row.ID, err)
		}
		if err := decodeJSON(row.TopicsSelected, &result.TopicsSelected); err != nil {
			return nil, fmt.Errorf("failed to decode test result %d: %v", row.ID, err)
		}
		if err := decodeJSON(row.PassedTopics, &result.PassedTopics); err != nil {
			return nil, fmt.Errorf("failed to decode test result %d: %v", row.ID, err)
		}
		if err := decodeJSON(row.Substitutions, &result.Substitutions); err != nil {
			return nil, fmt.Errorf("failed to decode test result %d: %v", row.ID, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// CountByUser returns the number of recorded results for a user
func (r *ResultRepository) CountByUser(userID string) (int, error) {
	var count int
	err := DB.Get(&count, DB.Rebind("SELECT COUNT(*) FROM test_results WHERE user_id = ?"), userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count test results: %v", err)
	}
	return count, nil
}

// GetUserStatsByPeriod returns aggregate test statistics for a user within a
// time period
func (r *ResultRepository) GetUserStatsByPeriod(userID string, startDate, endDate time.Time) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var totalTests int
	err := DB.Get(&totalTests,
		DB.Rebind("SELECT COUNT(*) FROM test_results WHERE user_id = ? AND taken_at BETWEEN ? AND ?"),
		userID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	stats["total_tests"] = totalTests

	var avgScore float64
	err = DB.Get(&avgScore,
		DB.Rebind("SELECT COALESCE(AVG(CAST(correct_count AS REAL) / NULLIF(total_questions, 0)), 0) FROM test_results WHERE user_id = ? AND taken_at BETWEEN ? AND ?"),
		userID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	stats["avg_score"] = avgScore

	var totalQuestions int
	err = DB.Get(&totalQuestions,
		DB.Rebind("SELECT COALESCE(SUM(total_questions), 0) FROM test_results WHERE user_id = ? AND taken_at BETWEEN ? AND ?"),
		userID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	stats["total_questions"] = totalQuestions

	var totalCorrect int
	err = DB.Get(&totalCorrect,
		DB.Rebind("SELECT COALESCE(SUM(correct_count), 0) FROM test_results WHERE user_id = ? AND taken_at BETWEEN ? AND ?"),
		userID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	stats["total_correct"] = totalCorrect

	return stats, nil
}

// GetProgress returns a user's progress entries, oldest first
func (r *ResultRepository) GetProgress(userID string, limit int) ([]models.ProgressEntry, error) {
	var entries []models.ProgressEntry
	query := "SELECT * FROM user_progress WHERE user_id = ? ORDER BY created_at, id LIMIT ?"
	err := DB.Select(&entries, DB.Rebind(query), userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress entries: %v", err)
	}
	return entries, nil
}
