package database

import (
	"fmt"
	"strings"

	"github.com/JustLearn2025/JustLearnBot/pkg/models"
)

// QuestionRepository handles database operations for questions.
// The engine never mutates a question through this repository.
type QuestionRepository struct{}

// NewQuestionRepository creates a new repository instance
func NewQuestionRepository() *QuestionRepository {
	return &QuestionRepository{}
}

// Fetch returns up to limit questions matching the given filters. Either
// topic or difficulty may be empty to mean "any". Questions whose IDs appear
// in exclude are skipped. Fewer than limit rows are returned when the bank
// is exhausted; callers must handle partial results.
func (r *QuestionRepository) Fetch(topic string, difficulty models.Difficulty, exclude []int64, limit int) ([]models.Question, error) {
	var (
		conditions []string
		args       []interface{}
	)

	if topic != "" {
		conditions = append(conditions, "topic = ?")
		args = append(args, topic)
	}
	if difficulty != "" {
		conditions = append(conditions, "difficulty = ?")
		args = append(args, string(difficulty))
	}
	if len(exclude) > 0 {
		placeholders := make([]string, len(exclude))
		for i, id := range exclude {
			placeholders[i] = "?"
			args = append(args, id)
		}
		conditions = append(conditions, fmt.Sprintf("id NOT IN (%s)", strings.Join(placeholders, ",")))
	}

	query := "SELECT * FROM questions"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id LIMIT ?"
	args = append(args, limit)

	var questions []models.Question
	err := DB.Select(&questions, DB.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch questions: %v", err)
	}
	return questions, nil
}

// GetByID returns a question by ID
func (r *QuestionRepository) GetByID(id int64) (*models.Question, error) {
	var question models.Question
	err := DB.Get(&question, DB.Rebind("SELECT * FROM questions WHERE id = ?"), id)
	if err != nil {
		return nil, fmt.Errorf("failed to get question by ID: %v", err)
	}
	return &question, nil
}

// GetByIDs returns the questions for the given IDs, in the given order.
// Missing IDs are silently skipped.
func (r *QuestionRepository) GetByIDs(ids []int64) ([]models.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf("SELECT * FROM questions WHERE id IN (%s)", strings.Join(placeholders, ","))

	var questions []models.Question
	err := DB.Select(&questions, DB.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions by IDs: %v", err)
	}

	byID := make(map[int64]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	ordered := make([]models.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			ordered = append(ordered, q)
		}
	}
	return ordered, nil
}

// AllTopics returns all distinct topics present in the bank
func (r *QuestionRepository) AllTopics() ([]string, error) {
	var topics []string
	err := DB.Select(&topics, "SELECT DISTINCT topic FROM questions ORDER BY topic")
	if err != nil {
		return nil, fmt.Errorf("failed to get topics: %v", err)
	}
	return topics, nil
}

// Create inserts a new question. Choice labels and the correct-choice label
// are normalized to uppercase so answer lookups always match.
func (r *QuestionRepository) Create(question *models.Question) error {
	choices := make(models.ChoiceMap, len(question.Choices))
	for label, text := range question.Choices {
		choices[strings.ToUpper(strings.TrimSpace(label))] = text
	}
	question.Choices = choices
	question.CorrectChoice = strings.ToUpper(strings.TrimSpace(question.CorrectChoice))

	if DB.DriverName() == "postgres" {
		query := `
			INSERT INTO questions (topic, difficulty, prompt, choices, correct_choice, explanation)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at
		`
		return DB.QueryRow(
			query,
			question.Topic,
			string(question.Difficulty),
			question.Prompt,
			question.Choices,
			question.CorrectChoice,
			question.Explanation,
		).Scan(&question.ID, &question.CreatedAt)
	}

	// SQLite path (no RETURNING)
	query := `
		INSERT INTO questions (topic, difficulty, prompt, choices, correct_choice, explanation)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := DB.Exec(
		query,
		question.Topic,
		string(question.Difficulty),
		question.Prompt,
		question.Choices,
		question.CorrectChoice,
		question.Explanation,
	)
	if err != nil {
		return fmt.Errorf("failed to create question: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %v", err)
	}
	question.ID = id

	return nil
}

// CountByTopicAndDifficulty returns the number of questions available for a
// (topic, difficulty) pair
func (r *QuestionRepository) CountByTopicAndDifficulty(topic string, difficulty models.Difficulty) (int, error) {
	var count int
	err := DB.Get(&count,
		DB.Rebind("SELECT COUNT(*) FROM questions WHERE topic = ? AND difficulty = ?"),
		topic, string(difficulty))
	if err != nil {
		return 0, fmt.Errorf("failed to count questions: %v", err)
	}
	return count, nil
}
