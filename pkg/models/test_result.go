package models

import "time"

// TestResult is the immutable record of a finalized test attempt.
// TopicsSelected, PassedTopics and NeedsTraining are populated for the
// adaptive and reevaluation modes; Substitutions for mimic exams.
type TestResult struct {
	ID             int            `json:"id" db:"id"`
	UserID         string         `json:"user_id" db:"user_id"`
	TestType       TestMode       `json:"test_type" db:"test_type"`
	TakenAt        time.Time      `json:"taken_at" db:"taken_at"`
	CorrectCount   int            `json:"correct_count" db:"correct_count"`
	TotalQuestions int            `json:"total_questions" db:"total_questions"`
	WeakTopics     []string       `json:"weak_topics"`
	NeedsTraining  []string       `json:"needs_training"`
	QuestionIDs    []int64        `json:"question_ids"`
	Answers        []Answer       `json:"answers"`
	TopicsSelected []string       `json:"topics_selected,omitempty"`
	PassedTopics   []string       `json:"passed_topics,omitempty"`
	Substitutions  []Substitution `json:"substitutions,omitempty"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
}

// Score returns the raw score as a fraction in [0, 1]
func (r *TestResult) Score() float64 {
	if r.TotalQuestions == 0 {
		return 0
	}
	return float64(r.CorrectCount) / float64(r.TotalQuestions)
}
