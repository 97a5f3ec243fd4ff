package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Difficulty is the ordered difficulty level of a question
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// difficultyOrder defines easy < medium < hard
var difficultyOrder = []Difficulty{Easy, Medium, Hard}

// Rank returns the position of the difficulty in the easy..hard order (0-based),
// or -1 for an unknown value
func (d Difficulty) Rank() int {
	for i, level := range difficultyOrder {
		if level == d {
			return i
		}
	}
	return -1
}

// Valid reports whether the difficulty is one of the known levels
func (d Difficulty) Valid() bool {
	return d.Rank() >= 0
}

// Raise returns the next harder level, capped at hard
func (d Difficulty) Raise() Difficulty {
	r := d.Rank()
	if r < 0 || r == len(difficultyOrder)-1 {
		if r < 0 {
			return Medium
		}
		return d
	}
	return difficultyOrder[r+1]
}

// Lower returns the next easier level, floored at easy
func (d Difficulty) Lower() Difficulty {
	r := d.Rank()
	if r <= 0 {
		if r < 0 {
			return Medium
		}
		return d
	}
	return difficultyOrder[r-1]
}

// Difficulties returns all levels ordered from easy to hard
func Difficulties() []Difficulty {
	levels := make([]Difficulty, len(difficultyOrder))
	copy(levels, difficultyOrder)
	return levels
}

// ParseDifficulty converts a free-form string (e.g. "Easy") to a Difficulty
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty: %q", s)
	}
	return d, nil
}

// ChoiceMap maps a choice label (e.g. "A") to its display text.
// Stored as a JSON column.
type ChoiceMap map[string]string

// Value implements driver.Valuer for database storage
func (c ChoiceMap) Value() (driver.Value, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal choices: %v", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner for database loading
func (c *ChoiceMap) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	case nil:
		*c = nil
		return nil
	default:
		return fmt.Errorf("unsupported type for choices: %T", src)
	}
}

// Question represents a multiple-choice question in the bank.
// Questions are immutable once created.
type Question struct {
	ID            int64      `json:"id" db:"id"`
	Topic         string     `json:"topic" db:"topic"`
	Difficulty    Difficulty `json:"difficulty" db:"difficulty"`
	Prompt        string     `json:"prompt" db:"prompt"`
	Choices       ChoiceMap  `json:"choices" db:"choices"`
	CorrectChoice string     `json:"correct_choice" db:"correct_choice"`
	Explanation   string     `json:"explanation" db:"explanation"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// HasChoice reports whether label is one of the question's choice labels
func (q *Question) HasChoice(label string) bool {
	_, ok := q.Choices[label]
	return ok
}

// IsCorrect reports whether label matches the correct choice
func (q *Question) IsCorrect(label string) bool {
	return strings.EqualFold(label, q.CorrectChoice)
}
