package models

import "time"

// ProgressEntry is one append-only (user, date, score) point used for
// historical trend display. Score is normalized to 0-100.
type ProgressEntry struct {
	ID        int64     `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Date      time.Time `json:"date" db:"date"`
	Score     float64   `json:"score" db:"score"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
