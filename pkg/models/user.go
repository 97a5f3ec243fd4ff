package models

import "time"

// User represents a learner known to the system. The identifier is the
// opaque user ID supplied by the presentation layer.
type User struct {
	ID        string    `json:"id" db:"user_id"`
	Language  string    `json:"language" db:"language"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
