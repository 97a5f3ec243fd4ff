package models

import "time"

// MasteryPool names one of the per-user topic pools
type MasteryPool string

const (
	// WeakTopics holds topics whose most recent accuracy fell below the pass threshold
	WeakTopics MasteryPool = "weak_topics"
	// NeedsTraining holds topics passed at lower difficulties but failed at hard
	NeedsTraining MasteryPool = "needs_training"
)

// TopicEntry is one row of a per-user mastery pool. At most one entry exists
// per (user, topic) pair within a pool.
type TopicEntry struct {
	ID        int64     `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Topic     string    `json:"topic" db:"topic"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// MasteryDelta is the set of mastery-pool mutations produced by finalizing a
// session. It is applied together with the result write as one logical unit.
type MasteryDelta struct {
	AddWeak             []string `json:"add_weak"`
	RemoveWeak          []string `json:"remove_weak"`
	AddNeedsTraining    []string `json:"add_needs_training"`
	RemoveNeedsTraining []string `json:"remove_needs_training"`
}

// Empty reports whether the delta carries no mutations
func (d MasteryDelta) Empty() bool {
	return len(d.AddWeak) == 0 && len(d.RemoveWeak) == 0 &&
		len(d.AddNeedsTraining) == 0 && len(d.RemoveNeedsTraining) == 0
}
