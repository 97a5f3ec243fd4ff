package models

import (
	"time"
)

// TestMode identifies the kind of test a session runs
type TestMode string

const (
	ModeAdaptive     TestMode = "adaptive"
	ModeMimicExam    TestMode = "mimic_exam"
	ModeMini         TestMode = "mini"
	ModeReevaluation TestMode = "reevaluation"
)

// Answer records one answered question inside a session
type Answer struct {
	QuestionID int64      `json:"question_id"`
	Topic      string     `json:"topic"`
	Difficulty Difficulty `json:"difficulty"`
	Choice     string     `json:"choice"`
	Correct    bool       `json:"correct"`
	AnsweredAt time.Time  `json:"answered_at"`
}

// Substitution records a question served at a different difficulty than the
// blueprint asked for, so finalization is not skewed by bank gaps
type Substitution struct {
	QuestionID int64      `json:"question_id"`
	Topic      string     `json:"topic"`
	Wanted     Difficulty `json:"wanted"`
	Served     Difficulty `json:"served"`
}

// AdaptiveState holds the per-mode fields of an adaptive session
type AdaptiveState struct {
	Topics      []string              `json:"topics"`
	Levels      map[string]Difficulty `json:"levels"`
	Answered    map[string]int        `json:"answered"`
	TargetCount int                   `json:"target_count"`
	MinPerTopic int                   `json:"min_per_topic"`
}

// MimicState holds the per-mode fields of a mimic-exam session
type MimicState struct {
	Topics        []string       `json:"topics"`
	Substitutions []Substitution `json:"substitutions"`
}

// MiniState holds the per-mode fields of a mini-test session
type MiniState struct {
	Topics []string `json:"topics"`
}

// ReevaluationState holds the per-mode fields of a reevaluation session.
// Topics are walked one at a time; for the current topic questions escalate
// easy -> medium -> hard.
type ReevaluationState struct {
	Topics        []string   `json:"topics"`
	TopicIndex    int        `json:"topic_index"`
	Level         Difficulty `json:"level"`
	Passed        []string   `json:"passed"`
	NeedsTraining []string   `json:"needs_training"`
	Failed        []string   `json:"failed"`
}

// Session is the mutable, serializable record of one in-progress test.
// Exactly one of the mode-state pointers is non-nil, matching Mode, so that
// invalid mode/field combinations are unrepresentable. A user has at most one
// active session; it is mutated only by the lifecycle controller and stored as
// an opaque JSON snapshot.
type Session struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Mode          TestMode  `json:"mode"`
	QuestionIDs   []int64   `json:"question_ids"`
	Position      int       `json:"position"`
	Answers       []Answer  `json:"answers"`
	CoveredTopics []string  `json:"covered_topics"`
	StartedAt     time.Time `json:"started_at"`

	Adaptive     *AdaptiveState     `json:"adaptive,omitempty"`
	Mimic        *MimicState        `json:"mimic,omitempty"`
	Mini         *MiniState         `json:"mini,omitempty"`
	Reevaluation *ReevaluationState `json:"reevaluation,omitempty"`
}

// CorrectCount returns the number of correct answers recorded so far
func (s *Session) CorrectCount() int {
	count := 0
	for _, a := range s.Answers {
		if a.Correct {
			count++
		}
	}
	return count
}

// CoverTopic adds a topic to the covered set if not already present
func (s *Session) CoverTopic(topic string) {
	for _, t := range s.CoveredTopics {
		if t == topic {
			return
		}
	}
	s.CoveredTopics = append(s.CoveredTopics, topic)
}

// HasQuestion reports whether the question is already in the selected sequence
func (s *Session) HasQuestion(id int64) bool {
	for _, qid := range s.QuestionIDs {
		if qid == id {
			return true
		}
	}
	return false
}
