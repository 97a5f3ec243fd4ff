// Package exam implements the adaptive test engine: session state, selection
// strategies, the per-user lifecycle state machine and scoring/finalization.
// It talks to the question bank and all persistence through narrow interfaces
// and performs no I/O of its own.
package exam

import (
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/JustLearn2025/JustLearnBot/pkg/models"
)

// QuestionSource provides read-only access to the question bank
type QuestionSource interface {
	// Fetch returns up to limit questions matching topic and/or difficulty
	// (either may be empty for "any"), excluding the given IDs. May return
	// fewer than limit.
	Fetch(topic string, difficulty models.Difficulty, exclude []int64, limit int) ([]models.Question, error)
	// GetByID returns a single question
	GetByID(id int64) (*models.Question, error)
}

// SessionStore persists the single active session per user
type SessionStore interface {
	Load(userID string) (*models.Session, error)
	Save(session *models.Session) error
	Delete(userID string) error
}

// MasteryStore persists the per-user weak-topic and needs-training pools
type MasteryStore interface {
	Add(userID, topic string, pool models.MasteryPool) error
	Remove(userID, topic string, pool models.MasteryPool) error
	List(userID string, pool models.MasteryPool) ([]string, error)
}

// FinalizationStore commits the outcome of a finished session: the mastery
// delta, the test result and the progress entry as one logical unit
type FinalizationStore interface {
	CommitFinalization(result *models.TestResult, delta models.MasteryDelta) error
}

// Strategy decides which question to present next for one test mode
type Strategy interface {
	// Mode identifies the test mode the strategy drives
	Mode() models.TestMode
	// Initialize builds a fresh session for the user
	Initialize(userID string, params Params) (*models.Session, error)
	// Next returns the question at the session's current position, selecting
	// a new one if the sequence is exhausted. Returns (nil, nil) when the
	// test is complete.
	Next(session *models.Session) (*models.Question, error)
	// Record applies the mode-specific state changes for an answered question
	Record(session *models.Session, answer models.Answer)
}

// newSession builds the common shell of a fresh session
func newSession(userID string, mode models.TestMode) *models.Session {
	return &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Mode:      mode,
		StartedAt: time.Now(),
	}
}

// currentQuestion returns the already-selected question at the session
// position, if any. Resuming therefore always reproduces the exact remaining
// sequence: selection only happens past the end of QuestionIDs.
func currentQuestion(source QuestionSource, session *models.Session) (*models.Question, error) {
	if session.Position >= len(session.QuestionIDs) {
		return nil, nil
	}
	return source.GetByID(session.QuestionIDs[session.Position])
}

// nearestDifficulties returns all levels ordered by distance from want,
// easier levels first on ties. The first element is want itself.
func nearestDifficulties(want models.Difficulty) []models.Difficulty {
	levels := models.Difficulties()
	sort.SliceStable(levels, func(i, j int) bool {
		di := abs(levels[i].Rank() - want.Rank())
		dj := abs(levels[j].Rank() - want.Rank())
		if di != dj {
			return di < dj
		}
		return levels[i].Rank() < levels[j].Rank()
	})
	return levels
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// pickOne draws one question for (topic, difficulty), falling back to the
// nearest available difficulty when the requested level is exhausted. The
// served difficulty may therefore differ from want; the caller decides
// whether that counts as a substitution.
func pickOne(source QuestionSource, rnd *rand.Rand, topic string, want models.Difficulty, exclude []int64, window int) (*models.Question, error) {
	for _, level := range nearestDifficulties(want) {
		candidates, err := source.Fetch(topic, level, exclude, window)
		if err != nil {
			return nil, err
		}
		if len(candidates) > 0 {
			q := candidates[rnd.Intn(len(candidates))]
			return &q, nil
		}
	}
	return nil, nil
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func appendUnique(list []string, s string) []string {
	if containsString(list, s) {
		return list
	}
	return append(list, s)
}
