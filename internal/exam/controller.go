package exam

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/JustLearn2025/JustLearnBot/pkg/models"
)

// AnswerResult reports the outcome of one answer event
type AnswerResult struct {
	// Question is the question that was just answered
	Question *models.Question
	// Correct reports whether the submitted choice was right
	Correct bool
	// CorrectChoice and Explanation support feedback display
	CorrectChoice string
	Explanation   string
	// Next is the next question to present; nil when the test completed
	Next *models.Question
	// Completed is true once the session finalized
	Completed bool
	// Result is the persisted test result when Completed
	Result *models.TestResult
}

// Controller owns the per-user session lifecycle:
// Idle -> Active -> {Completed, Abandoned}. All session mutation is routed
// through it, and transitions for one user are serialized by a per-user lock
// while different users proceed independently.
type Controller struct {
	questions  QuestionSource
	sessions   SessionStore
	mastery    MasteryStore
	results    FinalizationStore
	strategies map[models.TestMode]Strategy
	config     Config

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

// NewController wires the engine together
func NewController(questions QuestionSource, sessions SessionStore, mastery MasteryStore, results FinalizationStore, config Config) *Controller {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Controller{
		questions: questions,
		sessions:  sessions,
		mastery:   mastery,
		results:   results,
		strategies: map[models.TestMode]Strategy{
			models.ModeAdaptive:     newAdaptiveStrategy(questions, config, rnd),
			models.ModeMimicExam:    newMimicStrategy(questions, config, rnd),
			models.ModeMini:         newMiniStrategy(questions, mastery, config, rnd),
			models.ModeReevaluation: newReevaluationStrategy(questions, mastery, config, rnd),
		},
		config:    config,
		userLocks: make(map[string]*sync.Mutex),
	}
}

// userLock returns the mutex serializing lifecycle transitions for one user
func (c *Controller) userLock(userID string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		c.userLocks[userID] = lock
	}
	return lock
}

// Start begins a new test for the user and returns the first question. Any
// existing active session for the user is discarded silently, without a test
// result being recorded.
func (c *Controller) Start(userID string, mode models.TestMode, params Params) (*models.Question, error) {
	lock := c.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	strategy, ok := c.strategies[mode]
	if !ok {
		return nil, fmt.Errorf("unknown test mode: %q", mode)
	}

	session, err := strategy.Initialize(userID, params)
	if err != nil {
		return nil, err
	}

	first, err := strategy.Next(session)
	if err != nil {
		return nil, err
	}
	if first == nil {
		// Nothing to ask; leave any prior session untouched
		return nil, ErrNoQuestions
	}

	// Superseding: the save replaces whatever session the user had before
	if err := c.sessions.Save(session); err != nil {
		return nil, err
	}
	return first, nil
}

// Answer records the user's choice for the current question, advances the
// session and returns feedback plus either the next question or the final
// result. An unknown choice label is rejected without any state change.
func (c *Controller) Answer(userID, choiceLabel string) (*AnswerResult, error) {
	lock := c.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	session, err := c.sessions.Load(userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoActiveSession
	}
	if session.Position >= len(session.QuestionIDs) {
		// Fully answered but not finalized (a previous commit failed);
		// the caller should retry via Complete
		return nil, ErrNoPendingAnswer
	}

	question, err := c.questions.GetByID(session.QuestionIDs[session.Position])
	if err != nil {
		return nil, err
	}

	label := strings.ToUpper(strings.TrimSpace(choiceLabel))
	if !question.HasChoice(label) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidChoice, choiceLabel)
	}

	strategy := c.strategies[session.Mode]
	answer := models.Answer{
		QuestionID: question.ID,
		Topic:      question.Topic,
		Difficulty: question.Difficulty,
		Choice:     label,
		Correct:    question.IsCorrect(label),
		AnsweredAt: time.Now(),
	}
	session.Answers = append(session.Answers, answer)
	session.Position++
	strategy.Record(session, answer)

	result := &AnswerResult{
		Question:      question,
		Correct:       answer.Correct,
		CorrectChoice: question.CorrectChoice,
		Explanation:   question.Explanation,
	}

	next, err := strategy.Next(session)
	if err != nil {
		return nil, err
	}
	if next != nil {
		if err := c.sessions.Save(session); err != nil {
			return nil, err
		}
		result.Next = next
		return result, nil
	}

	testResult, err := c.finalize(session)
	if err != nil {
		// Keep the session active, with the answer recorded, so the caller
		// can retry the commit
		if saveErr := c.sessions.Save(session); saveErr != nil {
			return nil, saveErr
		}
		return nil, &FinalizationError{Err: err}
	}

	result.Completed = true
	result.Result = testResult
	return result, nil
}

// Resume returns the in-flight session and its current question without any
// re-selection. Safe to call repeatedly: resuming twice yields identical
// remaining sequences and an identical position.
func (c *Controller) Resume(userID string) (*models.Session, *models.Question, error) {
	lock := c.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	session, err := c.sessions.Load(userID)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, ErrNoActiveSession
	}

	question, err := currentQuestion(c.questions, session)
	if err != nil {
		return nil, nil, err
	}
	return session, question, nil
}

// Abandon discards the user's active session without finalization
func (c *Controller) Abandon(userID string) error {
	lock := c.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	session, err := c.sessions.Load(userID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrNoActiveSession
	}
	return c.sessions.Delete(userID)
}

// Complete retries finalization of a fully answered session whose previous
// commit failed
func (c *Controller) Complete(userID string) (*models.TestResult, error) {
	lock := c.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	session, err := c.sessions.Load(userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoActiveSession
	}

	strategy := c.strategies[session.Mode]
	next, err := strategy.Next(session)
	if err != nil {
		return nil, err
	}
	if next != nil {
		return nil, ErrNoPendingAnswer
	}

	result, err := c.finalize(session)
	if err != nil {
		if saveErr := c.sessions.Save(session); saveErr != nil {
			return nil, saveErr
		}
		return nil, &FinalizationError{Err: err}
	}
	return result, nil
}

// finalize commits the session outcome atomically and clears the session.
// On commit failure nothing is cleared and no partial mastery mutation is
// visible.
func (c *Controller) finalize(session *models.Session) (*models.TestResult, error) {
	currentWeak, err := c.mastery.List(session.UserID, models.WeakTopics)
	if err != nil {
		return nil, err
	}

	result, delta := buildOutcome(session, c.config, currentWeak)
	if err := c.results.CommitFinalization(result, delta); err != nil {
		return nil, err
	}

	if err := c.sessions.Delete(session.UserID); err != nil {
		return nil, err
	}
	return result, nil
}
