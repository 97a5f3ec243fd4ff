package exam

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustLearn2025/JustLearnBot/pkg/models"
)

func startAdaptive(t *testing.T, env *testEnv, userID string, target int) *models.Question {
	t.Helper()
	first, err := env.controller.Start(userID, models.ModeAdaptive, Params{
		Topics:      []string{"Stacks"},
		TargetCount: target,
	})
	require.NoError(t, err)
	return first
}

func TestAnswerWithoutActiveSession(t *testing.T) {
	env := newTestEnv(bankFor([]string{"Stacks"}, 3), DefaultConfig())

	_, err := env.controller.Answer("user-1", "A")
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestAnswerRejectsUnknownChoiceLabel(t *testing.T) {
	env := newTestEnv(bankFor([]string{"Stacks"}, 3), DefaultConfig())
	startAdaptive(t, env, "user-1", 3)

	_, err := env.controller.Answer("user-1", "Z")
	require.ErrorIs(t, err, ErrInvalidChoice)

	// The rejection left the session untouched: no answer recorded, the same
	// question is still pending
	session, _, err := env.controller.Resume("user-1")
	require.NoError(t, err)
	assert.Empty(t, session.Answers)
	assert.Equal(t, 0, session.Position)
}

func TestAnswerNormalizesChoiceLabel(t *testing.T) {
	env := newTestEnv(bankFor([]string{"Stacks"}, 3), DefaultConfig())
	startAdaptive(t, env, "user-1", 3)

	res, err := env.controller.Answer("user-1", "  a ")
	require.NoError(t, err)
	assert.True(t, res.Correct)
}

func TestResumeIsIdempotent(t *testing.T) {
	env := newTestEnv(bankFor([]string{"Stacks"}, 4), DefaultConfig())
	startAdaptive(t, env, "user-1", 4)

	_, err := env.controller.Answer("user-1", "A")
	require.NoError(t, err)

	firstSession, firstQuestion, err := env.controller.Resume("user-1")
	require.NoError(t, err)
	secondSession, secondQuestion, err := env.controller.Resume("user-1")
	require.NoError(t, err)

	assert.Equal(t, firstSession.Position, secondSession.Position)
	assert.Equal(t, firstSession.QuestionIDs, secondSession.QuestionIDs)
	assert.Equal(t, firstQuestion.ID, secondQuestion.ID)
}

func TestResumeWithoutSession(t *testing.T) {
	env := newTestEnv(bankFor([]string{"Stacks"}, 3), DefaultConfig())

	_, _, err := env.controller.Resume("user-1")
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestStartDiscardsActiveSessionSilently(t *testing.T) {
	env := newTestEnv(bankFor([]string{"Stacks"}, 5), DefaultConfig())
	startAdaptive(t, env, "user-1", 4)

	_, err := env.controller.Answer("user-1", "A")
	require.NoError(t, err)

	// A fresh start supersedes the in-flight session; the discarded one leaves
	// no result behind
	startAdaptive(t, env, "user-1", 4)

	session, _, err := env.controller.Resume("user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, session.Position)
	assert.Empty(t, session.Answers)
	assert.Empty(t, env.results.results)
}

func TestAbandonDiscardsWithoutResult(t *testing.T) {
	env := newTestEnv(bankFor([]string{"Stacks"}, 4), DefaultConfig())
	startAdaptive(t, env, "user-1", 4)

	_, err := env.controller.Answer("user-1", "A")
	require.NoError(t, err)

	require.NoError(t, env.controller.Abandon("user-1"))

	_, _, err = env.controller.Resume("user-1")
	assert.ErrorIs(t, err, ErrNoActiveSession)
	assert.Empty(t, env.results.results)

	assert.ErrorIs(t, env.controller.Abandon("user-1"), ErrNoActiveSession)
}

func TestFinalizationFailureKeepsSessionRetryable(t *testing.T) {
	env := newTestEnv(bankFor([]string{"Stacks"}, 4), DefaultConfig())
	startAdaptive(t, env, "user-1", 2)

	_, err := env.controller.Answer("user-1", "A")
	require.NoError(t, err)

	env.results.failNext = true
	_, err = env.controller.Answer("user-1", "A")

	var finalErr *FinalizationError
	require.ErrorAs(t, err, &finalErr)

	// The answer was kept and the session stayed active; answering again is
	// rejected because nothing is pending
	session, _, err := env.controller.Resume("user-1")
	require.NoError(t, err)
	assert.Len(t, session.Answers, 2)

	_, err = env.controller.Answer("user-1", "A")
	assert.ErrorIs(t, err, ErrNoPendingAnswer)

	// Nothing was committed by the failed attempt
	assert.Empty(t, env.results.results)

	// Explicit completion retries the commit and clears the session
	result, err := env.controller.Complete("user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalQuestions)
	require.Len(t, env.results.results, 1)

	_, _, err = env.controller.Resume("user-1")
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestCompleteRejectsSessionWithPendingQuestions(t *testing.T) {
	env := newTestEnv(bankFor([]string{"Stacks"}, 4), DefaultConfig())
	startAdaptive(t, env, "user-1", 3)

	_, err := env.controller.Answer("user-1", "A")
	require.NoError(t, err)

	_, err = env.controller.Complete("user-1")
	assert.ErrorIs(t, err, ErrNoPendingAnswer)
}

func TestStartUnknownMode(t *testing.T) {
	env := newTestEnv(bankFor([]string{"Stacks"}, 2), DefaultConfig())

	_, err := env.controller.Start("user-1", models.TestMode("oral"), Params{})
	assert.Error(t, err)
}

func TestUsersProgressIndependently(t *testing.T) {
	env := newTestEnv(bankFor([]string{"Stacks"}, 5), DefaultConfig())
	startAdaptive(t, env, "user-1", 3)
	startAdaptive(t, env, "user-2", 3)

	_, err := env.controller.Answer("user-1", "A")
	require.NoError(t, err)

	one, _, err := env.controller.Resume("user-1")
	require.NoError(t, err)
	two, _, err := env.controller.Resume("user-2")
	require.NoError(t, err)

	assert.Equal(t, 1, one.Position)
	assert.Equal(t, 0, two.Position)
}

func TestFinalizationErrorUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := &FinalizationError{Err: cause}
	assert.ErrorIs(t, err, cause)
}
