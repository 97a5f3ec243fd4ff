package exam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustLearn2025/JustLearnBot/pkg/models"
)

func TestReevaluationEscalatesEasyMediumHard(t *testing.T) {
	env := newTestEnv(bankFor([]string{"Recursion"}, 3), DefaultConfig())
	require.NoError(t, env.mastery.Add("user-1", "Recursion", models.WeakTopics))

	first, err := env.controller.Start("user-1", models.ModeReevaluation, Params{})
	require.NoError(t, err)
	assert.Equal(t, models.Easy, first.Difficulty)

	res, err := env.controller.Answer("user-1", "A")
	require.NoError(t, err)
	require.NotNil(t, res.Next)
	assert.Equal(t, models.Medium, res.Next.Difficulty)

	res, err = env.controller.Answer("user-1", "A")
	require.NoError(t, err)
	require.NotNil(t, res.Next)
	assert.Equal(t, models.Hard, res.Next.Difficulty)
}

func TestReevaluationAllLevelsCorrectPassesTopic(t *testing.T) {
	env := newTestEnv(bankFor([]string{"Recursion"}, 3), DefaultConfig())
	require.NoError(t, env.mastery.Add("user-1", "Recursion", models.WeakTopics))

	_, err := env.controller.Start("user-1", models.ModeReevaluation, Params{})
	require.NoError(t, err)

	var last *AnswerResult
	for i := 0; i < 3; i++ {
		res, err := env.controller.Answer("user-1", "A")
		require.NoError(t, err)
		last = res
	}

	require.True(t, last.Completed)
	assert.Equal(t, []string{"Recursion"}, last.Result.PassedTopics)
	assert.Empty(t, last.Result.NeedsTraining)

	weak, err := env.mastery.List("user-1", models.WeakTopics)
	require.NoError(t, err)
	assert.NotContains(t, weak, "Recursion")
}

func TestReevaluationHardFailureFlagsNeedsTraining(t *testing.T) {
	env := newTestEnv(bankFor([]string{"Recursion"}, 3), DefaultConfig())
	require.NoError(t, env.mastery.Add("user-1", "Recursion", models.WeakTopics))

	_, err := env.controller.Start("user-1", models.ModeReevaluation, Params{})
	require.NoError(t, err)

	// easy correct, medium correct, hard wrong
	var last *AnswerResult
	for _, choice := range []string{"A", "A", "B"} {
		res, err := env.controller.Answer("user-1", choice)
		require.NoError(t, err)
		last = res
	}

	require.True(t, last.Completed)
	assert.Contains(t, last.Result.WeakTopics, "Recursion")
	assert.Contains(t, last.Result.NeedsTraining, "Recursion")
	assert.Empty(t, last.Result.PassedTopics)

	// The topic stays weak and additionally enters the needs-training pool
	weak, err := env.mastery.List("user-1", models.WeakTopics)
	require.NoError(t, err)
	assert.Contains(t, weak, "Recursion")

	training, err := env.mastery.List("user-1", models.NeedsTraining)
	require.NoError(t, err)
	assert.Contains(t, training, "Recursion")
}

func TestReevaluationHardOnlyBankFailureStaysMerelyWeak(t *testing.T) {
	// The bank has no easy or medium questions, so the topic starts at hard.
	// Failing there keeps the topic weak but must not flag needs-training:
	// no lower level was ever cleared.
	bank := []models.Question{question(1, "Recursion", models.Hard)}
	env := newTestEnv(bank, DefaultConfig())
	require.NoError(t, env.mastery.Add("user-1", "Recursion", models.WeakTopics))

	first, err := env.controller.Start("user-1", models.ModeReevaluation, Params{})
	require.NoError(t, err)
	assert.Equal(t, models.Hard, first.Difficulty)

	res, err := env.controller.Answer("user-1", "B")
	require.NoError(t, err)
	require.True(t, res.Completed)
	assert.Contains(t, res.Result.WeakTopics, "Recursion")
	assert.Empty(t, res.Result.NeedsTraining)

	weak, err := env.mastery.List("user-1", models.WeakTopics)
	require.NoError(t, err)
	assert.Contains(t, weak, "Recursion")

	training, err := env.mastery.List("user-1", models.NeedsTraining)
	require.NoError(t, err)
	assert.NotContains(t, training, "Recursion")
}

func TestReevaluationEarlyFailureHaltsEscalation(t *testing.T) {
	env := newTestEnv(bankFor([]string{"Recursion", "Graphs"}, 3), DefaultConfig())
	require.NoError(t, env.mastery.Add("user-1", "Recursion", models.WeakTopics))
	require.NoError(t, env.mastery.Add("user-1", "Graphs", models.WeakTopics))

	_, err := env.controller.Start("user-1", models.ModeReevaluation, Params{})
	require.NoError(t, err)

	// Wrong at easy: Recursion is done, the next question starts Graphs at easy
	res, err := env.controller.Answer("user-1", "B")
	require.NoError(t, err)
	require.NotNil(t, res.Next)
	assert.Equal(t, "Graphs", res.Next.Topic)
	assert.Equal(t, models.Easy, res.Next.Difficulty)

	var last *AnswerResult
	for i := 0; i < 3; i++ {
		r, err := env.controller.Answer("user-1", "A")
		require.NoError(t, err)
		last = r
	}

	require.True(t, last.Completed)
	assert.Contains(t, last.Result.WeakTopics, "Recursion")
	assert.NotContains(t, last.Result.NeedsTraining, "Recursion")
	assert.Contains(t, last.Result.PassedTopics, "Graphs")
}

func TestReevaluationMissingLevelIsSkippedUpward(t *testing.T) {
	// No easy question exists; escalation starts at medium
	bank := []models.Question{
		question(1, "Recursion", models.Medium),
		question(2, "Recursion", models.Hard),
	}
	env := newTestEnv(bank, DefaultConfig())
	require.NoError(t, env.mastery.Add("user-1", "Recursion", models.WeakTopics))

	first, err := env.controller.Start("user-1", models.ModeReevaluation, Params{})
	require.NoError(t, err)
	assert.Equal(t, models.Medium, first.Difficulty)

	res, err := env.controller.Answer("user-1", "A")
	require.NoError(t, err)
	require.NotNil(t, res.Next)
	assert.Equal(t, models.Hard, res.Next.Difficulty)

	res, err = env.controller.Answer("user-1", "A")
	require.NoError(t, err)
	require.True(t, res.Completed)
	assert.Contains(t, res.Result.PassedTopics, "Recursion")
}

func TestReevaluationExhaustedBankAfterCleanAnswersPasses(t *testing.T) {
	// Only easy and medium questions exist; answering both correctly passes
	// even though hard could not be presented
	bank := []models.Question{
		question(1, "Recursion", models.Easy),
		question(2, "Recursion", models.Medium),
	}
	env := newTestEnv(bank, DefaultConfig())
	require.NoError(t, env.mastery.Add("user-1", "Recursion", models.WeakTopics))

	_, err := env.controller.Start("user-1", models.ModeReevaluation, Params{})
	require.NoError(t, err)

	res, err := env.controller.Answer("user-1", "A")
	require.NoError(t, err)
	require.NotNil(t, res.Next)

	res, err = env.controller.Answer("user-1", "A")
	require.NoError(t, err)
	require.True(t, res.Completed)
	assert.Contains(t, res.Result.PassedTopics, "Recursion")
}

func TestReevaluationWithoutWeakTopics(t *testing.T) {
	env := newTestEnv(bankFor([]string{"Recursion"}, 3), DefaultConfig())

	_, err := env.controller.Start("user-1", models.ModeReevaluation, Params{})
	assert.ErrorIs(t, err, ErrNoWeakTopics)
}

func TestReevaluationNarrowsToRequestedWeakTopics(t *testing.T) {
	env := newTestEnv(bankFor([]string{"Recursion", "Graphs"}, 3), DefaultConfig())
	require.NoError(t, env.mastery.Add("user-1", "Recursion", models.WeakTopics))
	require.NoError(t, env.mastery.Add("user-1", "Graphs", models.WeakTopics))

	_, err := env.controller.Start("user-1", models.ModeReevaluation, Params{
		Topics: []string{"Graphs", "Sorting"},
	})
	require.NoError(t, err)

	session, _, err := env.controller.Resume("user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Graphs"}, session.Reevaluation.Topics)
}
