package exam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustLearn2025/JustLearnBot/pkg/models"
)

func TestMimicFillsBlueprintExactly(t *testing.T) {
	env := newTestEnv(bankFor([]string{"Graphs", "Trees"}, 5), DefaultConfig())

	first, err := env.controller.Start("user-1", models.ModeMimicExam, Params{
		Blueprint: []BlueprintSlot{
			{Topic: "Graphs", Difficulty: models.Hard, Count: 2},
			{Topic: "Trees", Difficulty: models.Easy, Count: 3},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, first)

	session, _, err := env.controller.Resume("user-1")
	require.NoError(t, err)
	assert.Len(t, session.QuestionIDs, 5)
	assert.Empty(t, session.Mimic.Substitutions)
}

func TestMimicBackfillsFromNearestDifficulty(t *testing.T) {
	// 3 hard Graphs questions available against a blueprint asking for 5
	var bank []models.Question
	id := int64(1)
	for i := 0; i < 3; i++ {
		bank = append(bank, question(id, "Graphs", models.Hard))
		id++
	}
	for i := 0; i < 4; i++ {
		bank = append(bank, question(id, "Graphs", models.Medium))
		id++
	}

	env := newTestEnv(bank, DefaultConfig())

	_, err := env.controller.Start("user-1", models.ModeMimicExam, Params{
		Blueprint: []BlueprintSlot{
			{Topic: "Graphs", Difficulty: models.Hard, Count: 5},
		},
	})
	require.NoError(t, err)

	session, _, err := env.controller.Resume("user-1")
	require.NoError(t, err)
	require.Len(t, session.QuestionIDs, 5)
	require.Len(t, session.Mimic.Substitutions, 2)
	for _, sub := range session.Mimic.Substitutions {
		assert.Equal(t, "Graphs", sub.Topic)
		assert.Equal(t, models.Hard, sub.Wanted)
		assert.Equal(t, models.Medium, sub.Served)
	}

	// Substitutions carry through to the final result
	var last *AnswerResult
	for i := 0; i < 5; i++ {
		res, err := env.controller.Answer("user-1", "A")
		require.NoError(t, err)
		last = res
	}
	require.True(t, last.Completed)
	assert.Len(t, last.Result.Substitutions, 2)
}

func TestMimicExcludedTopicsAreSkipped(t *testing.T) {
	env := newTestEnv(bankFor([]string{"Graphs", "Trees"}, 4), DefaultConfig())

	_, err := env.controller.Start("user-1", models.ModeMimicExam, Params{
		Blueprint: []BlueprintSlot{
			{Topic: "Graphs", Difficulty: models.Medium, Count: 2},
			{Topic: "Trees", Difficulty: models.Medium, Count: 2},
		},
		ExcludeTopics: []string{"Trees"},
	})
	require.NoError(t, err)

	session, _, err := env.controller.Resume("user-1")
	require.NoError(t, err)
	assert.Len(t, session.QuestionIDs, 2)
	assert.Equal(t, []string{"Graphs"}, session.Mimic.Topics)
}

func TestMimicRequiresBlueprint(t *testing.T) {
	env := newTestEnv(bankFor([]string{"Graphs"}, 2), DefaultConfig())

	_, err := env.controller.Start("user-1", models.ModeMimicExam, Params{})
	assert.Error(t, err)
}

func TestMimicEmptyBankIsNoQuestions(t *testing.T) {
	env := newTestEnv(nil, DefaultConfig())

	_, err := env.controller.Start("user-1", models.ModeMimicExam, Params{
		Blueprint: []BlueprintSlot{
			{Topic: "Graphs", Difficulty: models.Medium, Count: 3},
		},
	})
	assert.ErrorIs(t, err, ErrNoQuestions)
	assert.Empty(t, env.sessions.sessions)
}
