package exam

import (
	"fmt"
	"math/rand"

	"github.com/JustLearn2025/JustLearnBot/pkg/models"
)

// mimicStrategy draws a fixed blueprint of (topic, difficulty, count) slots
// matching a real exam. The whole question sequence is selected up front and
// shuffled; there is no adaptivity.
type mimicStrategy struct {
	source QuestionSource
	config Config
	rnd    *rand.Rand
}

func newMimicStrategy(source QuestionSource, config Config, rnd *rand.Rand) *mimicStrategy {
	return &mimicStrategy{source: source, config: config, rnd: rnd}
}

func (s *mimicStrategy) Mode() models.TestMode {
	return models.ModeMimicExam
}

func (s *mimicStrategy) Initialize(userID string, params Params) (*models.Session, error) {
	if len(params.Blueprint) == 0 {
		return nil, fmt.Errorf("mimic exam requires a blueprint")
	}

	session := newSession(userID, models.ModeMimicExam)
	state := &models.MimicState{}
	session.Mimic = state

	for _, slot := range params.Blueprint {
		if containsString(params.ExcludeTopics, slot.Topic) {
			continue
		}
		state.Topics = appendUnique(state.Topics, slot.Topic)

		filled, err := s.fillSlot(session, slot)
		if err != nil {
			return nil, err
		}
		// A slot the bank cannot fill even with substitutions shortens the
		// exam; finalization still sees exactly what was served.
		_ = filled
	}

	if len(session.QuestionIDs) == 0 {
		return nil, ErrNoQuestions
	}

	s.shuffle(session)
	return session, nil
}

// fillSlot draws slot.Count questions at the requested difficulty, then
// backfills any shortfall from the same topic at the nearest available
// difficulty, recording each backfilled question as a substitution.
func (s *mimicStrategy) fillSlot(session *models.Session, slot BlueprintSlot) (int, error) {
	filled := 0
	for _, level := range nearestDifficulties(slot.Difficulty) {
		if filled >= slot.Count {
			break
		}
		candidates, err := s.source.Fetch(slot.Topic, level, session.QuestionIDs, slot.Count-filled)
		if err != nil {
			return filled, err
		}
		for _, q := range candidates {
			session.QuestionIDs = append(session.QuestionIDs, q.ID)
			if level != slot.Difficulty {
				session.Mimic.Substitutions = append(session.Mimic.Substitutions, models.Substitution{
					QuestionID: q.ID,
					Topic:      slot.Topic,
					Wanted:     slot.Difficulty,
					Served:     level,
				})
			}
			filled++
		}
	}
	return filled, nil
}

func (s *mimicStrategy) shuffle(session *models.Session) {
	ids := session.QuestionIDs
	s.rnd.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
}

func (s *mimicStrategy) Next(session *models.Session) (*models.Question, error) {
	return currentQuestion(s.source, session)
}

func (s *mimicStrategy) Record(session *models.Session, answer models.Answer) {
	session.CoverTopic(answer.Topic)
}
