package exam

import (
	"math/rand"

	"github.com/JustLearn2025/JustLearnBot/pkg/models"
)

// miniStrategy builds a short test over the user's current weak topics: a
// small fixed count per topic at a single moderate difficulty
type miniStrategy struct {
	source  QuestionSource
	mastery MasteryStore
	config  Config
	rnd     *rand.Rand
}

func newMiniStrategy(source QuestionSource, mastery MasteryStore, config Config, rnd *rand.Rand) *miniStrategy {
	return &miniStrategy{source: source, mastery: mastery, config: config, rnd: rnd}
}

func (s *miniStrategy) Mode() models.TestMode {
	return models.ModeMini
}

func (s *miniStrategy) Initialize(userID string, params Params) (*models.Session, error) {
	weakTopics, err := s.mastery.List(userID, models.WeakTopics)
	if err != nil {
		return nil, err
	}
	if len(weakTopics) == 0 {
		// Empty pool is a redirect condition, not a failure
		return nil, ErrNoWeakTopics
	}

	session := newSession(userID, models.ModeMini)
	session.Mini = &models.MiniState{Topics: weakTopics}

	for _, topic := range weakTopics {
		candidates, err := s.source.Fetch(topic, s.config.MiniDifficulty, session.QuestionIDs, s.config.MiniPerTopic)
		if err != nil {
			return nil, err
		}
		// Fewer questions than planned just shortens the topic's share
		for _, q := range candidates {
			session.QuestionIDs = append(session.QuestionIDs, q.ID)
		}
	}

	if len(session.QuestionIDs) == 0 {
		return nil, ErrNoQuestions
	}

	s.rnd.Shuffle(len(session.QuestionIDs), func(i, j int) {
		session.QuestionIDs[i], session.QuestionIDs[j] = session.QuestionIDs[j], session.QuestionIDs[i]
	})
	return session, nil
}

func (s *miniStrategy) Next(session *models.Session) (*models.Question, error) {
	return currentQuestion(s.source, session)
}

func (s *miniStrategy) Record(session *models.Session, answer models.Answer) {
	session.CoverTopic(answer.Topic)
}
