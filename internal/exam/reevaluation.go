package exam

import (
	"math/rand"

	"github.com/JustLearn2025/JustLearnBot/pkg/models"
)

// reevaluationStrategy walks the user's weak topics one at a time, escalating
// strictly easy -> medium -> hard. A topic passes only if every presented
// level is answered correctly in sequence; one wrong answer halts escalation
// for that topic, and a failure at hard after clearing the lower levels flags
// the topic as needing more training.
type reevaluationStrategy struct {
	source  QuestionSource
	mastery MasteryStore
	config  Config
	rnd     *rand.Rand
}

func newReevaluationStrategy(source QuestionSource, mastery MasteryStore, config Config, rnd *rand.Rand) *reevaluationStrategy {
	return &reevaluationStrategy{source: source, mastery: mastery, config: config, rnd: rnd}
}

func (s *reevaluationStrategy) Mode() models.TestMode {
	return models.ModeReevaluation
}

func (s *reevaluationStrategy) Initialize(userID string, params Params) (*models.Session, error) {
	weakTopics, err := s.mastery.List(userID, models.WeakTopics)
	if err != nil {
		return nil, err
	}

	topics := weakTopics
	if len(params.Topics) > 0 {
		// Narrow to the requested topics; only topics actually in the weak
		// pool are eligible for reevaluation
		topics = nil
		for _, topic := range params.Topics {
			if containsString(weakTopics, topic) {
				topics = appendUnique(topics, topic)
			}
		}
	}
	if len(topics) == 0 {
		return nil, ErrNoWeakTopics
	}

	session := newSession(userID, models.ModeReevaluation)
	session.Reevaluation = &models.ReevaluationState{
		Topics: topics,
		Level:  models.Easy,
	}
	return session, nil
}

func (s *reevaluationStrategy) Next(session *models.Session) (*models.Question, error) {
	if q, err := currentQuestion(s.source, session); q != nil || err != nil {
		return q, err
	}

	state := session.Reevaluation
	for state.TopicIndex < len(state.Topics) {
		topic := state.Topics[state.TopicIndex]

		candidates, err := s.source.Fetch(topic, state.Level, session.QuestionIDs, s.config.CandidateWindow)
		if err != nil {
			return nil, err
		}
		if len(candidates) > 0 {
			q := candidates[s.rnd.Intn(len(candidates))]
			session.QuestionIDs = append(session.QuestionIDs, q.ID)
			session.CoverTopic(topic)
			return &q, nil
		}

		// No question at this level: escalation cannot be verified there,
		// move up. A topic whose bank runs out after only correct answers
		// still counts as passed.
		if state.Level != models.Hard {
			state.Level = state.Level.Raise()
			continue
		}
		if s.topicClean(session, topic) {
			state.Passed = appendUnique(state.Passed, topic)
		}
		s.advanceTopic(state)
	}
	return nil, nil
}

func (s *reevaluationStrategy) Record(session *models.Session, answer models.Answer) {
	state := session.Reevaluation

	if answer.Correct {
		if answer.Difficulty == models.Hard {
			state.Passed = appendUnique(state.Passed, answer.Topic)
			s.advanceTopic(state)
			return
		}
		state.Level = state.Level.Raise()
		return
	}

	// One wrong answer halts escalation; the topic stays weak
	state.Failed = appendUnique(state.Failed, answer.Topic)
	if answer.Difficulty == models.Hard && s.passedLowerLevel(session, answer.Topic) {
		state.NeedsTraining = appendUnique(state.NeedsTraining, answer.Topic)
	}
	s.advanceTopic(state)
}

// passedLowerLevel reports whether the topic has a correct answer below hard
// in this session. A hard failure flags needs-training only when a lower
// level was actually cleared; a bank with no easier questions starts the
// topic at hard, and failing there keeps it merely weak.
func (s *reevaluationStrategy) passedLowerLevel(session *models.Session, topic string) bool {
	for _, a := range session.Answers {
		if a.Topic == topic && a.Correct && a.Difficulty.Rank() < models.Hard.Rank() {
			return true
		}
	}
	return false
}

func (s *reevaluationStrategy) advanceTopic(state *models.ReevaluationState) {
	state.TopicIndex++
	state.Level = models.Easy
}

// topicClean reports whether the topic has at least one answer and none wrong
func (s *reevaluationStrategy) topicClean(session *models.Session, topic string) bool {
	answered := false
	for _, a := range session.Answers {
		if a.Topic != topic {
			continue
		}
		if !a.Correct {
			return false
		}
		answered = true
	}
	return answered
}
