package exam

import (
	"fmt"
	"math/rand"

	"github.com/JustLearn2025/JustLearnBot/pkg/models"
)

// adaptiveStrategy runs a per-topic difficulty ladder: every topic starts at
// medium, a correct answer raises its level (capped at hard), an incorrect
// answer lowers it (floored at easy). Weakness is decided at finalization
// from per-topic accuracy.
type adaptiveStrategy struct {
	source QuestionSource
	config Config
	rnd    *rand.Rand
}

func newAdaptiveStrategy(source QuestionSource, config Config, rnd *rand.Rand) *adaptiveStrategy {
	return &adaptiveStrategy{source: source, config: config, rnd: rnd}
}

func (s *adaptiveStrategy) Mode() models.TestMode {
	return models.ModeAdaptive
}

func (s *adaptiveStrategy) Initialize(userID string, params Params) (*models.Session, error) {
	if len(params.Topics) == 0 {
		return nil, fmt.Errorf("adaptive test requires at least one topic")
	}

	var topics []string
	for _, topic := range params.Topics {
		topics = appendUnique(topics, topic)
	}

	target := params.TargetCount
	if target == 0 {
		target = s.config.AdaptiveTarget
	}
	minPerTopic := params.MinPerTopic
	if minPerTopic == 0 {
		minPerTopic = s.config.MinPerTopic
	}

	levels := make(map[string]models.Difficulty, len(topics))
	answered := make(map[string]int, len(topics))
	for _, topic := range topics {
		levels[topic] = models.Medium
		answered[topic] = 0
	}

	session := newSession(userID, models.ModeAdaptive)
	session.Adaptive = &models.AdaptiveState{
		Topics:      topics,
		Levels:      levels,
		Answered:    answered,
		TargetCount: target,
		MinPerTopic: minPerTopic,
	}
	return session, nil
}

func (s *adaptiveStrategy) Next(session *models.Session) (*models.Question, error) {
	if q, err := currentQuestion(s.source, session); q != nil || err != nil {
		return q, err
	}

	state := session.Adaptive
	if s.done(session) {
		return nil, nil
	}

	// Walk topics in selection priority; a topic whose bank is exhausted at
	// every difficulty is skipped and the test shortens.
	for _, topic := range topicPriority(state, session.CoveredTopics) {
		question, err := pickOne(s.source, s.rnd, topic, state.Levels[topic], session.QuestionIDs, s.config.CandidateWindow)
		if err != nil {
			return nil, err
		}
		if question == nil {
			continue
		}
		session.QuestionIDs = append(session.QuestionIDs, question.ID)
		session.CoverTopic(topic)
		return question, nil
	}
	return nil, nil
}

func (s *adaptiveStrategy) Record(session *models.Session, answer models.Answer) {
	state := session.Adaptive
	state.Answered[answer.Topic]++
	level := state.Levels[answer.Topic]
	if answer.Correct {
		state.Levels[answer.Topic] = level.Raise()
	} else {
		state.Levels[answer.Topic] = level.Lower()
	}
}

// done applies the configured termination rule: a fixed target count when
// set, otherwise full topic coverage plus the per-topic quota
func (s *adaptiveStrategy) done(session *models.Session) bool {
	state := session.Adaptive
	if state.TargetCount > 0 {
		return len(session.Answers) >= state.TargetCount
	}
	for _, topic := range state.Topics {
		if state.Answered[topic] < state.MinPerTopic {
			return false
		}
	}
	return true
}

// topicPriority orders the configured topics for selection: uncovered topics
// first (in configured order, so every topic is seen before any repeats),
// then covered topics by ascending answered count. Pure function of the
// session state, so selection is deterministic and unit-testable.
func topicPriority(state *models.AdaptiveState, covered []string) []string {
	var uncovered, rest []string
	for _, topic := range state.Topics {
		if containsString(covered, topic) {
			rest = append(rest, topic)
		} else {
			uncovered = append(uncovered, topic)
		}
	}

	// Stable insertion sort by answered count keeps configured order on ties
	for i := 1; i < len(rest); i++ {
		for j := i; j > 0 && state.Answered[rest[j]] < state.Answered[rest[j-1]]; j-- {
			rest[j], rest[j-1] = rest[j-1], rest[j]
		}
	}

	return append(uncovered, rest...)
}
