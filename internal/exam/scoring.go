package exam

import (
	"time"

	"github.com/JustLearn2025/JustLearnBot/pkg/models"
)

// topicScore accumulates per-topic answer counts
type topicScore struct {
	correct   int
	attempted int
}

func (t topicScore) accuracy() float64 {
	if t.attempted == 0 {
		return 0
	}
	return float64(t.correct) / float64(t.attempted)
}

// buildOutcome evaluates a completed session into its immutable test result
// and the mastery-pool delta. For adaptive, mimic and mini sessions a topic
// goes weak when its accuracy falls below the pass threshold and leaves the
// weak pool when it meets it; reevaluation outcomes were decided incrementally
// by the strategy and are persisted verbatim.
func buildOutcome(session *models.Session, config Config, currentWeak []string) (*models.TestResult, models.MasteryDelta) {
	result := &models.TestResult{
		UserID:         session.UserID,
		TestType:       session.Mode,
		TakenAt:        time.Now(),
		CorrectCount:   session.CorrectCount(),
		TotalQuestions: len(session.Answers),
		QuestionIDs:    session.QuestionIDs,
		Answers:        session.Answers,
	}

	var delta models.MasteryDelta

	if session.Mode == models.ModeReevaluation {
		state := session.Reevaluation
		result.TopicsSelected = state.Topics
		result.PassedTopics = state.Passed
		result.NeedsTraining = state.NeedsTraining
		result.WeakTopics = state.Failed
		delta.RemoveWeak = state.Passed
		delta.AddNeedsTraining = state.NeedsTraining
		return result, delta
	}

	scores := make(map[string]topicScore)
	var attempted []string
	for _, answer := range session.Answers {
		score := scores[answer.Topic]
		score.attempted++
		if answer.Correct {
			score.correct++
		}
		scores[answer.Topic] = score
		attempted = appendUnique(attempted, answer.Topic)
	}

	for _, topic := range attempted {
		if scores[topic].accuracy() < config.PassThreshold {
			result.WeakTopics = append(result.WeakTopics, topic)
			if !containsString(currentWeak, topic) {
				delta.AddWeak = append(delta.AddWeak, topic)
			}
		} else {
			result.PassedTopics = append(result.PassedTopics, topic)
			if containsString(currentWeak, topic) {
				delta.RemoveWeak = append(delta.RemoveWeak, topic)
			}
		}
	}

	switch session.Mode {
	case models.ModeAdaptive:
		result.TopicsSelected = session.Adaptive.Topics
	case models.ModeMimicExam:
		result.Substitutions = session.Mimic.Substitutions
	}

	return result, delta
}
