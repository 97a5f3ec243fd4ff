package exam

import "github.com/JustLearn2025/JustLearnBot/pkg/models"

// Config holds the engine tunables
type Config struct {
	// PassThreshold is the per-topic accuracy below which a topic is marked weak
	PassThreshold float64
	// AdaptiveTarget is the default fixed question count for adaptive tests;
	// 0 means terminate on topic coverage plus the per-topic quota instead
	AdaptiveTarget int
	// MinPerTopic is the per-topic question quota for quota-terminated
	// adaptive tests
	MinPerTopic int
	// MiniPerTopic is the number of questions drawn per weak topic in a mini test
	MiniPerTopic int
	// MiniDifficulty is the single difficulty mini tests are drawn at
	MiniDifficulty models.Difficulty
	// CandidateWindow caps how many repository candidates a strategy draws
	// from when picking one question
	CandidateWindow int
}

// DefaultConfig returns the default engine configuration
func DefaultConfig() Config {
	return Config{
		PassThreshold:   0.7,
		AdaptiveTarget:  0,
		MinPerTopic:     2,
		MiniPerTopic:    3,
		MiniDifficulty:  models.Medium,
		CandidateWindow: 10,
	}
}

// BlueprintSlot is one (topic, difficulty, count) requirement of a mimic-exam
// blueprint
type BlueprintSlot struct {
	Topic      string
	Difficulty models.Difficulty
	Count      int
}

// Params carries the mode-specific start parameters. Fields not used by the
// chosen mode are ignored.
type Params struct {
	// Topics is the configured topic set for adaptive tests
	Topics []string
	// TargetCount overrides Config.AdaptiveTarget when > 0
	TargetCount int
	// MinPerTopic overrides Config.MinPerTopic when > 0
	MinPerTopic int
	// Blueprint is the fixed distribution for mimic exams
	Blueprint []BlueprintSlot
	// ExcludeTopics removes blueprint slots for the named topics
	ExcludeTopics []string
}
