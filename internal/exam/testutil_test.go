package exam

import (
	"errors"
	"fmt"

	"github.com/JustLearn2025/JustLearnBot/pkg/models"
)

// fakeQuestionSource serves a fixed in-memory bank in stable ID order
type fakeQuestionSource struct {
	bank []models.Question
}

func (f *fakeQuestionSource) Fetch(topic string, difficulty models.Difficulty, exclude []int64, limit int) ([]models.Question, error) {
	excluded := make(map[int64]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}

	var out []models.Question
	for _, q := range f.bank {
		if topic != "" && q.Topic != topic {
			continue
		}
		if difficulty != "" && q.Difficulty != difficulty {
			continue
		}
		if excluded[q.ID] {
			continue
		}
		out = append(out, q)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeQuestionSource) GetByID(id int64) (*models.Question, error) {
	for _, q := range f.bank {
		if q.ID == id {
			question := q
			return &question, nil
		}
	}
	return nil, fmt.Errorf("question %d not found", id)
}

// fakeSessionStore keeps one session per user in memory, stored as a copy so
// saved and in-flight state cannot alias
type fakeSessionStore struct {
	sessions map[string]models.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]models.Session)}
}

func (f *fakeSessionStore) Load(userID string) (*models.Session, error) {
	s, ok := f.sessions[userID]
	if !ok {
		return nil, nil
	}
	copied := s
	return &copied, nil
}

func (f *fakeSessionStore) Save(session *models.Session) error {
	f.sessions[session.UserID] = *session
	return nil
}

func (f *fakeSessionStore) Delete(userID string) error {
	delete(f.sessions, userID)
	return nil
}

// fakeMasteryStore keeps the topic pools in memory, preserving insert order
// and deduplicating like the UNIQUE constraint does
type fakeMasteryStore struct {
	pools map[string]map[models.MasteryPool][]string
}

func newFakeMasteryStore() *fakeMasteryStore {
	return &fakeMasteryStore{pools: make(map[string]map[models.MasteryPool][]string)}
}

func (f *fakeMasteryStore) userPools(userID string) map[models.MasteryPool][]string {
	p, ok := f.pools[userID]
	if !ok {
		p = make(map[models.MasteryPool][]string)
		f.pools[userID] = p
	}
	return p
}

func (f *fakeMasteryStore) Add(userID, topic string, pool models.MasteryPool) error {
	p := f.userPools(userID)
	for _, t := range p[pool] {
		if t == topic {
			return nil
		}
	}
	p[pool] = append(p[pool], topic)
	return nil
}

func (f *fakeMasteryStore) Remove(userID, topic string, pool models.MasteryPool) error {
	p := f.userPools(userID)
	var kept []string
	for _, t := range p[pool] {
		if t != topic {
			kept = append(kept, t)
		}
	}
	p[pool] = kept
	return nil
}

func (f *fakeMasteryStore) List(userID string, pool models.MasteryPool) ([]string, error) {
	p := f.userPools(userID)
	out := make([]string, len(p[pool]))
	copy(out, p[pool])
	return out, nil
}

// fakeFinalizationStore applies the delta to the mastery store and records
// the result, all-or-nothing like the real transaction. failNext makes the
// next commit fail without applying anything.
type fakeFinalizationStore struct {
	mastery  *fakeMasteryStore
	results  []models.TestResult
	failNext bool
}

func newFakeFinalizationStore(mastery *fakeMasteryStore) *fakeFinalizationStore {
	return &fakeFinalizationStore{mastery: mastery}
}

func (f *fakeFinalizationStore) CommitFinalization(result *models.TestResult, delta models.MasteryDelta) error {
	if f.failNext {
		f.failNext = false
		return errors.New("storage unavailable")
	}
	for _, topic := range delta.AddWeak {
		f.mastery.Add(result.UserID, topic, models.WeakTopics)
	}
	for _, topic := range delta.RemoveWeak {
		f.mastery.Remove(result.UserID, topic, models.WeakTopics)
	}
	for _, topic := range delta.AddNeedsTraining {
		f.mastery.Add(result.UserID, topic, models.NeedsTraining)
	}
	for _, topic := range delta.RemoveNeedsTraining {
		f.mastery.Remove(result.UserID, topic, models.NeedsTraining)
	}
	f.results = append(f.results, *result)
	return nil
}

// testEnv bundles a controller with its fakes
type testEnv struct {
	controller *Controller
	sessions   *fakeSessionStore
	mastery    *fakeMasteryStore
	results    *fakeFinalizationStore
}

func newTestEnv(bank []models.Question, config Config) *testEnv {
	sessions := newFakeSessionStore()
	mastery := newFakeMasteryStore()
	results := newFakeFinalizationStore(mastery)
	source := &fakeQuestionSource{bank: bank}
	return &testEnv{
		controller: NewController(source, sessions, mastery, results, config),
		sessions:   sessions,
		mastery:    mastery,
		results:    results,
	}
}

// question builds a bank entry with choices A-D where A is correct unless
// overridden
func question(id int64, topic string, difficulty models.Difficulty) models.Question {
	return models.Question{
		ID:         id,
		Topic:      topic,
		Difficulty: difficulty,
		Prompt:     fmt.Sprintf("question %d on %s (%s)", id, topic, difficulty),
		Choices: models.ChoiceMap{
			"A": "right",
			"B": "wrong",
			"C": "wrong",
			"D": "wrong",
		},
		CorrectChoice: "A",
		Explanation:   "because A",
	}
}

// bankFor builds count questions per difficulty for each topic, with
// sequential IDs starting at 1
func bankFor(topics []string, perDifficulty int) []models.Question {
	var bank []models.Question
	id := int64(1)
	for _, topic := range topics {
		for _, difficulty := range models.Difficulties() {
			for i := 0; i < perDifficulty; i++ {
				bank = append(bank, question(id, topic, difficulty))
				id++
			}
		}
	}
	return bank
}
