package wizard

import (
	"recordwizard/internal/catalog"
	"recordwizard/internal/predict"
)

// State is the single mutable session record, owned exclusively by the
// Machine.
type State struct {
	Activity       *Activity
	AgenciesFirst  bool
	AnswerIdx      *int
	DisplayedTopic string
	Query          string
	Ready          bool
	// Recommendation lists are nil until the first submit commits them;
	// each has unique ids by the time it is stored.
	RecommendedAgencies []predict.Candidate
	RecommendedLinks    []predict.Candidate
	IsError             bool
	UserTopic           *Topic

	// NumLoading counts in-flight async operations. Starts at 1 because
	// the session is waiting for SetFlatList. Never negative.
	NumLoading int

	UI       map[string]string
	FlatList []catalog.FlatItem
}

// newInitialState builds the fixed session defaults.
func newInitialState() State {
	return State{
		Activity:   &Activity{Type: ActivityIntro},
		NumLoading: 1,
		UI:         ExtraMessages(),
	}
}

// Snapshot is the restricted serializable projection of State captured
// for back-navigation replay. The catalog, the message table and the
// loading counter are deliberately excluded.
type Snapshot struct {
	Activity            *Activity           `json:"activity"`
	AgenciesFirst       bool                `json:"agencies_first"`
	AnswerIdx           *int                `json:"answer_idx"`
	DisplayedTopic      string              `json:"displayed_topic"`
	Query               string              `json:"query"`
	Ready               bool                `json:"ready"`
	RecommendedAgencies []predict.Candidate `json:"recommended_agencies"`
	RecommendedLinks    []predict.Candidate `json:"recommended_links"`
	IsError             bool                `json:"is_error"`
	UserTopic           *Topic              `json:"user_topic"`
}

// createSnapshot projects the serializable subset of a state.
func createSnapshot(s State) *Snapshot {
	return &Snapshot{
		Activity:            s.Activity,
		AgenciesFirst:       s.AgenciesFirst,
		AnswerIdx:           s.AnswerIdx,
		DisplayedTopic:      s.DisplayedTopic,
		Query:               s.Query,
		Ready:               s.Ready,
		RecommendedAgencies: s.RecommendedAgencies,
		RecommendedLinks:    s.RecommendedLinks,
		IsError:             s.IsError,
		UserTopic:           s.UserTopic,
	}
}

// apply overwrites the tracked fields of the state with the snapshot.
// Fields outside the projection (catalog, messages, loading counter)
// are left untouched.
func (s *State) apply(snap *Snapshot) {
	s.Activity = snap.Activity
	s.AgenciesFirst = snap.AgenciesFirst
	s.AnswerIdx = snap.AnswerIdx
	s.DisplayedTopic = snap.DisplayedTopic
	s.Query = snap.Query
	s.Ready = snap.Ready
	s.RecommendedAgencies = snap.RecommendedAgencies
	s.RecommendedLinks = snap.RecommendedLinks
	s.IsError = snap.IsError
	s.UserTopic = snap.UserTopic
}
