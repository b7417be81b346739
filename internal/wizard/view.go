package wizard

import "recordwizard/internal/predict"

// View is a read-only copy of the session for presentation.
type View struct {
	Activity       *Activity           `json:"activity"`
	AnswerIdx      *int                `json:"answer_idx"`
	DisplayedTopic string              `json:"displayed_topic"`
	Query          string              `json:"query"`
	Loading        bool                `json:"loading"`
	CanGoBack      bool                `json:"can_go_back"`
	Ready          bool                `json:"ready"`
	AgenciesFirst  bool                `json:"agencies_first"`
	Agencies       []predict.Candidate `json:"agencies"`
	Links          []predict.Candidate `json:"links"`
	IsError        bool                `json:"is_error"`
	UserTopic      string              `json:"user_topic,omitempty"`
}

// View captures the current session state.
func (m *Machine) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := View{
		Activity:       m.state.Activity,
		AnswerIdx:      m.state.AnswerIdx,
		DisplayedTopic: m.state.DisplayedTopic,
		Query:          m.state.Query,
		Loading:        m.state.NumLoading > 0,
		CanGoBack:      m.state.Activity.Type != ActivityIntro,
		Ready:          m.state.Ready,
		AgenciesFirst:  m.state.AgenciesFirst,
		Agencies:       m.state.RecommendedAgencies,
		Links:          m.state.RecommendedLinks,
		IsError:        m.state.IsError,
	}
	if m.state.UserTopic != nil {
		v.UserTopic = m.state.UserTopic.Title
	}
	return v
}

// Message resolves a message reference against the session's merged
// message table.
func (m *Machine) Message(mid string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ResolveMessage(m.state.UI, mid)
}
