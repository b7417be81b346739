package wizard

// ActivityType tags the page variant the session is currently on.
type ActivityType string

const (
	ActivityIntro      ActivityType = "intro"
	ActivityQuery      ActivityType = "query"
	ActivityQuestion   ActivityType = "question"
	ActivityContinue   ActivityType = "continue"
	ActivityTopicIntro ActivityType = "topic-intro"
	ActivitySummary    ActivityType = "summary"
	// ActivityStartOver is a transition target only, never a page: an
	// answer pointing here returns the session to the query baseline.
	ActivityStartOver ActivityType = "start-over"
)

// Activity is the tagged page variant driving what the user sees and
// which actions are legal. Only the Machine may transition it.
type Activity struct {
	Type ActivityType `json:"type"`
	// Answers is set for question activities.
	Answers []Answer `json:"answers,omitempty"`
	// Next is set for continue and topic-intro activities.
	Next *Activity `json:"next,omitempty"`
	// TitleMid references the headline message of continue and summary
	// activities.
	TitleMid string `json:"title_mid,omitempty"`
}

// Answer is one selectable option of a question activity.
type Answer struct {
	Mid  string    `json:"mid"`
	Next *Activity `json:"next"`
	// NewDisplayedTopic, when set, replaces the "you told us" context
	// label as the user advances through this answer.
	NewDisplayedTopic string `json:"new_displayed_topic,omitempty"`
}
