package wizard

import "strings"

// StateOrLocalFlow is the sentinel flow name the intent model returns
// when the records sought are held by a state or local government, not
// a federal agency.
const StateOrLocalFlow = "State or local government"

// Topic pairs a human-readable title with the journey (question chain)
// it drives.
type Topic struct {
	Title   string    `json:"title"`
	Journey *Activity `json:"journey"`
}

// FindTopic resolves a flow name to a topic, case-insensitively.
func FindTopic(topics []Topic, title string) *Topic {
	for i := range topics {
		if strings.EqualFold(topics[i].Title, title) {
			return &topics[i]
		}
	}
	return nil
}

// DefaultSummary is the generic fallback summary page.
func DefaultSummary() *Activity {
	return &Activity{Type: ActivitySummary}
}

// StateLocalSummary tells the user to contact their state or local
// government instead.
func StateLocalSummary() *Activity {
	return &Activity{Type: ActivitySummary, TitleMid: "m2"}
}

func summaryFor(mid string) *Activity {
	return &Activity{Type: ActivitySummary, TitleMid: mid}
}

func question(mid string, answers ...Answer) *Activity {
	return &Activity{Type: ActivityQuestion, TitleMid: mid, Answers: answers}
}

// AllTopics is the built-in topic catalog. Each journey starts with a
// topic intro, walks one or more questions and ends on a summary;
// "no" style answers either branch to the generic summary or start the
// wizard over.
func AllTopics() []Topic {
	immigration := Topic{
		Title: "Immigration",
		Journey: &Activity{
			Type: ActivityTopicIntro,
			Next: question("q1",
				Answer{Mid: "a1", Next: question("q2",
					Answer{Mid: "a3", Next: summaryFor("m10")},
					Answer{Mid: "a4", Next: summaryFor("m10")},
					Answer{Mid: "a5", Next: summaryFor("m11")},
					Answer{Mid: "a6", Next: summaryFor("m12")},
					Answer{Mid: "a7", Next: summaryFor("m12")},
				)},
				Answer{Mid: "a2", Next: &Activity{Type: ActivityStartOver}},
			),
		},
	}

	travel := Topic{
		Title: "Travel",
		Journey: &Activity{
			Type: ActivityTopicIntro,
			Next: question("q2",
				Answer{Mid: "a8", Next: summaryFor("m13")},
				Answer{Mid: "a9", Next: summaryFor("m13")},
				Answer{Mid: "a10", Next: summaryFor("m14")},
				Answer{Mid: "a11", Next: summaryFor("m15"), NewDisplayedTopic: "visa records"},
				Answer{Mid: "a12", Next: summaryFor("m15"), NewDisplayedTopic: "passport records"},
			),
		},
	}

	tax := Topic{
		Title: "Tax",
		Journey: &Activity{
			Type: ActivityTopicIntro,
			Next: question("q3",
				Answer{Mid: "a15", Next: summaryFor("m16")},
				Answer{Mid: "a16", Next: &Activity{
					Type:     ActivityContinue,
					TitleMid: "m17",
					Next:     summaryFor("m18"),
				}},
				Answer{Mid: "a17", Next: summaryFor("m18")},
			),
		},
	}

	socialSecurity := Topic{
		Title: "Social Security",
		Journey: &Activity{
			Type: ActivityTopicIntro,
			Next: question("q4",
				Answer{Mid: "a1", Next: summaryFor("m19")},
				Answer{Mid: "a2", Next: &Activity{Type: ActivityStartOver}},
			),
		},
	}

	medical := Topic{
		Title: "Medical",
		Journey: &Activity{
			Type: ActivityTopicIntro,
			Next: question("q5",
				Answer{Mid: "a1", Next: question("q6",
					Answer{Mid: "a13", Next: summaryFor("m20"), NewDisplayedTopic: "veterans' medical records"},
					Answer{Mid: "a14-1", Next: summaryFor("m20")},
				)},
				Answer{Mid: "a2", Next: summaryFor("m21")},
			),
		},
	}

	return []Topic{immigration, travel, tax, socialSecurity, medical}
}
