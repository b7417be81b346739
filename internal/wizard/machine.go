// Package wizard owns the decision-tree session: its state, the action
// set that mutates it, the page-to-page transition rules and the
// recommendation ranking that merges local matching with remote
// prediction scores.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"recordwizard/internal/catalog"
	"recordwizard/internal/match"
	"recordwizard/internal/predict"
)

// DefaultConfidenceThreshold is the minimum normalized score for a
// remote candidate when nothing else is configured.
const DefaultConfidenceThreshold = 0.5

// Programming-error conditions: these signal caller misuse and must
// never occur when the UI contract is respected.
var (
	ErrNoAnswerSelected   = errors.New("cannot continue without an answer")
	ErrNextPageNotAllowed = errors.New("next page not allowed")
)

// PredictionClient is the remote intent-model interface the Machine
// depends on.
type PredictionClient interface {
	FetchInitData(ctx context.Context) (*predict.InitData, error)
	FetchPredictions(ctx context.Context, query string) (*predict.PredictionsResponse, error)
}

// Request is the submit payload: free-text query plus an optional
// explicit topic override.
type Request struct {
	Query string
	Topic *Topic
}

// Options configures a Machine. Zero-value fields get defaults, except
// the thresholds, which the caller supplies (config defaults to
// DefaultConfidenceThreshold).
type Options struct {
	Client          PredictionClient
	History         History
	Topics          []Topic
	Language        string
	AgencyThreshold float64
	LinkThreshold   float64
	Normalizer      Normalizer
	Logger          *log.Logger
	Debug           bool
}

// Machine is the session state machine. All session variables live
// here and change only through the declared actions. Safe for
// concurrent use; each commit (state update plus history capture) is a
// single atomic step from the perspective of any observer.
type Machine struct {
	mu    sync.Mutex
	state State

	// phrases is replaced wholesale on every init load, never mutated
	// element-wise.
	phrases []predict.TriggerPhrase

	client          PredictionClient
	history         History
	topics          []Topic
	lang            string
	agencyThreshold float64
	linkThreshold   float64
	normalize       Normalizer
	logger          *log.Logger
	debug           bool
}

func NewMachine(opts Options) *Machine {
	if opts.History == nil {
		opts.History = NewMemoryHistory()
	}
	if opts.Topics == nil {
		opts.Topics = AllTopics()
	}
	if opts.Language == "" {
		opts.Language = "en"
	}
	if opts.Normalizer == nil {
		opts.Normalizer = ScaleNormalizer(1)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(log.Writer(), "[WIZARD] ", log.LstdFlags)
	}
	return &Machine{
		state:           newInitialState(),
		client:          opts.Client,
		history:         opts.History,
		topics:          opts.Topics,
		lang:            opts.Language,
		agencyThreshold: opts.AgencyThreshold,
		linkThreshold:   opts.LinkThreshold,
		normalize:       opts.Normalizer,
		logger:          opts.Logger,
		debug:           opts.Debug,
	}
}

// Topics returns the topic catalog driving the journeys.
func (m *Machine) Topics() []Topic { return m.topics }

func (m *Machine) debugf(format string, args ...any) {
	if m.debug {
		m.logger.Printf(format, args...)
	}
}

// nudgeLoading adjusts the in-flight counter, clamped at zero.
// Increments and decrements must come in matched pairs around every
// async region, on success and failure paths alike.
func (m *Machine) nudgeLoading(delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.NumLoading += delta
	if m.state.NumLoading < 0 {
		m.state.NumLoading = 0
	}
}

// InitLoad fetches the localized strings and trigger phrases and marks
// the session ready. Transport failures and malformed responses are
// unrecoverable for the session and propagate to the caller.
func (m *Machine) InitLoad(ctx context.Context) error {
	m.nudgeLoading(1)
	data, err := m.client.FetchInitData(ctx)
	m.nudgeLoading(-1)
	if err != nil {
		return fmt.Errorf("fetch wizard strings: %w", err)
	}
	if err := data.Validate(m.lang); err != nil {
		return err
	}

	// Hardcoded messages stay; remote keys are merged over them.
	strings := data.Language[m.lang]
	ui := ExtraMessages()
	ui["intro_slide"] = strings.IntroSlide
	ui["query_slide"] = strings.QuerySlide
	for k, v := range strings.Messages {
		ui[k] = v
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if data.TriggerPhrases != nil {
		m.phrases = data.TriggerPhrases
	}
	m.state.UI = ui
	m.state.Ready = true
	return nil
}

// SetFlatList installs the locally searchable catalog. The loading
// counter starts at 1 specifically to model waiting for this call.
func (m *Machine) SetFlatList(list []catalog.FlatItem) {
	m.mu.Lock()
	m.state.FlatList = list
	m.mu.Unlock()
	m.nudgeLoading(-1)
}

// SelectAnswer records the chosen answer index for the current
// question. It does not transition.
func (m *Machine) SelectAnswer(idx int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.AnswerIdx = &idx
}

// captureLocked pushes a snapshot of the current state as a new
// history entry. Callers hold m.mu.
func (m *Machine) captureLocked() {
	if err := m.history.Push(createSnapshot(m.state)); err != nil {
		m.logger.Printf("history push failed: %v", err)
	}
}

// jumpBackLocked rebuilds the query-page baseline, preserving loaded
// catalog, messages and readiness. Callers hold m.mu.
func (m *Machine) jumpBackLocked() {
	prev := m.state
	m.state = newInitialState()
	m.state.Activity = &Activity{Type: ActivityQuery}
	m.state.FlatList = prev.FlatList
	m.state.UI = prev.UI
	m.state.Ready = prev.Ready
	m.state.NumLoading = prev.NumLoading
}

// JumpBackToQueryPage returns to a clean baseline with the activity
// forced to the query page, used when restarting a topic flow.
func (m *Machine) JumpBackToQueryPage() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jumpBackLocked()
}

// Reset restores full initial defaults while preserving loaded
// catalog, messages and readiness.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.state
	m.state = newInitialState()
	m.state.FlatList = prev.FlatList
	m.state.UI = prev.UI
	m.state.Ready = prev.Ready
	m.state.NumLoading = prev.NumLoading
}

// NextPage advances the session per the activity rules. Calling it on
// an unanswered question or on a terminal activity is caller misuse
// and returns a programming-error condition.
func (m *Machine) NextPage() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := &m.state

	switch st.Activity.Type {
	case ActivityQuestion:
		if st.AnswerIdx == nil {
			return ErrNoAnswerSelected
		}
		answer := st.Activity.Answers[*st.AnswerIdx]
		if answer.Next != nil && answer.Next.Type == ActivityStartOver {
			m.jumpBackLocked()
			return nil
		}
		st.AnswerIdx = nil
		st.Activity = answer.Next
		if answer.NewDisplayedTopic != "" {
			st.DisplayedTopic = answer.NewDisplayedTopic
		}
		m.captureLocked()
		return nil

	case ActivityIntro:
		st.Activity = &Activity{Type: ActivityQuery}
		m.captureLocked()
		return nil

	case ActivitySummary, ActivityQuery:
		return ErrNextPageNotAllowed

	default: // continue, topic-intro
		st.Activity = st.Activity.Next
		m.captureLocked()
		return nil
	}
}

// PrevPage delegates to the history port. An unusable snapshot falls
// back to a full reset; a port failure is recovered the same way as a
// last resort. Neither surfaces an error.
func (m *Machine) PrevPage() {
	snap, err := m.history.Back()
	if err != nil {
		m.logger.Printf("back navigation failed, resetting session: %v", err)
		m.Reset()
		return
	}
	if snap == nil {
		m.Reset()
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.apply(snap)
}

// SubmitRequest runs the full recommendation pipeline: trigger scan,
// local catalog match, remote prediction plus ranking, then commits
// one combined state update with a captured history snapshot.
//
// A failed predictions call is recoverable: it sets the error flag,
// leaves the lists empty and still lands the user on the fallback
// summary. A stale call that resolves after a newer one has committed
// will overwrite the newer results; out-of-order completion is not
// guarded against.
func (m *Machine) SubmitRequest(ctx context.Context, req Request) {
	var (
		isError             bool
		agenciesFirst       bool
		isStateOrLocal      bool
		trustAgencyMatch    bool
		matchingFlatAgency  *catalog.FlatItem
		recommendedAgencies = []predict.Candidate{}
		recommendedLinks    = []predict.Candidate{}
	)
	effectiveTopic := req.Topic

	m.mu.Lock()
	phrases := m.phrases
	flatList := m.state.FlatList
	m.mu.Unlock()

	triggerMatch := ScanForTriggers(req.Query, phrases)
	if triggerMatch != nil {
		m.debugf("found trigger phrase %q: sending the user to message %s", triggerMatch.Trigger, triggerMatch.Skip)
	} else {
		var searchLogger *log.Logger
		if m.debug {
			searchLogger = m.logger
		}
		res := match.Search(req.Query, flatList, searchLogger)
		matchingFlatAgency = res.Item
		trustAgencyMatch = TrustLocalMatch(res.Item, res.WordsMatched, res.QueryWords)
	}

	if req.Query != "" && effectiveTopic == nil && triggerMatch == nil {
		m.nudgeLoading(1)
		data, err := m.client.FetchPredictions(ctx, req.Query)
		m.nudgeLoading(-1)

		if err != nil {
			m.logger.Printf("predictions call failed: %v", err)
			isError = true
		} else {
			modelOutput := data.ModelOutput

			if trustAgencyMatch {
				m.debugf("an agency match was most of the user's query: skipping intent model flow")
			} else if modelOutput.PredefinedFlow != nil {
				// A predefined flow switches the journey, but the links
				// and agencies are populated anyway.
				flow := modelOutput.PredefinedFlow.Flow
				if flow == StateOrLocalFlow {
					m.debugf("moving user to state/local summary page due to intent model result")
					isStateOrLocal = true
				} else if topic := FindTopic(m.topics, flow); topic != nil {
					m.debugf("moving user to flow for topic %q due to intent model result", topic.Title)
					effectiveTopic = topic
				}
			}

			ranked := Rank(RankInput{
				LocalMatch: matchingFlatAgency,
				Model:      modelOutput,
			}, m.agencyThreshold, m.linkThreshold, m.normalize)
			recommendedAgencies = ranked.Agencies
			recommendedLinks = ranked.Links
			agenciesFirst = ranked.AgenciesFirst
		}
	}

	// Used when no topic is selected or predicted.
	summary := DefaultSummary()
	if isStateOrLocal {
		summary = StateLocalSummary()
	}

	var activity *Activity
	displayedTopic := ""
	switch {
	case triggerMatch != nil:
		activity = summaryFor(triggerMatch.Skip)
		effectiveTopic = nil
	case effectiveTopic != nil:
		activity = effectiveTopic.Journey
		displayedTopic = effectiveTopic.Title
	default:
		activity = summary
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Activity = activity
	m.state.AgenciesFirst = agenciesFirst
	m.state.DisplayedTopic = displayedTopic
	m.state.Query = req.Query
	m.state.RecommendedAgencies = recommendedAgencies
	m.state.RecommendedLinks = recommendedLinks
	m.state.IsError = isError
	m.state.UserTopic = effectiveTopic
	m.captureLocked()
}
