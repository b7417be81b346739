package predict

import "errors"

// ErrUnexpectedFormat reports an init-data response that decoded but is
// missing required nested keys. Callers must reject the payload before
// using any part of it.
var ErrUnexpectedFormat = errors.New("unexpected wizard strings format")

// Candidate is a scored agency or link returned by the intent model.
// Raw confidence scores from different model outputs live on different
// scales and are not comparable until normalized.
type Candidate struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title"`
	URL                string  `json:"url,omitempty"`
	ConfidenceScore    float64 `json:"confidence_score"`
	Abbreviation       string  `json:"abbreviation,omitempty"`
	ParentAbbreviation string  `json:"parent_abbreviation,omitempty"`
}

// TriggerPhrase routes a query containing Trigger straight to the
// summary message Skip, bypassing prediction entirely.
type TriggerPhrase struct {
	Trigger string `json:"trigger"`
	Skip    string `json:"skip"`
}

// LanguageStrings is the per-language block of the init-data response.
type LanguageStrings struct {
	IntroSlide string            `json:"intro_slide"`
	QuerySlide string            `json:"query_slide"`
	Messages   map[string]string `json:"messages"`
}

// InitData is the response of the parameterless init call.
type InitData struct {
	Language       map[string]LanguageStrings `json:"language"`
	TriggerPhrases []TriggerPhrase            `json:"trigger_phrases,omitempty"`
}

// Validate checks the nested shape for the given language code.
func (d *InitData) Validate(lang string) error {
	if d == nil {
		return ErrUnexpectedFormat
	}
	strings, ok := d.Language[lang]
	if !ok {
		return ErrUnexpectedFormat
	}
	if strings.IntroSlide == "" || strings.Messages == nil {
		return ErrUnexpectedFormat
	}
	if _, ok := strings.Messages["m1"]; !ok {
		return ErrUnexpectedFormat
	}
	return nil
}

// PredefinedFlow names a journey the model wants to route the user to.
type PredefinedFlow struct {
	Flow string `json:"flow"`
}

// ModelOutput carries the scored candidate sets of a predictions call.
// AgencyFinderPredictions is nested one level in the wire format.
type ModelOutput struct {
	PredefinedFlow          *PredefinedFlow `json:"predefined_flow,omitempty"`
	AgencyNameMatch         []Candidate     `json:"agency_name_match,omitempty"`
	AgencyMissionMatch      []Candidate     `json:"agency_mission_match"`
	AgencyFinderPredictions [][]Candidate   `json:"agency_finder_predictions"`
	FreqdocPredictions      []Candidate     `json:"freqdoc_predictions"`
}

// FinderCandidates unwraps the nested finder list.
func (m ModelOutput) FinderCandidates() []Candidate {
	if len(m.AgencyFinderPredictions) == 0 {
		return nil
	}
	return m.AgencyFinderPredictions[0]
}

// PredictionsResponse is the full predictions-call envelope.
type PredictionsResponse struct {
	ModelOutput ModelOutput `json:"model_output"`
}
