package wizard

import (
	"strings"

	"recordwizard/internal/predict"
)

// ScanForTriggers checks the query against the trigger-phrase list in
// order and returns the first phrase whose trigger text appears in the
// query, case-insensitively. A match short-circuits the rest of the
// recommendation pipeline: no scoring, no prediction call.
func ScanForTriggers(query string, phrases []predict.TriggerPhrase) *predict.TriggerPhrase {
	q := strings.ToLower(query)
	for i := range phrases {
		if phrases[i].Trigger == "" {
			continue
		}
		if strings.Contains(q, strings.ToLower(phrases[i].Trigger)) {
			return &phrases[i]
		}
	}
	return nil
}
