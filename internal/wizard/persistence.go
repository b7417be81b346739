package wizard

import "recordwizard/internal/predict"

// Document is the serializable form of a session for store backends.
// The flat catalog is process-local and reinstalled on hydrate, so it
// is not part of the document.
type Document struct {
	Snapshot       Snapshot                `json:"snapshot"`
	UI             map[string]string       `json:"ui,omitempty"`
	TriggerPhrases []predict.TriggerPhrase `json:"trigger_phrases,omitempty"`
	NumLoading     int                     `json:"num_loading"`
	History        []*Snapshot             `json:"history,omitempty"`
	HistoryIndex   int                     `json:"history_index"`
}

// Export snapshots the full session, including the navigation history
// when the port supports it.
func (m *Machine) Export() Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc := Document{
		Snapshot:       *createSnapshot(m.state),
		UI:             m.state.UI,
		TriggerPhrases: m.phrases,
		NumLoading:     m.state.NumLoading,
	}
	if h, ok := m.history.(*MemoryHistory); ok {
		doc.History, doc.HistoryIndex = h.Entries()
	}
	return doc
}

// Hydrate restores an exported session. The current flat catalog is
// kept; everything tracked by the document is overwritten.
func (m *Machine) Hydrate(doc Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := doc.Snapshot
	m.state.apply(&snap)
	if doc.UI != nil {
		m.state.UI = doc.UI
	}
	if doc.TriggerPhrases != nil {
		m.phrases = doc.TriggerPhrases
	}
	m.state.NumLoading = doc.NumLoading
	if h, ok := m.history.(*MemoryHistory); ok {
		h.SetEntries(doc.History, doc.HistoryIndex)
	}
}
