package wizard

import (
	"errors"
	"sync"
)

// ErrNoHistory is returned by Back when there is no earlier entry to
// return to. The Machine treats it as a platform failure and falls back
// to a full reset.
var ErrNoHistory = errors.New("no history entry to go back to")

// History is the injected navigation-history capability. The Machine
// pushes a snapshot for every forward transition and pops on
// back-navigation. Implementations must be safe for use from a single
// session's actions; they are never shared across sessions.
type History interface {
	// Push records a new entry holding the snapshot, discarding any
	// forward entries past the current position.
	Push(snap *Snapshot) error
	// Back moves to the previous entry and returns its snapshot. The
	// snapshot may be nil: the entry the session started on carries
	// none, and restoring it means a full reset.
	Back() (*Snapshot, error)
}

// MemoryHistory is the default History with browser-like semantics: a
// linear entry list with a cursor, where pushing truncates everything
// after the cursor. The initial entry carries no snapshot.
type MemoryHistory struct {
	mu      sync.Mutex
	entries []*Snapshot
	idx     int
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{entries: []*Snapshot{nil}}
}

func (h *MemoryHistory) Push(snap *Snapshot) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.idx+1], snap)
	h.idx = len(h.entries) - 1
	return nil
}

func (h *MemoryHistory) Back() (*Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.idx == 0 {
		return nil, ErrNoHistory
	}
	h.idx--
	return h.entries[h.idx], nil
}

// Entries exposes the raw entry list and cursor for persistence.
func (h *MemoryHistory) Entries() ([]*Snapshot, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Snapshot, len(h.entries))
	copy(out, h.entries)
	return out, h.idx
}

// SetEntries restores a persisted entry list. An empty list resets to
// the initial single no-snapshot entry.
func (h *MemoryHistory) SetEntries(entries []*Snapshot, idx int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(entries) == 0 {
		h.entries = []*Snapshot{nil}
		h.idx = 0
		return
	}
	h.entries = entries
	if idx < 0 || idx >= len(entries) {
		idx = len(entries) - 1
	}
	h.idx = idx
}
