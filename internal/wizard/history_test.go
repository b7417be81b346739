package wizard

import (
	"errors"
	"testing"
)

func TestMemoryHistoryBackAtStart(t *testing.T) {
	h := NewMemoryHistory()
	if _, err := h.Back(); !errors.Is(err, ErrNoHistory) {
		t.Fatalf("expected ErrNoHistory, got %v", err)
	}
}

func TestMemoryHistoryPushAndBack(t *testing.T) {
	h := NewMemoryHistory()
	first := &Snapshot{Query: "first"}
	second := &Snapshot{Query: "second"}
	if err := h.Push(first); err != nil {
		t.Fatal(err)
	}
	if err := h.Push(second); err != nil {
		t.Fatal(err)
	}

	snap, err := h.Back()
	if err != nil {
		t.Fatal(err)
	}
	if snap == nil || snap.Query != "first" {
		t.Fatalf("expected first snapshot, got %+v", snap)
	}

	// The entry the session started on carries no snapshot.
	snap, err = h.Back()
	if err != nil {
		t.Fatal(err)
	}
	if snap != nil {
		t.Fatalf("expected nil snapshot at the initial entry, got %+v", snap)
	}
}

func TestMemoryHistoryPushTruncatesForward(t *testing.T) {
	h := NewMemoryHistory()
	_ = h.Push(&Snapshot{Query: "a"})
	_ = h.Push(&Snapshot{Query: "b"})
	if _, err := h.Back(); err != nil {
		t.Fatal(err)
	}
	_ = h.Push(&Snapshot{Query: "c"})

	entries, idx := h.Entries()
	if len(entries) != 3 || idx != 2 {
		t.Fatalf("expected [nil a c] with cursor 2, got %d entries, cursor %d", len(entries), idx)
	}
	if entries[2].Query != "c" {
		t.Fatalf("forward entries must be discarded on push, got %+v", entries[2])
	}
}

func TestMemoryHistorySetEntriesEmpty(t *testing.T) {
	h := NewMemoryHistory()
	_ = h.Push(&Snapshot{Query: "a"})
	h.SetEntries(nil, 0)
	if _, err := h.Back(); !errors.Is(err, ErrNoHistory) {
		t.Fatalf("expected reset to the initial entry, got %v", err)
	}
}
