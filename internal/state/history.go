package state

import "log"

// DefaultHistoryCap bounds the number of undo entries kept.
const DefaultHistoryCap = 50

// History is a linear undo/redo buffer of plane snapshots. Entries share the
// immutable grids of the store, so recording one costs no copying.
type History struct {
	store   *Store
	entries []Snapshot
	cursor  int
	cap     int
}

// NewHistory records the current store content as the first entry.
// A cap of zero or less selects DefaultHistoryCap.
func NewHistory(store *Store, cap int) *History {
	if cap <= 0 {
		cap = DefaultHistoryCap
	}
	h := &History{store: store, cap: cap}
	h.Reset()
	return h
}

// Reset discards every entry and starts over from the current store content.
func (h *History) Reset() {
	h.entries = []Snapshot{h.store.Snapshot()}
	h.cursor = 0
}

// Snapshot appends the current store content after the cursor, dropping any
// redo entries, and evicts the oldest entry once the cap is exceeded.
func (h *History) Snapshot() {
	h.entries = append(h.entries[:h.cursor+1], h.store.Snapshot())
	if len(h.entries) > h.cap {
		n := len(h.entries) - h.cap
		// shift onto a fresh backing array so evicted snapshots can be collected
		h.entries = append([]Snapshot(nil), h.entries[n:]...)
		log.Printf("[HISTORY] Evicted %d oldest entries, keeping %d", n, h.cap)
	}
	h.cursor = len(h.entries) - 1
}

// SnapshotIfChanged records an entry only when the store differs from the
// entry at the cursor. It reports whether an entry was added.
func (h *History) SnapshotIfChanged() bool {
	if h.store.Snapshot().Equal(h.entries[h.cursor]) {
		return false
	}
	h.Snapshot()
	return true
}

// Undo moves the cursor back one entry and restores it. At the oldest entry
// it does nothing and returns false.
func (h *History) Undo() bool {
	if h.cursor <= 0 {
		return false
	}
	h.cursor--
	h.store.Replace(h.entries[h.cursor])
	return true
}

// Redo moves the cursor forward one entry and restores it. At the newest
// entry it does nothing and returns false.
func (h *History) Redo() bool {
	if h.cursor >= len(h.entries)-1 {
		return false
	}
	h.cursor++
	h.store.Replace(h.entries[h.cursor])
	return true
}

func (h *History) CanUndo() bool { return h.cursor > 0 }
func (h *History) CanRedo() bool { return h.cursor < len(h.entries)-1 }
func (h *History) Len() int      { return len(h.entries) }
func (h *History) Cursor() int   { return h.cursor }
func (h *History) Cap() int      { return h.cap }

// Entry returns the i-th entry, oldest first.
func (h *History) Entry(i int) Snapshot { return h.entries[i] }
