package main

// historyCap bounds every undo stack in an editing session. Once full, the
// oldest entry is evicted on push.
const historyCap = 30

// History is a bounded linear undo stack. A cursor marks the current entry;
// pushing discards anything past the cursor (no redo branching) and evicts
// the oldest entry at capacity.
type History[T any] struct {
	limit   int
	entries []T
	cursor  int
}

// NewHistory creates a history seeded with an initial entry, which becomes
// the floor that Undo can never move past.
func NewHistory[T any](limit int, initial T) *History[T] {
	if limit < 2 {
		limit = 2
	}
	return &History[T]{
		limit:   limit,
		entries: []T{initial},
		cursor:  0,
	}
}

// Push records v as the new current entry, truncating any undone future.
func (h *History[T]) Push(v T) {
	h.entries = append(h.entries[:h.cursor+1], v)
	if len(h.entries) > h.limit {
		h.entries = h.entries[1:]
	}
	h.cursor = len(h.entries) - 1
}

// Undo steps the cursor back one entry and returns it. It reports false when
// already at the oldest entry.
func (h *History[T]) Undo() (T, bool) {
	if h.cursor == 0 {
		var zero T
		return zero, false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Current returns the entry at the cursor.
func (h *History[T]) Current() T {
	return h.entries[h.cursor]
}

// Len returns the number of stored entries.
func (h *History[T]) Len() int {
	return len(h.entries)
}
