package main

import "testing"

func TestHistoryUndo(t *testing.T) {
	h := NewHistory(historyCap, 0)
	h.Push(1)
	h.Push(2)
	h.Push(3)

	if got := h.Current(); got != 3 {
		t.Fatalf("Current() = %d, want 3", got)
	}

	for _, want := range []int{2, 1, 0} {
		got, ok := h.Undo()
		if !ok || got != want {
			t.Fatalf("Undo() = (%d, %v), want (%d, true)", got, ok, want)
		}
	}

	if _, ok := h.Undo(); ok {
		t.Error("Undo past the initial entry should report false")
	}
	if got := h.Current(); got != 0 {
		t.Errorf("Current() after exhausting undo = %d, want 0", got)
	}
}

func TestHistoryTruncatesFutureOnPush(t *testing.T) {
	h := NewHistory(historyCap, 0)
	h.Push(1)
	h.Push(2)
	h.Push(3)

	h.Undo() // back to 2
	h.Undo() // back to 1
	h.Push(10)

	if got := h.Current(); got != 10 {
		t.Fatalf("Current() = %d, want 10", got)
	}
	// The undone 2 and 3 are gone; undo walks back through 1 then 0.
	if got, ok := h.Undo(); !ok || got != 1 {
		t.Errorf("Undo() = (%d, %v), want (1, true)", got, ok)
	}
	if got, ok := h.Undo(); !ok || got != 0 {
		t.Errorf("Undo() = (%d, %v), want (0, true)", got, ok)
	}
	if _, ok := h.Undo(); ok {
		t.Error("expected undo floor after truncation")
	}
}

func TestHistoryEvictsOldestAtCapacity(t *testing.T) {
	h := NewHistory(5, 0)
	for i := 1; i <= 10; i++ {
		h.Push(i)
	}

	if h.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", h.Len())
	}
	if got := h.Current(); got != 10 {
		t.Fatalf("Current() = %d, want 10", got)
	}

	// Only the four most recent predecessors survive.
	var seen []int
	for {
		v, ok := h.Undo()
		if !ok {
			break
		}
		seen = append(seen, v)
	}
	want := []int{9, 8, 7, 6}
	if len(seen) != len(want) {
		t.Fatalf("undo chain = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("undo chain = %v, want %v", seen, want)
		}
	}
}

func TestHistoryMinimumCapacity(t *testing.T) {
	h := NewHistory(0, "a")
	h.Push("b")
	if got, ok := h.Undo(); !ok || got != "a" {
		t.Errorf("Undo() = (%q, %v), want (\"a\", true)", got, ok)
	}
}
