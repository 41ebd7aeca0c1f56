// repl_history_test.go - Unit tests for the line editing buffer

package main

import "testing"

func typeLine(h *inputHistory, text string) {
	for _, r := range text {
		h.addRune(r)
	}
}

// TestInputHistory_TypeAndCommit verifies plain typing followed by a commit.
func TestInputHistory_TypeAndCommit(t *testing.T) {
	var h inputHistory

	typeLine(&h, "bpm 120")
	if got := h.line(); got != "bpm 120" {
		t.Fatalf("line = %q, want %q", got, "bpm 120")
	}
	if h.column != 7 {
		t.Errorf("column = %d, want 7", h.column)
	}

	h.commitLine()
	if got := h.line(); got != "" {
		t.Errorf("line after commit = %q, want empty", got)
	}
	if h.column != 0 {
		t.Errorf("column after commit = %d, want 0", h.column)
	}
}

// TestInputHistory_InsertMidLine verifies insertion at the cursor position
// rather than at the end.
func TestInputHistory_InsertMidLine(t *testing.T) {
	var h inputHistory

	typeLine(&h, "bm")
	h.left()
	h.addRune('p')
	if got := h.line(); got != "bpm" {
		t.Errorf("line = %q, want %q", got, "bpm")
	}
	if h.column != 2 {
		t.Errorf("column = %d, want 2", h.column)
	}
}

// TestInputHistory_Backspace verifies deletion before the cursor and the
// no-op at column zero.
func TestInputHistory_Backspace(t *testing.T) {
	var h inputHistory

	typeLine(&h, "stopp")
	if !h.backspace() {
		t.Fatal("backspace on a non-empty line returned false")
	}
	if got := h.line(); got != "stop" {
		t.Errorf("line = %q, want %q", got, "stop")
	}

	h.column = 0
	if h.backspace() {
		t.Error("backspace at column zero returned true")
	}
	if got := h.line(); got != "stop" {
		t.Errorf("line changed by refused backspace: %q", got)
	}
}

// TestInputHistory_DeleteKey verifies deletion under the cursor.
func TestInputHistory_DeleteKey(t *testing.T) {
	var h inputHistory

	typeLine(&h, "sttart")
	h.column = 1
	if !h.deleteKey() {
		t.Fatal("delete on a mid-line cursor returned false")
	}
	if got := h.line(); got != "start" {
		t.Errorf("line = %q, want %q", got, "start")
	}

	h.column = len("start")
	if h.deleteKey() {
		t.Error("delete at end of line returned true")
	}
}

// TestInputHistory_RecallPreviousLines verifies up/down navigation through
// committed lines.
func TestInputHistory_RecallPreviousLines(t *testing.T) {
	var h inputHistory

	typeLine(&h, "bpm 100")
	h.commitLine()
	typeLine(&h, "start")
	h.commitLine()

	if !h.up() {
		t.Fatal("up from the writing buffer returned false")
	}
	if got := h.line(); got != "start" {
		t.Errorf("first recall = %q, want %q", got, "start")
	}
	if !h.up() {
		t.Fatal("second up returned false")
	}
	if got := h.line(); got != "bpm 100" {
		t.Errorf("second recall = %q, want %q", got, "bpm 100")
	}
	if h.up() {
		t.Error("up past the oldest line returned true")
	}

	if !h.down() {
		t.Fatal("down returned false")
	}
	if got := h.line(); got != "start" {
		t.Errorf("after down = %q, want %q", got, "start")
	}
	if !h.down() {
		t.Fatal("down to the writing buffer returned false")
	}
	if got := h.line(); got != "" {
		t.Errorf("writing buffer = %q, want empty", got)
	}
	if h.down() {
		t.Error("down past the writing buffer returned true")
	}
}

// TestInputHistory_EditingRecalledLineCopiesIt verifies that editing a
// recalled entry leaves the stored history untouched.
func TestInputHistory_EditingRecalledLineCopiesIt(t *testing.T) {
	var h inputHistory

	typeLine(&h, "bpm 100")
	h.commitLine()

	h.up()
	h.backspace()
	h.addRune('2')
	if got := h.line(); got != "bpm 102" {
		t.Fatalf("edited line = %q, want %q", got, "bpm 102")
	}

	h.commitLine()
	if got := string(h.previousLines[0]); got != "bpm 100" {
		t.Errorf("history entry mutated to %q", got)
	}
	if got := string(h.previousLines[1]); got != "bpm 102" {
		t.Errorf("committed edit = %q, want %q", got, "bpm 102")
	}
}

// TestInputHistory_CursorBounds verifies left/right clamping.
func TestInputHistory_CursorBounds(t *testing.T) {
	var h inputHistory

	if h.left() || h.right() {
		t.Error("cursor moved in an empty buffer")
	}

	typeLine(&h, "ab")
	if h.right() {
		t.Error("right past end of line returned true")
	}
	if !h.left() || !h.left() {
		t.Fatal("left within the line returned false")
	}
	if h.left() {
		t.Error("left past column zero returned true")
	}
}
