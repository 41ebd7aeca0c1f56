// repl_history.go - Line editing buffer with input history

package main

// inputHistory keeps previous input lines plus the line being written, with
// a virtual cursor (row, column). Row equal to the number of previous lines
// selects the writing buffer; recalling an older line and editing it first
// copies that line into the writing buffer, so history entries themselves
// stay immutable.
type inputHistory struct {
	previousLines [][]rune
	writingBuffer []rune
	row           int
	column        int
}

func (h *inputHistory) rowInPreviousLines() bool {
	return len(h.previousLines) > 0 && h.row < len(h.previousLines)
}

func (h *inputHistory) prepareModifyingAccess() {
	if h.rowInPreviousLines() {
		h.writingBuffer = append(h.writingBuffer[:0], h.previousLines[h.row]...)
		h.row = len(h.previousLines)
	}
}

func (h *inputHistory) currentLineLen() int {
	if h.row == len(h.previousLines) {
		return len(h.writingBuffer)
	}
	return len(h.previousLines[h.row])
}

// addRune inserts a rune at the cursor column.
func (h *inputHistory) addRune(r rune) {
	h.prepareModifyingAccess()
	h.writingBuffer = append(h.writingBuffer, 0)
	copy(h.writingBuffer[h.column+1:], h.writingBuffer[h.column:])
	h.writingBuffer[h.column] = r
	h.column++
}

func (h *inputHistory) deleteRune() bool {
	h.prepareModifyingAccess()
	if h.column >= len(h.writingBuffer) {
		return false
	}
	h.writingBuffer = append(h.writingBuffer[:h.column], h.writingBuffer[h.column+1:]...)
	return true
}

// commitLine pushes the current line into the history and resets the cursor
// to a fresh writing buffer.
func (h *inputHistory) commitLine() {
	h.prepareModifyingAccess()
	line := h.writingBuffer
	h.writingBuffer = nil
	h.previousLines = append(h.previousLines, line)
	h.row = len(h.previousLines)
	h.column = 0
}

// line returns the text under the history cursor.
func (h *inputHistory) line() string {
	if h.rowInPreviousLines() {
		return string(h.previousLines[h.row])
	}
	return string(h.writingBuffer)
}

func (h *inputHistory) right() bool {
	if h.column < h.currentLineLen() {
		h.column++
		return true
	}
	return false
}

func (h *inputHistory) left() bool {
	if h.column > 0 {
		h.column--
		return true
	}
	return false
}

func (h *inputHistory) down() bool {
	if h.row < len(h.previousLines) {
		h.row++
		h.column = h.currentLineLen()
		return true
	}
	return false
}

func (h *inputHistory) up() bool {
	if h.row > 0 {
		h.row--
		h.column = len(h.previousLines[h.row])
		return true
	}
	return false
}

func (h *inputHistory) backspace() bool {
	if h.column == 0 {
		return false
	}
	h.column--
	return h.deleteRune()
}

func (h *inputHistory) deleteKey() bool {
	return h.deleteRune()
}
