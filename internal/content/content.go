// Package content implements the Document's indexable character sequence:
// an in-memory rune buffer with a lazily-rebuilt line-start index so that
// character-index <-> line/column translation runs in O(log n) against an
// O(n) mutation cost, matching spec.md's "content view" contract.
package content

import "sort"

// View is an indexable Unicode-scalar sequence. The zero value is an empty
// view, ready to use.
type View struct {
	runes      []rune
	lineStarts []int // lineStarts[i] = char index of the first char of line i; rebuilt lazily
	dirty      bool
}

// New builds a View pre-populated with s.
func New(s string) *View {
	v := &View{}
	v.Reset(s)
	return v
}

// Reset replaces the entire content with s.
func (v *View) Reset(s string) {
	v.runes = []rune(s)
	v.dirty = true
}

// Len returns the number of Unicode scalar values in the view.
func (v *View) Len() int { return len(v.runes) }

// String returns the full content as a string.
func (v *View) String() string { return string(v.runes) }

// Slice returns the substring [start, end) in character indices, clamped to
// the view's bounds.
func (v *View) Slice(start, end int) string {
	start, end = v.clampRange(start, end)
	if start >= end {
		return ""
	}
	return string(v.runes[start:end])
}

// Insert inserts text at the character index at, clamped to [0, Len()].
func (v *View) Insert(at int, text string) {
	if text == "" {
		return
	}
	at = clamp(at, 0, len(v.runes))
	ins := []rune(text)
	buf := make([]rune, 0, len(v.runes)+len(ins))
	buf = append(buf, v.runes[:at]...)
	buf = append(buf, ins...)
	buf = append(buf, v.runes[at:]...)
	v.runes = buf
	v.dirty = true
}

// Delete removes the character range [start, end), clamped to the view's
// bounds. A no-op if the range is empty or inverted.
func (v *View) Delete(start, end int) {
	start, end = v.clampRange(start, end)
	if start >= end {
		return
	}
	buf := make([]rune, 0, len(v.runes)-(end-start))
	buf = append(buf, v.runes[:start]...)
	buf = append(buf, v.runes[end:]...)
	v.runes = buf
	v.dirty = true
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func (v *View) clampRange(start, end int) (int, int) {
	start = clamp(start, 0, len(v.runes))
	end = clamp(end, 0, len(v.runes))
	if end < start {
		return start, start
	}
	return start, end
}

// rebuildLineStarts computes line-start offsets from scratch. A line break
// is a single '\n'; '\r' is treated as ordinary content (matching the
// editor's own line-counting, which operates on LSP positions over UTF-16
// code units per line terminated by '\n').
func (v *View) rebuildLineStarts() {
	starts := make([]int, 1, 16)
	starts[0] = 0
	for i, r := range v.runes {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	v.lineStarts = starts
	v.dirty = false
}

func (v *View) ensureLineStarts() {
	if v.dirty || v.lineStarts == nil {
		v.rebuildLineStarts()
	}
}

// LineCount returns the number of lines, counting a trailing partial line.
func (v *View) LineCount() int {
	v.ensureLineStarts()
	return len(v.lineStarts)
}

// LineToChar converts a zero-based line number to the character index of
// its first character. Out-of-range line numbers clamp to the last line
// (spec.md §4.1: "out-of-bounds line indices clamp to last line").
func (v *View) LineToChar(line int) int {
	v.ensureLineStarts()
	line = clamp(line, 0, len(v.lineStarts)-1)
	return v.lineStarts[line]
}

// LineLen returns the number of characters on the given line, excluding the
// trailing newline.
func (v *View) LineLen(line int) int {
	v.ensureLineStarts()
	line = clamp(line, 0, len(v.lineStarts)-1)
	start := v.lineStarts[line]
	var end int
	if line+1 < len(v.lineStarts) {
		end = v.lineStarts[line+1] - 1 // exclude the '\n'
	} else {
		end = len(v.runes)
	}
	if end < start {
		end = start
	}
	return end - start
}

// CharToLineCol converts a character index to a zero-based (line, column)
// pair. Satisfies the round-trip LineToChar(line) + column == index for any
// valid index.
func (v *View) CharToLineCol(index int) (line, column int) {
	v.ensureLineStarts()
	index = clamp(index, 0, len(v.runes))
	// Largest line whose start is <= index.
	line = sort.Search(len(v.lineStarts), func(i int) bool {
		return v.lineStarts[i] > index
	}) - 1
	if line < 0 {
		line = 0
	}
	column = index - v.lineStarts[line]
	return line, column
}

// LineColToChar converts a (line, column) pair to a character index,
// clamping out-of-bounds lines to the last line and out-of-bounds columns
// to the line length (spec.md §4.1).
func (v *View) LineColToChar(line, column int) int {
	v.ensureLineStarts()
	line = clamp(line, 0, len(v.lineStarts)-1)
	lineLen := v.LineLen(line)
	column = clamp(column, 0, lineLen)
	return v.lineStarts[line] + column
}
