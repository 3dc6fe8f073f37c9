package diffengine

import (
	"strings"

	"github.com/justsync/justsync/internal/content"
)

// Diff computes the ordered list of TextEdits that transform old into new,
// positions expressed in old's pre-edit line/column coordinate space.
func Diff(old, newText string) []TextEdit {
	if old == newText {
		return nil
	}

	oldRunes := []rune(old)
	newRunes := []rune(newText)

	prefixLen := commonPrefixLen(oldRunes, newRunes)
	suffixLen := commonSuffixLen(oldRunes, newRunes, prefixLen)

	oldMiddle := oldRunes[prefixLen : len(oldRunes)-suffixLen]
	newMiddle := newRunes[prefixLen : len(newRunes)-suffixLen]

	view := content.New(old)

	switch {
	case len(oldMiddle) == 0 && len(newMiddle) == 0:
		return nil
	case len(oldMiddle) == 0:
		return []TextEdit{pointEdit(view, prefixLen, string(newMiddle))}
	case len(newMiddle) == 0:
		return []TextEdit{rangeEdit(view, prefixLen, prefixLen+len(oldMiddle), "")}
	}

	raws := lcsDiff(oldMiddle, newMiddle)
	return coalesce(view, prefixLen, raws)
}

func commonPrefixLen(a, b []rune) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

func commonSuffixLen(a, b []rune, prefixLen int) int {
	maxLen := len(a) - prefixLen
	if len(b)-prefixLen < maxLen {
		maxLen = len(b) - prefixLen
	}
	i := 0
	for i < maxLen && a[len(a)-1-i] == b[len(b)-1-i] {
		i++
	}
	return i
}

type rawOp struct {
	isDelete bool
	oldIdx   int
	ch       rune
}

// lcsDiff runs a character-level longest-common-subsequence diff over a and
// b, returning an ordered mix of delete/insert ops expressed as positions
// within a (with cursor advancing through a: deletions consume the cursor,
// insertions do not, equal runs advance without emitting).
func lcsDiff(a, b []rune) []rawOp {
	n, m := len(a), len(b)
	dp := make([][]int32, n+1)
	for i := range dp {
		dp[i] = make([]int32, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				dp[i][j] = dp[i+1][j+1] + 1
			} else if dp[i+1][j] >= dp[i][j+1] {
				dp[i][j] = dp[i+1][j]
			} else {
				dp[i][j] = dp[i][j+1]
			}
		}
	}

	var ops []rawOp
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			i++
			j++
		case dp[i+1][j] >= dp[i][j+1]:
			ops = append(ops, rawOp{isDelete: true, oldIdx: i})
			i++
		default:
			ops = append(ops, rawOp{isDelete: false, oldIdx: i, ch: b[j]})
			j++
		}
	}
	for i < n {
		ops = append(ops, rawOp{isDelete: true, oldIdx: i})
		i++
	}
	for j < m {
		ops = append(ops, rawOp{isDelete: false, oldIdx: i, ch: b[j]})
		j++
	}
	return ops
}

// coalesce groups consecutive same-kind raw ops (deletions over contiguous
// indices, insertions at the same cursor position) into TextEdits, offset
// by base (the common-prefix length) into the original old sequence.
func coalesce(view *content.View, base int, raws []rawOp) []TextEdit {
	var edits []TextEdit
	i := 0
	for i < len(raws) {
		if raws[i].isDelete {
			start := raws[i].oldIdx
			j := i
			for j < len(raws) && raws[j].isDelete && raws[j].oldIdx == start+(j-i) {
				j++
			}
			end := raws[j-1].oldIdx + 1
			edits = append(edits, rangeEdit(view, base+start, base+end, ""))
			i = j
		} else {
			start := raws[i].oldIdx
			var sb strings.Builder
			j := i
			for j < len(raws) && !raws[j].isDelete && raws[j].oldIdx == start {
				sb.WriteRune(raws[j].ch)
				j++
			}
			edits = append(edits, pointEdit(view, base+start, sb.String()))
			i = j
		}
	}
	return edits
}

func pointEdit(view *content.View, charIdx int, text string) TextEdit {
	line, col := view.CharToLineCol(charIdx)
	pos := Position{Line: line, Column: col}
	return TextEdit{Range: Range{Start: pos, End: pos}, NewText: text}
}

func rangeEdit(view *content.View, startIdx, endIdx int, text string) TextEdit {
	sl, sc := view.CharToLineCol(startIdx)
	el, ec := view.CharToLineCol(endIdx)
	return TextEdit{
		Range:   Range{Start: Position{Line: sl, Column: sc}, End: Position{Line: el, Column: ec}},
		NewText: text,
	}
}

// ApplyEdits applies edits to old and returns the result. Edits
// must be in ascending old-sequence order with non-overlapping ranges, as
// produced by Diff. It exists primarily to let tests exercise the
// round-trip property apply(old, diff(old, new)) == new.
func ApplyEdits(old string, edits []TextEdit) string {
	view := content.New(old)
	// Apply back-to-front so that earlier positions stay valid pre-edit
	// offsets throughout.
	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		start := view.LineColToChar(e.Range.Start.Line, e.Range.Start.Column)
		end := view.LineColToChar(e.Range.End.Line, e.Range.End.Column)
		view.Delete(start, end)
		view.Insert(start, e.NewText)
	}
	return view.String()
}
