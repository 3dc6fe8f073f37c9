package diffengine

import (
	"testing"
	"testing/quick"

	"github.com/justsync/justsync/internal/content"
	"github.com/stretchr/testify/require"
)

func TestDiffEqual(t *testing.T) {
	require.Nil(t, Diff("same", "same"))
}

func TestDiffInsertWord(t *testing.T) {
	edits := Diff("hello world", "hello brave world")
	require.Equal(t, "hello brave world", ApplyEdits("hello world", edits))
}

func TestDiffReplaceChar(t *testing.T) {
	edits := Diff("cat", "car")
	require.Equal(t, "car", ApplyEdits("cat", edits))
}

func TestDiffDeleteMultiline(t *testing.T) {
	old := "line one\nline two\nline three\n"
	newText := "line one\nline three\n"
	edits := Diff(old, newText)
	require.Equal(t, newText, ApplyEdits(old, edits))
}

func TestDiffUnicodeEmoji(t *testing.T) {
	old := "hi 👋 there"
	newText := "hi 👋🎉 there"
	edits := Diff(old, newText)
	require.Equal(t, newText, ApplyEdits(old, edits))
}

func TestDiffFastPathSingleInsert(t *testing.T) {
	edits := Diff("ac", "abc")
	require.Len(t, edits, 1)
	require.Equal(t, "b", edits[0].NewText)
	require.Equal(t, ApplyEdits("ac", edits), "abc")
}

func TestDiffFastPathSingleDelete(t *testing.T) {
	edits := Diff("abc", "ac")
	require.Len(t, edits, 1)
	require.Equal(t, "", edits[0].NewText)
	require.Equal(t, "ac", ApplyEdits("abc", edits))
}

func TestDiffFullReplace(t *testing.T) {
	edits := Diff("xxxxx", "yyyyy")
	require.Equal(t, "yyyyy", ApplyEdits("xxxxx", edits))
}

func TestDiffEmptyToContent(t *testing.T) {
	edits := Diff("", "new content")
	require.Equal(t, "new content", ApplyEdits("", edits))
}

func TestDiffContentToEmpty(t *testing.T) {
	edits := Diff("gone", "")
	require.Equal(t, "", ApplyEdits("gone", edits))
}

// TestDiffRoundTripProperty is spec.md P1: for every pair of character
// sequences (a, b), apply(a, diff(a, b)) == b.
func TestDiffRoundTripProperty(t *testing.T) {
	f := func(a, b string) bool {
		return ApplyEdits(a, Diff(a, b)) == b
	}
	require.NoError(t, quick.Check(f, &quick.Config{MaxCount: 500}))
}

// TestOffsetRoundTripProperty is spec.md P5: for every character index i in
// a content view, converting to line/column and back yields i.
func TestOffsetRoundTripProperty(t *testing.T) {
	samples := []string{
		"",
		"single line",
		"line one\nline two\nline three",
		"\n\n\n",
		"trailing newline\n",
		"emoji 👋🎉 line\nsecond",
	}
	for _, s := range samples {
		v := content.New(s)
		n := v.Len()
		for i := 0; i <= n; i++ {
			line, col := v.CharToLineCol(i)
			require.Equal(t, i, v.LineToChar(line)+col, "sample=%q index=%d", s, i)
		}
	}
}
