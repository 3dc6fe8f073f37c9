package content

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertDelete(t *testing.T) {
	v := New("hello world")
	v.Insert(5, ",")
	require.Equal(t, "hello, world", v.String())
	v.Delete(0, 6)
	require.Equal(t, "world", v.String())
}

func TestClampingOutOfBounds(t *testing.T) {
	v := New("abc")
	v.Insert(100, "x") // clamps to end
	require.Equal(t, "abcx", v.String())
	v.Delete(-5, 2) // clamps start to 0
	require.Equal(t, "cx", v.String())
}

func TestInvertedRangeIsNoop(t *testing.T) {
	v := New("abcdef")
	v.Delete(4, 1)
	require.Equal(t, "abcdef", v.String())
}

func TestLineColRoundTrip(t *testing.T) {
	v := New("line0\nline1\nline2")
	for i := 0; i <= v.Len(); i++ {
		line, col := v.CharToLineCol(i)
		require.Equal(t, i, v.LineToChar(line)+col)
	}
}

func TestLineColOutOfBoundsClamp(t *testing.T) {
	v := New("one\ntwo")
	require.Equal(t, v.LineToChar(1), v.LineColToChar(100, 0)) // line clamps to last
	idx := v.LineColToChar(0, 999)                             // column clamps to line length
	require.Equal(t, v.LineLen(0), idx)
}

func TestLineCountAndLen(t *testing.T) {
	v := New("a\nbb\nccc")
	require.Equal(t, 3, v.LineCount())
	require.Equal(t, 1, v.LineLen(0))
	require.Equal(t, 2, v.LineLen(1))
	require.Equal(t, 3, v.LineLen(2))
}
