package lsp

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadMessageBasic(t *testing.T) {
	raw := "Content-Length: 12\r\n\r\n{\"ok\":true}\n"
	body, err := ReadMessage(bufio.NewReader(strings.NewReader(raw)))
	require.NoError(t, err)
	require.Equal(t, `{"ok":true}`+"\n", string(body))
}

func TestReadMessageCaseInsensitiveHeader(t *testing.T) {
	raw := "content-LENGTH: 2\r\n\r\nhi"
	body, err := ReadMessage(bufio.NewReader(strings.NewReader(raw)))
	require.NoError(t, err)
	require.Equal(t, "hi", string(body))
}

func TestReadMessageIgnoresOtherHeaders(t *testing.T) {
	raw := "X-Custom: whatever\r\nContent-Length: 2\r\n\r\nhi"
	body, err := ReadMessage(bufio.NewReader(strings.NewReader(raw)))
	require.NoError(t, err)
	require.Equal(t, "hi", string(body))
}

func TestReadMessagePreMessageEOF(t *testing.T) {
	_, err := ReadMessage(bufio.NewReader(strings.NewReader("")))
	require.ErrorIs(t, err, io.EOF)
}

func TestReadMessageMidHeaderEOFIsError(t *testing.T) {
	_, err := ReadMessage(bufio.NewReader(strings.NewReader("Content-Length: 5\r\n")))
	require.Error(t, err)
	require.NotErrorIs(t, err, io.EOF)
}

func TestReadMessageMissingContentLength(t *testing.T) {
	_, err := ReadMessage(bufio.NewReader(strings.NewReader("\r\nbody")))
	require.Error(t, err)
}

func TestWriteMessageRoundTrip(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, WriteMessage(&buf, []byte(`{"a":1}`)))
	body, err := ReadMessage(bufio.NewReader(strings.NewReader(buf.String())))
	require.NoError(t, err)
	require.Equal(t, `{"a":1}`, string(body))
}
