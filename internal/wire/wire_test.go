package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPatchRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, NewPatch("doc.txt", []byte("payload"))))

	msg, err := Read(&buf, MaxMessageBytes)
	require.NoError(t, err)
	require.Equal(t, TypePatch, msg.Type)
	require.Equal(t, "doc.txt", msg.URI)
	require.Equal(t, []byte("payload"), msg.Bytes)
}

func TestFullSyncResponseRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	files := []FileEntry{{URI: "a.txt", Bytes: []byte("A")}, {URI: "b.txt", Bytes: []byte("B")}}
	require.NoError(t, Write(&buf, NewFullSyncResponse(files)))

	msg, err := Read(&buf, MaxMessageBytes)
	require.NoError(t, err)
	require.Equal(t, TypeFullSyncResponse, msg.Type)
	require.Equal(t, files, msg.Files)
}

func TestReadRejectsOversizedMessage(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(`{"type":"patch","bytes":"` + string(make([]byte, 32)) + `"}`)
	_, err := Read(&buf, 8)
	require.Error(t, err)
}

func TestReadRejectsGarbage(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("not json")
	_, err := Read(&buf, MaxMessageBytes)
	require.Error(t, err)
}
