package network

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/justsync/justsync/internal/core"
	"github.com/justsync/justsync/internal/wire"
)

func TestTranslateInboundPatch(t *testing.T) {
	ev := translateInbound(wire.NewPatch("a.txt", []byte("log")), "peer1")
	patch, ok := ev.(core.RemotePatch)
	require.True(t, ok)
	require.Equal(t, "a.txt", patch.URI)
	require.Equal(t, []byte("log"), patch.Bytes)
}

func TestTranslateInboundCursorCarriesPeerID(t *testing.T) {
	ev := translateInbound(wire.NewCursor("a.txt", 3, 4), "peer1")
	move, ok := ev.(core.RemoteCursorMove)
	require.True(t, ok)
	require.Equal(t, "peer1", move.Peer)
	require.Equal(t, 3, move.Line)
	require.Equal(t, 4, move.Column)
}

func TestTranslateInboundRequestFullSync(t *testing.T) {
	ev := translateInbound(wire.NewRequestFullSync(), "peer1")
	_, ok := ev.(core.PeerRequestedSync)
	require.True(t, ok)
}

func TestTranslateInboundFullSyncResponse(t *testing.T) {
	files := []wire.FileEntry{{URI: "a.txt", Bytes: []byte("x")}}
	ev := translateInbound(wire.NewFullSyncResponse(files), "peer1")
	sync, ok := ev.(core.RemoteFullSync)
	require.True(t, ok)
	require.Equal(t, files, sync.Files)
}

func TestTranslateInboundUnknownTypeDropped(t *testing.T) {
	ev := translateInbound(wire.Message{Type: "bogus"}, "peer1")
	require.Nil(t, ev)
}

func TestTranslateOutboundBroadcastPatch(t *testing.T) {
	msg := translateOutbound(core.BroadcastPatch{URI: "a.txt", Bytes: []byte("log")})
	require.Equal(t, wire.TypePatch, msg.Type)
	require.Equal(t, "a.txt", msg.URI)
}

func TestTranslateOutboundSendFullSyncResponse(t *testing.T) {
	files := []wire.FileEntry{{URI: "a.txt", Bytes: []byte("x")}}
	msg := translateOutbound(core.SendFullSyncResponse{Files: files})
	require.Equal(t, wire.TypeFullSyncResponse, msg.Type)
	require.Equal(t, files, msg.Files)
}

func TestTranslateOutboundBroadcastCursor(t *testing.T) {
	msg := translateOutbound(core.BroadcastCursor{URI: "a.txt", Line: 1, Column: 2})
	require.Equal(t, wire.TypeCursor, msg.Type)
	require.Equal(t, 1, msg.Line)
	require.Equal(t, 2, msg.Column)
}
