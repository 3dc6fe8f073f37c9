// Package core implements the single-writer actor described in spec.md
// §4.3: the event algebra and the Controller that exclusively owns the
// Workspace and serializes every mutation through one inbox.
package core

import (
	"github.com/justsync/justsync/internal/diffengine"
	"github.com/justsync/justsync/internal/document"
	"github.com/justsync/justsync/internal/wire"
)

// Event is implemented by every member of the event algebra in spec.md's
// §4.3 table.
type Event interface{ isEvent() }

// LocalChange originates from the editor adapter.
type LocalChange struct {
	URI     string
	Changes []document.Change
}

// RemotePatch originates from the network adapter.
type RemotePatch struct {
	URI   string
	Bytes []byte
}

// ClientDidOpen originates from the editor adapter.
type ClientDidOpen struct {
	URI     string
	Content string
}

// ClientDidClose originates from the editor adapter.
type ClientDidClose struct {
	URI string
}

// LoadFromDisk originates from the startup scanner (host only).
type LoadFromDisk struct {
	URI     string
	Content string
}

// PeerRequestedSync originates from the network adapter.
type PeerRequestedSync struct{}

// RemoteFullSync originates from the network adapter.
type RemoteFullSync struct {
	Files []wire.FileEntry
}

// Shutdown originates from any component and breaks the Controller loop.
type Shutdown struct{}

// LocalCursorMove is the supplemented cursor-sharing feature (SPEC_FULL.md):
// it originates from the editor adapter and is forwarded unconditionally,
// never subject to the echo guard.
type LocalCursorMove struct {
	URI    string
	Line   int
	Column int
}

// RemoteCursorMove is the supplemented cursor-sharing feature's inbound
// counterpart, originating from the network adapter.
type RemoteCursorMove struct {
	Peer   string
	URI    string
	Line   int
	Column int
}

func (LocalChange) isEvent()       {}
func (RemotePatch) isEvent()       {}
func (ClientDidOpen) isEvent()     {}
func (ClientDidClose) isEvent()    {}
func (LoadFromDisk) isEvent()      {}
func (PeerRequestedSync) isEvent() {}
func (RemoteFullSync) isEvent()    {}
func (Shutdown) isEvent()          {}
func (LocalCursorMove) isEvent()   {}
func (RemoteCursorMove) isEvent()  {}

// NetworkCommand is implemented by every outbound command the Controller
// may route to the network outbox.
type NetworkCommand interface{ isNetworkCommand() }

// BroadcastPatch instructs the network adapter to broadcast a CRDT patch.
type BroadcastPatch struct {
	URI   string
	Bytes []byte
}

// SendFullSyncResponse instructs the network adapter to answer a pending
// RequestFullSync.
type SendFullSyncResponse struct {
	Files []wire.FileEntry
}

// BroadcastCursor instructs the network adapter to broadcast the local
// cursor position.
type BroadcastCursor struct {
	URI    string
	Line   int
	Column int
}

func (BroadcastPatch) isNetworkCommand()       {}
func (SendFullSyncResponse) isNetworkCommand() {}
func (BroadcastCursor) isNetworkCommand()      {}

// EditorCommand is implemented by every outbound command the Controller
// may route to the editor outbox.
type EditorCommand interface{ isEditorCommand() }

// ApplyEdits instructs the editor adapter to send workspace/applyEdit.
type ApplyEdits struct {
	URI   string
	Edits []diffengine.TextEdit
}

func (ApplyEdits) isEditorCommand() {}
