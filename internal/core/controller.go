package core

import (
	"context"

	"go.uber.org/zap"

	"github.com/justsync/justsync/internal/fsutil"
	"github.com/justsync/justsync/internal/logging"
	"github.com/justsync/justsync/internal/wire"
	"github.com/justsync/justsync/internal/workspace"
)

// DefaultInboxCapacity and DefaultEditorOutboxCapacity are the channel
// capacities suggested by spec.md §5.
const (
	DefaultInboxCapacity         = 100
	DefaultNetworkOutboxCapacity = 100
	DefaultEditorOutboxCapacity  = 4096
)

// Controller is the single-writer actor that owns a Workspace exclusively
// and drains its inbox sequentially (spec.md §4.3).
type Controller struct {
	ws       *workspace.Workspace
	diskRoot string

	inbox      chan Event
	networkOut chan NetworkCommand
	editorOut  chan EditorCommand
}

// New builds a Controller over ws. diskRoot is where closed-file updates
// and full-sync payloads are materialized.
func New(ws *workspace.Workspace, diskRoot string) *Controller {
	return &Controller{
		ws:         ws,
		diskRoot:   diskRoot,
		inbox:      make(chan Event, DefaultInboxCapacity),
		networkOut: make(chan NetworkCommand, DefaultNetworkOutboxCapacity),
		editorOut:  make(chan EditorCommand, DefaultEditorOutboxCapacity),
	}
}

// Send enqueues ev on the Controller's inbox, blocking if it is full (a
// suspension point per spec.md §5, not an error condition).
func (c *Controller) Send(ev Event) { c.inbox <- ev }

// NetworkOutbox is drained by the network adapter's outbound loop.
func (c *Controller) NetworkOutbox() <-chan NetworkCommand { return c.networkOut }

// EditorOutbox is drained by the editor adapter's write side.
func (c *Controller) EditorOutbox() <-chan EditorCommand { return c.editorOut }

// Run drains the inbox sequentially until a Shutdown event is processed or
// ctx is cancelled. No other goroutine may mutate the Workspace.
func (c *Controller) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-c.inbox:
			if !ok {
				return
			}
			if _, isShutdown := ev.(Shutdown); isShutdown {
				return
			}
			c.handle(ev)
		}
	}
}

func (c *Controller) handle(ev Event) {
	switch e := ev.(type) {
	case LocalChange:
		c.handleLocalChange(e)
	case RemotePatch:
		c.handleRemotePatch(e)
	case ClientDidOpen:
		c.ws.GetOrCreate(e.URI, e.Content)
		c.ws.MarkOpen(e.URI)
	case ClientDidClose:
		c.ws.MarkClosed(e.URI)
	case LoadFromDisk:
		c.ws.GetOrCreate(e.URI, e.Content)
	case PeerRequestedSync:
		c.handlePeerRequestedSync()
	case RemoteFullSync:
		c.handleRemoteFullSync(e)
	case LocalCursorMove:
		c.sendNetwork(BroadcastCursor{URI: e.URI, Line: e.Line, Column: e.Column})
	case RemoteCursorMove:
		c.ws.SetPeerCursor(e.Peer, e.URI, e.Line, e.Column)
	default:
		logging.L.Warn("core: unknown event type, ignoring")
	}
}

func (c *Controller) handleLocalChange(e LocalChange) {
	doc := c.ws.GetOrCreateEmpty(e.URI)
	patch, err := doc.ApplyLocalChanges(e.Changes)
	if err != nil {
		logging.L.Error("core: apply local changes failed", zap.String("uri", e.URI), zap.Error(err))
		return
	}
	if patch == nil {
		return
	}
	c.sendNetwork(BroadcastPatch{URI: e.URI, Bytes: patch})
}

func (c *Controller) handleRemotePatch(e RemotePatch) {
	doc := c.ws.GetOrCreateEmpty(e.URI)
	edits, err := doc.ApplyRemotePatch(e.Bytes)
	if err != nil {
		logging.L.Error("core: apply remote patch failed", zap.String("uri", e.URI), zap.Error(err))
		return
	}
	if edits == nil {
		return
	}
	if c.ws.IsOpen(e.URI) {
		c.sendEditor(ApplyEdits{URI: e.URI, Edits: edits})
		return
	}
	doc.ConsumePendingEcho()
	c.writeToDisk(e.URI, doc.Content())
}

func (c *Controller) handlePeerRequestedSync() {
	entries, err := c.ws.Snapshot()
	if err != nil {
		logging.L.Error("core: build sync snapshot failed", zap.Error(err))
		return
	}
	files := make([]wire.FileEntry, len(entries))
	for i, e := range entries {
		files[i] = wire.FileEntry{URI: e.URI, Bytes: e.Bytes}
	}
	c.sendNetwork(SendFullSyncResponse{Files: files})
}

func (c *Controller) handleRemoteFullSync(e RemoteFullSync) {
	for _, f := range e.Files {
		wasOpen := c.ws.IsOpen(f.URI)
		doc := c.ws.GetOrCreateEmpty(f.URI)
		edits, err := doc.ApplyRemotePatch(f.Bytes)
		if err != nil {
			logging.L.Error("core: apply full-sync file failed", zap.String("uri", f.URI), zap.Error(err))
			continue
		}
		if edits == nil {
			continue
		}
		if wasOpen {
			c.sendEditor(ApplyEdits{URI: f.URI, Edits: edits})
		} else {
			doc.ConsumePendingEcho()
		}
	}
	for _, f := range e.Files {
		doc, ok := c.ws.Document(f.URI)
		if !ok {
			continue
		}
		c.writeToDisk(f.URI, doc.Content())
	}
}

// writeToDisk materializes a document's current content to disk,
// fire-and-forget with errors logged (spec.md §4.3, §7).
func (c *Controller) writeToDisk(uri, content string) {
	if !fsutil.IsSafePath(uri) {
		logging.L.Warn("core: skipping disk write for unsafe uri", zap.String("uri", uri))
		return
	}
	if err := fsutil.WriteFile(c.diskRoot, uri, content); err != nil {
		logging.L.Error("core: write to disk failed", zap.String("uri", uri), zap.Error(err))
	}
}

// sendNetwork and sendEditor route outbound commands through their bounded
// channels. A full buffer is a legitimate suspension point (spec.md §5),
// not an error: the call blocks until the adapter's loop drains it.
func (c *Controller) sendNetwork(cmd NetworkCommand) { c.networkOut <- cmd }

func (c *Controller) sendEditor(cmd EditorCommand) { c.editorOut <- cmd }
