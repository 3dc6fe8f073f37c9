// Package workspace implements the process-wide state described in
// spec.md §3/§4.2: the document mapping, local agent identity, the
// open-set, and the snapshot export used for full-sync.
package workspace

import (
	"sort"

	"github.com/justsync/justsync/internal/document"
)

// Cursor is a peer's last-known position in a document (the supplemented
// cursor-sharing feature in SPEC_FULL.md).
type Cursor struct {
	Line   int
	Column int
}

// Workspace owns every Document for the running daemon. It is exclusively
// mutated by the Core Controller from its single goroutine; it performs no
// locking of its own (spec.md §5: "no locks, no shared access").
type Workspace struct {
	agent   string
	docs    map[string]*document.Document
	open    map[string]bool
	cursors map[string]map[string]Cursor // uri -> peer -> last-known cursor
}

// New creates an empty Workspace for the given local agent identifier.
func New(agent string) *Workspace {
	return &Workspace{
		agent:   agent,
		docs:    make(map[string]*document.Document),
		open:    make(map[string]bool),
		cursors: make(map[string]map[string]Cursor),
	}
}

// Agent returns the local agent identifier.
func (w *Workspace) Agent() string { return w.agent }

// Document returns the document stored under uri, if any, without
// creating it.
func (w *Workspace) Document(uri string) (*document.Document, bool) {
	d, ok := w.docs[uri]
	return d, ok
}

// GetOrCreate returns the document at uri, creating it with initial
// content if absent. A pre-existing document's content is never modified.
func (w *Workspace) GetOrCreate(uri, initialContent string) *document.Document {
	if d, ok := w.docs[uri]; ok {
		return d
	}
	d := document.NewWithContent(uri, w.agent, initialContent)
	w.docs[uri] = d
	return d
}

// GetOrCreateEmpty returns the document at uri, creating it empty if
// absent. A pre-existing document is returned unchanged.
func (w *Workspace) GetOrCreateEmpty(uri string) *document.Document {
	if d, ok := w.docs[uri]; ok {
		return d
	}
	d := document.New(uri, w.agent)
	w.docs[uri] = d
	return d
}

// MarkOpen records uri as tracked by the editor. Idempotent.
func (w *Workspace) MarkOpen(uri string) { w.open[uri] = true }

// MarkClosed removes uri from the open set. Idempotent, including for
// unknown URIs.
func (w *Workspace) MarkClosed(uri string) { delete(w.open, uri) }

// IsOpen reports whether uri is currently tracked by the editor.
func (w *Workspace) IsOpen(uri string) bool { return w.open[uri] }

// SnapshotEntry is one document's serialized operation log.
type SnapshotEntry struct {
	URI   string
	Bytes []byte
}

// Snapshot produces a self-consistent per-document serialization of every
// document whose URI is non-empty and not the literal "/" (spec.md §4.2).
// Entries are ordered by URI for deterministic wire output.
func (w *Workspace) Snapshot() ([]SnapshotEntry, error) {
	uris := make([]string, 0, len(w.docs))
	for uri := range w.docs {
		if uri == "" || uri == "/" {
			continue
		}
		uris = append(uris, uri)
	}
	sort.Strings(uris)

	entries := make([]SnapshotEntry, 0, len(uris))
	for _, uri := range uris {
		bytes, err := w.docs[uri].EncodeLog()
		if err != nil {
			return nil, err
		}
		entries = append(entries, SnapshotEntry{URI: uri, Bytes: bytes})
	}
	return entries, nil
}

// SetPeerCursor records peer's last-known cursor position in uri.
func (w *Workspace) SetPeerCursor(peer, uri string, line, column int) {
	byPeer, ok := w.cursors[uri]
	if !ok {
		byPeer = make(map[string]Cursor)
		w.cursors[uri] = byPeer
	}
	byPeer[peer] = Cursor{Line: line, Column: column}
}

// PeerCursors returns the last-known cursor position of every peer in uri.
func (w *Workspace) PeerCursors(uri string) map[string]Cursor {
	return w.cursors[uri]
}
