// Package document implements the per-file synchronization state machine:
// an indexable content view mirrored against a character-level CRDT
// operation log, guarded by the echo-suppression counter described in
// spec.md §4.1 and §4.3.
package document

import (
	"github.com/pkg/errors"

	"github.com/justsync/justsync/internal/agentid"
	"github.com/justsync/justsync/internal/content"
	"github.com/justsync/justsync/internal/crdt"
	"github.com/justsync/justsync/internal/diffengine"
)

// Document is exclusively owned by the Workspace; the Core Controller is
// the only caller that may invoke its mutating methods, and does so from a
// single goroutine (spec.md §4.3, §5).
type Document struct {
	uri     string
	agent   string
	content *content.View
	log     *crdt.Log
	pending int // pending-remote-updates counter; never negative (invariant I2)
}

// New creates an empty document for uri, tagging local operations with
// agent.
func New(uri, agent string) *Document {
	return &Document{
		uri:     uri,
		agent:   agent,
		content: content.New(""),
		log:     crdt.NewLog(agent),
	}
}

// NewWithContent creates a document for uri whose initial content is
// seeded under the reserved "init" agent (spec.md §3: "a reserved 'init'
// agent used only to seed initial content").
func NewWithContent(uri, agent, initial string) *Document {
	return &Document{
		uri:     uri,
		agent:   agent,
		content: content.New(initial),
		log:     crdt.NewSeededLog(agent, agentid.Init, initial),
	}
}

// URI returns the document's key in the Workspace (invariant I3).
func (d *Document) URI() string { return d.uri }

// Content returns the current content view's string, equal to the CRDT
// branch's string at the end of every public operation (invariant I1).
func (d *Document) Content() string { return d.content.String() }

// LenChars returns the number of Unicode scalar values in the document.
func (d *Document) LenChars() int { return d.content.Len() }

// AsString is an alias for Content, named to mirror spec.md's accessor
// list verbatim.
func (d *Document) AsString() string { return d.Content() }

// PendingEchoes returns the current value of the echo-suppression counter.
func (d *Document) PendingEchoes() int { return d.pending }

// ApplyLocalChanges applies an ordered list of editor-produced content
// changes (spec.md §4.1). It returns the encoded CRDT patch bytes to
// broadcast, or nil if nothing should be broadcast — either because the
// batch was suppressed by the echo guard, or because it was a full-text
// replacement (which re-seeds the log without producing a patch).
func (d *Document) ApplyLocalChanges(changes []Change) ([]byte, error) {
	if d.pending > 0 {
		d.pending--
		return nil, nil
	}

	hasRange := false
	for _, c := range changes {
		if c.Range != nil {
			hasRange = true
			break
		}
	}

	if !hasRange {
		text := ""
		if len(changes) > 0 {
			text = changes[len(changes)-1].Text
		}
		d.content.Reset(text)
		d.log.Reseed(d.agent, agentid.Init, text)
		return nil, nil
	}

	for _, c := range changes {
		start, end := 0, 0
		skipDelete := true
		if c.Range != nil {
			start = d.content.LineColToChar(c.Range.Start.Line, c.Range.Start.Column)
			end = d.content.LineColToChar(c.Range.End.Line, c.Range.End.Column)
			if end < start {
				end = start // inverted range: skip the delete
			} else {
				skipDelete = end == start // zero-length range: skip the delete
			}
		} else {
			start = d.content.Len()
			end = start
		}

		if !skipDelete {
			branch := d.log.Branch()
			ids := branch.IDRange(start, end)
			d.log.DeleteIDs(ids)
			d.content.Delete(start, end)
		}

		if c.Text != "" {
			branch := d.log.Branch()
			anchor := branch.AnchorBefore(start)
			d.log.InsertText(anchor, c.Text)
			d.content.Insert(start, c.Text)
		}
	}

	patch, err := d.log.Encode()
	if err != nil {
		return nil, errors.Wrap(err, "document: encode local patch")
	}
	return patch, nil
}

// ApplyRemotePatch decodes and merges a remote CRDT patch (spec.md §4.1).
// It returns the TextEdits needed to bring the editor's buffer in sync, or
// nil if the patch was a no-op (typically a duplicate) or failed to
// decode. A decode failure leaves the document untouched.
func (d *Document) ApplyRemotePatch(patch []byte) ([]diffengine.TextEdit, error) {
	before := d.content.String()

	changed, err := d.log.DecodeAndMerge(patch)
	if err != nil {
		return nil, errors.Wrap(err, "document: decode remote patch")
	}
	if !changed {
		return nil, nil
	}

	after := d.log.Branch().Content()
	d.content.Reset(after)

	edits := diffengine.Diff(before, after)
	if len(edits) == 0 {
		return nil, nil
	}

	d.pending++
	return edits, nil
}

// EncodeLog returns the full encoded CRDT log, independent of any local
// change — used by Workspace.Snapshot() to serialize documents that have
// never had a local edit.
func (d *Document) EncodeLog() ([]byte, error) {
	b, err := d.log.Encode()
	if err != nil {
		return nil, errors.Wrap(err, "document: encode log snapshot")
	}
	return b, nil
}

// ConsumePendingEcho decrements the echo-suppression counter by one
// without going negative, used when a remote patch is applied to a
// document that is closed in the editor: no echo will ever arrive to
// consume the increment ApplyRemotePatch just made, so the controller
// consumes it immediately (spec.md §4.3's RemotePatch handler).
func (d *Document) ConsumePendingEcho() {
	if d.pending > 0 {
		d.pending--
	}
}
