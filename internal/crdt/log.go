package crdt

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Log is a single document's causally-ordered operation log. It supports
// appending local operations, merging a decoded remote log idempotently,
// and encoding itself back into a self-contained byte patch (spec.md §3:
// "encoding the entire log into a self-contained byte patch" — every
// encode ships the full history, not a delta, which is what makes Merge a
// plain idempotent set-union).
type Log struct {
	agent string
	seq   uint64 // shared Lamport clock, not a per-agent counter; see nextID and appendOp

	ops     []Op
	known   map[OpID]bool // insert IDs already present, for dedupe
	deleted map[OpID]bool // target IDs already tombstoned, for dedupe
}

// NewLog creates an empty log that will tag locally-originated operations
// with agent.
func NewLog(agent string) *Log {
	return &Log{
		agent:   agent,
		known:   make(map[OpID]bool),
		deleted: make(map[OpID]bool),
	}
}

// nextID bumps the log's Lamport clock and stamps it with the local agent.
// Because appendOp also bumps the clock past every merged-in op's Seq (see
// below), this always produces a Seq greater than anything the log has
// seen so far, local or remote.
func (l *Log) nextID() OpID {
	l.seq++
	return OpID{Agent: l.agent, Seq: l.seq}
}

// InsertText appends a chain of per-character insert operations anchored
// after the given OpID, and returns the OpID of the chain's first
// character (needed by callers that must reference it, though in this
// codebase nothing currently does — it mirrors the information a caller
// would need to anchor a subsequent insert immediately after this one
// without re-deriving position from a Branch).
func (l *Log) InsertText(after OpID, text string) OpID {
	first := OpID{}
	prev := after
	for i, r := range []rune(text) {
		id := l.nextID()
		if i == 0 {
			first = id
		}
		l.appendOp(Op{Kind: KindInsert, ID: id, After: prev, Char: r})
		prev = id
	}
	return first
}

// DeleteIDs tombstones each of the given character IDs.
func (l *Log) DeleteIDs(ids []OpID) {
	for _, id := range ids {
		l.appendOp(Op{Kind: KindDelete, Target: id})
	}
}

// appendOp records op if it is not already known, preserving idempotency.
// For inserts it also advances the log's Lamport clock past op.ID.Seq, so
// that a merged-in op (from a local insert or a remote patch) always
// raises the floor for every subsequent local nextID call — the basis for
// OpID.Less's adjacency guarantee.
func (l *Log) appendOp(op Op) bool {
	switch op.Kind {
	case KindInsert:
		if l.known[op.ID] {
			return false
		}
		l.known[op.ID] = true
		if op.ID.Seq > l.seq {
			l.seq = op.ID.Seq
		}
	case KindDelete:
		if l.deleted[op.Target] {
			return false
		}
		l.deleted[op.Target] = true
	default:
		return false
	}
	l.ops = append(l.ops, op)
	return true
}

// Merge unions remote into this log by OpID, idempotently. Returns whether
// any operation was newly recorded.
func (l *Log) Merge(remote []Op) bool {
	changed := false
	for _, op := range remote {
		if l.appendOp(op) {
			changed = true
		}
	}
	return changed
}

// Encode serializes the entire log as a self-contained byte patch.
func (l *Log) Encode() ([]byte, error) {
	b, err := json.Marshal(l.ops)
	if err != nil {
		return nil, errors.Wrap(err, "encode crdt log")
	}
	return b, nil
}

// DecodeAndMerge decodes a remote patch produced by Encode and merges it
// into this log idempotently. Returns whether the merge changed the log.
func (l *Log) DecodeAndMerge(data []byte) (bool, error) {
	var ops []Op
	if err := json.Unmarshal(data, &ops); err != nil {
		return false, errors.Wrap(err, "decode crdt patch")
	}
	return l.Merge(ops), nil
}

// Branch fast-forwards a materialized view of the current log tip.
func (l *Log) Branch() *Branch {
	return buildBranch(l.ops)
}

// Agent returns the agent identifier this log tags local operations with.
func (l *Log) Agent() string { return l.agent }

// NewSeededLog builds a log whose initial content is a single bulk
// insertion tagged with seedAgent (the reserved "init" agent, for content
// supplied by the editor's open-notification), while subsequent local
// operations are tagged with realAgent. The Lamport clock is left exactly
// where the seeding insertions leave it — NOT reset to zero — so that the
// first real local edit is still guaranteed a Seq greater than every
// seeded character's; resetting it here would let a local insert at the
// same anchor as a seeded character lose the OpID.Less comparison purely
// because its agent name happens to sort below "init" alphabetically.
func NewSeededLog(realAgent, seedAgent, content string) *Log {
	l := NewLog(seedAgent)
	l.InsertText(Root, content)
	l.agent = realAgent
	return l
}

// Reseed discards all history and replaces it with a single bulk insertion
// tagged with seedAgent, then resumes tagging local operations with
// realAgent. Used when apply_local_changes receives a full-text
// replacement (spec.md §4.1: "the CRDT log is re-seeded"). The clock reset
// before seeding is safe because the whole log (and every competing OpID)
// was just discarded; the clock is then left alone, for the same reason
// given in NewSeededLog.
func (l *Log) Reseed(realAgent, seedAgent, content string) {
	l.ops = nil
	l.known = make(map[OpID]bool)
	l.deleted = make(map[OpID]bool)
	l.agent = seedAgent
	l.seq = 0
	l.InsertText(Root, content)
	l.agent = realAgent
}
