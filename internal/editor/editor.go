// Package editor implements the daemon's editor-facing adapter: translating
// between the JSON-RPC messages of internal/lsp and the event algebra of
// internal/core, per spec.md §4.1 and §6.
package editor

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/justsync/justsync/internal/core"
	"github.com/justsync/justsync/internal/diffengine"
	"github.com/justsync/justsync/internal/document"
	"github.com/justsync/justsync/internal/fsutil"
	"github.com/justsync/justsync/internal/logging"
	"github.com/justsync/justsync/internal/lsp"
)

// Adapter owns the stdio connection to the editor: one goroutine reading
// requests/notifications and feeding core.Event into the Controller, one
// goroutine draining the Controller's editor outbox and writing requests
// back out.
type Adapter struct {
	ctrl *core.Controller
	in   *bufio.Reader

	writeMu sync.Mutex
	out     io.Writer

	root   atomic.Value // string
	nextID int64
}

// New builds an Adapter over the given stdio-like streams.
func New(ctrl *core.Controller, in io.Reader, out io.Writer) *Adapter {
	a := &Adapter{
		ctrl: ctrl,
		in:   bufio.NewReader(in),
		out:  out,
	}
	a.root.Store("")
	return a
}

func (a *Adapter) rootURI() string { return a.root.Load().(string) }

// Run drives both directions until the read side hits EOF/error or ctx is
// cancelled, at which point it sends a Shutdown event and returns.
func (a *Adapter) Run(ctx context.Context) error {
	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		a.writeLoop(ctx)
	}()

	err := a.readLoop(ctx)
	a.ctrl.Send(core.Shutdown{})
	<-writeDone
	return err
}

func (a *Adapter) readLoop(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		body, err := lsp.ReadMessage(a.in)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		a.dispatch(body)
	}
}

func (a *Adapter) dispatch(body []byte) {
	var env lsp.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		logging.L.Error("editor: malformed message", zap.Error(err))
		return
	}
	if env.IsResponse() {
		// Only outbound request is workspace/applyEdit; its response is
		// informational and ignored (spec.md §6).
		return
	}

	switch env.Method {
	case "initialize":
		a.handleInitialize(env)
	case "textDocument/didOpen":
		a.handleDidOpen(env)
	case "textDocument/didChange":
		a.handleDidChange(env)
	case "textDocument/didClose":
		a.handleDidClose(env)
	case "$/cursorMove", "justsync/cursorMove":
		a.handleCursorMove(env)
	case "exit":
		a.ctrl.Send(core.Shutdown{})
	default:
		// Notifications and requests this daemon does not participate in
		// are silently ignored, per spec.md §6.
	}
}

func (a *Adapter) handleInitialize(env lsp.Envelope) {
	var params lsp.InitializeParams
	if err := json.Unmarshal(env.Params, &params); err != nil {
		logging.L.Error("editor: malformed initialize params", zap.Error(err))
	}
	if params.RootURI != nil {
		a.root.Store(fsutil.RootFromURI(*params.RootURI))
	}

	result := lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{TextDocumentSync: lsp.TextDocumentSyncIncremental},
	}
	resp := lsp.Response{JSONRPC: "2.0", ID: env.ID, Result: result}
	if err := a.writeJSON(resp); err != nil {
		logging.L.Error("editor: write initialize response failed", zap.Error(err))
	}
}

func (a *Adapter) handleDidOpen(env lsp.Envelope) {
	var params lsp.DidOpenParams
	if err := json.Unmarshal(env.Params, &params); err != nil {
		logging.L.Error("editor: malformed didOpen params", zap.Error(err))
		return
	}
	rel, err := fsutil.ToRelative(a.rootURI(), params.TextDocument.URI)
	if err != nil {
		logging.L.Error("editor: didOpen outside workspace root", zap.Error(err))
		return
	}
	a.ctrl.Send(core.ClientDidOpen{URI: rel, Content: params.TextDocument.Text})
}

func (a *Adapter) handleDidChange(env lsp.Envelope) {
	var params lsp.DidChangeParams
	if err := json.Unmarshal(env.Params, &params); err != nil {
		logging.L.Error("editor: malformed didChange params", zap.Error(err))
		return
	}
	rel, err := fsutil.ToRelative(a.rootURI(), params.TextDocument.URI)
	if err != nil {
		logging.L.Error("editor: didChange outside workspace root", zap.Error(err))
		return
	}

	changes := make([]document.Change, len(params.ContentChanges))
	for i, c := range params.ContentChanges {
		changes[i] = document.Change{Range: toDiffRange(c.Range), Text: c.Text}
	}
	a.ctrl.Send(core.LocalChange{URI: rel, Changes: changes})
}

func (a *Adapter) handleDidClose(env lsp.Envelope) {
	var params lsp.DidCloseParams
	if err := json.Unmarshal(env.Params, &params); err != nil {
		logging.L.Error("editor: malformed didClose params", zap.Error(err))
		return
	}
	rel, err := fsutil.ToRelative(a.rootURI(), params.TextDocument.URI)
	if err != nil {
		logging.L.Error("editor: didClose outside workspace root", zap.Error(err))
		return
	}
	a.ctrl.Send(core.ClientDidClose{URI: rel})
}

// cursorMoveParams is the supplemented cursor-sharing notification's
// payload (SPEC_FULL.md); not part of the base LSP surface.
type cursorMoveParams struct {
	TextDocument lsp.TextDocumentIdentifier `json:"textDocument"`
	Position     lsp.Position               `json:"position"`
}

func (a *Adapter) handleCursorMove(env lsp.Envelope) {
	var params cursorMoveParams
	if err := json.Unmarshal(env.Params, &params); err != nil {
		logging.L.Error("editor: malformed cursorMove params", zap.Error(err))
		return
	}
	rel, err := fsutil.ToRelative(a.rootURI(), params.TextDocument.URI)
	if err != nil {
		return
	}
	a.ctrl.Send(core.LocalCursorMove{URI: rel, Line: params.Position.Line, Column: params.Position.Character})
}

func toDiffRange(r *lsp.Range) *diffengine.Range {
	if r == nil {
		return nil
	}
	return &diffengine.Range{
		Start: diffengine.Position{Line: r.Start.Line, Column: r.Start.Character},
		End:   diffengine.Position{Line: r.End.Line, Column: r.End.Character},
	}
}

func toLSPRange(r diffengine.Range) lsp.Range {
	return lsp.Range{
		Start: lsp.Position{Line: r.Start.Line, Character: r.Start.Column},
		End:   lsp.Position{Line: r.End.Line, Character: r.End.Column},
	}
}

func (a *Adapter) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-a.ctrl.EditorOutbox():
			if !ok {
				return
			}
			a.handleOutbound(cmd)
		}
	}
}

func (a *Adapter) handleOutbound(cmd core.EditorCommand) {
	apply, ok := cmd.(core.ApplyEdits)
	if !ok {
		return
	}

	lspEdits := make([]lsp.TextEdit, len(apply.Edits))
	for i, e := range apply.Edits {
		lspEdits[i] = lsp.TextEdit{Range: toLSPRange(e.Range), NewText: e.NewText}
	}

	uri := fsutil.ToAbsolute(a.rootURI(), apply.URI)
	id := atomic.AddInt64(&a.nextID, 1)
	req := lsp.NewApplyEditRequest(id, map[string][]lsp.TextEdit{uri: lspEdits})
	if err := a.writeJSON(req); err != nil {
		logging.L.Error("editor: write applyEdit request failed", zap.Error(err))
	}
}

func (a *Adapter) writeJSON(v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	return lsp.WriteMessage(a.out, body)
}
