// Package lsp implements the editor-facing Language Server Protocol
// surface: the JSON-RPC message shapes named in spec.md §6 and the
// Content-Length stdio framing they travel over.
package lsp

import "encoding/json"

// Envelope is the generic JSON-RPC envelope used to sniff method/id before
// dispatching to a concrete params type.
type Envelope struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// IsResponse reports whether the envelope is a response (has an id, no
// method) rather than a request or notification.
func (e Envelope) IsResponse() bool { return e.Method == "" && len(e.ID) > 0 }

type TextDocumentItem struct {
	URI  string `json:"uri"`
	Text string `json:"text"`
}

type DidOpenParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

type DidCloseParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

type VersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type TextDocumentContentChangeEvent struct {
	Range *Range `json:"range,omitempty"`
	Text  string `json:"text"`
}

type DidChangeParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

type InitializeParams struct {
	RootURI *string `json:"rootUri,omitempty"`
}

type ServerCapabilities struct {
	TextDocumentSync int `json:"textDocumentSync"`
}

type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
}

// TextDocumentSyncIncremental is the capability value this daemon
// advertises (spec.md §6: "reply with capabilities {textDocumentSync: 2}
// (incremental)").
const TextDocumentSyncIncremental = 2

// ApplyEditParams is the payload of the daemon-to-editor
// workspace/applyEdit request.
type ApplyEditParams struct {
	Label string         `json:"label"`
	Edit  WorkspaceEdit  `json:"edit"`
}

type WorkspaceEdit struct {
	Changes map[string][]TextEdit `json:"changes"`
}

// Request is a JSON-RPC request envelope the daemon sends to the editor.
type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int64       `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

// NewApplyEditRequest builds the workspace/applyEdit request described in
// spec.md §6.
func NewApplyEditRequest(id int64, changes map[string][]TextEdit) Request {
	return Request{
		JSONRPC: "2.0",
		ID:      id,
		Method:  "workspace/applyEdit",
		Params: ApplyEditParams{
			Label: "JustSync Remote Update",
			Edit:  WorkspaceEdit{Changes: changes},
		},
	}
}

// Response is a JSON-RPC response envelope the daemon sends to the editor,
// used only to reply to the editor's initialize request.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{} `json:"result"`
}
