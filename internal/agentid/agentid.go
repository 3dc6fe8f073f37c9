// Package agentid generates the per-process identifier that tags every CRDT
// operation originated by this daemon.
package agentid

import "github.com/google/uuid"

// Init is the reserved agent identifier used only to seed initial content
// (spec: document content populated by the editor's open-notification, not
// by a real peer edit).
const Init = "init"

// New returns a fresh per-process agent identifier, a UUID generated at
// startup.
func New() string {
	return uuid.New().String()
}
