package document

import "github.com/justsync/justsync/internal/diffengine"

// Change is one editor-produced content-change event: an optional range (nil
// means "full-text replacement") plus the replacement text.
type Change struct {
	Range *diffengine.Range
	Text  string
}
