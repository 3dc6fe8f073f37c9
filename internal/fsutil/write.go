package fsutil

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// WriteFile writes content to root/relative, creating intermediate
// directories as needed. It rejects unsafe relative paths (spec.md §6)
// rather than writing outside root.
func WriteFile(root, relative, contentStr string) error {
	if !IsSafePath(relative) {
		return errors.Errorf("fsutil: refusing to write unsafe path %q", relative)
	}
	full := filepath.Join(root, filepath.FromSlash(relative))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return errors.Wrap(err, "fsutil: create directories")
	}
	if err := os.WriteFile(full, []byte(contentStr), 0o644); err != nil {
		return errors.Wrap(err, "fsutil: write file")
	}
	return nil
}
