package fsutil

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/justsync/justsync/internal/logging"
)

// ignoredDirs are skipped entirely during the startup scan (spec.md §6).
var ignoredDirs = map[string]bool{
	"target":       true,
	"node_modules": true,
	"dist":         true,
	"_build":       true,
}

// ScanProjectDirectory walks root (host-only startup scan) and returns the
// workspace-relative path and text content of every file found, skipping
// hidden files/directories, the ignored build-artifact directories, and
// any file that is not valid UTF-8 (treated as binary and skipped
// gracefully rather than erroring the whole scan).
func ScanProjectDirectory(root string) (map[string]string, error) {
	files := make(map[string]string)

	err := godirwalk.Walk(root, &godirwalk.Options{
		Unsorted: true,
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if osPathname == root {
				return nil
			}
			base := filepath.Base(osPathname)
			if strings.HasPrefix(base, ".") {
				if de.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if de.IsDir() {
				if ignoredDirs[base] {
					return filepath.SkipDir
				}
				return nil
			}

			rel, err := filepath.Rel(root, osPathname)
			if err != nil {
				return errors.Wrap(err, "fsutil: relativize scanned path")
			}
			rel = NormalizeSlashes(rel)

			data, err := os.ReadFile(osPathname)
			if err != nil {
				logging.L.Warn("fsutil: skipping unreadable file during scan",
					zap.String("path", osPathname), zap.Error(err))
				return nil
			}
			if !utf8.Valid(data) {
				return nil
			}
			files[rel] = string(data)
			return nil
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "fsutil: scan project directory")
	}
	return files, nil
}
