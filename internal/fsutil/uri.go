// Package fsutil centralizes the boundary between platform filesystem
// paths and workspace-relative wire URIs (spec.md §9: "a recurring source
// of bugs... centralize this in a single pair of functions"), plus the
// startup directory scan and path-safe file writes of spec.md §6.
package fsutil

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

const scheme = "file://"

// NormalizeSlashes converts backslashes to forward slashes so all on-wire
// URIs use forward slashes regardless of platform (spec.md §6).
func NormalizeSlashes(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

func decodePercent(p string) string {
	if decoded, err := url.PathUnescape(p); err == nil {
		return decoded
	}
	return p
}

// driveInsensitive lowercases a leading Windows drive letter ("/C:/...")
// so two paths that differ only in drive-letter case compare equal.
func driveInsensitive(p string) string {
	if len(p) >= 3 && p[0] == '/' && isASCIILetter(p[1]) && p[2] == ':' {
		return "/" + strings.ToLower(p[1:2]) + p[2:]
	}
	return p
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// RootFromURI derives a workspace root from the editor's initialize
// rootUri: strip the file:// scheme, normalize slashes, percent-decode,
// and drop a trailing slash. Windows volume letters arrive already in the
// file:///C:/... form, which strips down to "/C:/...".
func RootFromURI(rootURI string) string {
	s := decodePercent(NormalizeSlashes(strings.TrimPrefix(rootURI, scheme)))
	s = strings.TrimRight(s, "/")
	if s == "" {
		s = "/"
	}
	return s
}

// ToRelative converts an absolute file:// URI to a workspace-relative path
// (no leading slash, forward slashes). It returns an error if uri does not
// lie inside root — checked on path-segment boundaries so that one root
// being a proper string prefix of an unrelated sibling path (e.g. root
// "/proj" and uri "/proj-other/x") is correctly rejected rather than
// matched.
func ToRelative(root, uri string) (string, error) {
	target := decodePercent(NormalizeSlashes(strings.TrimPrefix(uri, scheme)))
	r := driveInsensitive(NormalizeSlashes(strings.TrimRight(root, "/")))
	t := driveInsensitive(target)

	switch {
	case t == r:
		return "", nil
	case strings.HasPrefix(t, r+"/"):
		return strings.TrimPrefix(t, r+"/"), nil
	default:
		return "", errors.Errorf("fsutil: %q is not inside workspace root %q", uri, root)
	}
}

// ToAbsolute converts a workspace-relative path back into an absolute
// file:// URI. Idempotent: a value that is already an absolute URI is
// returned unchanged, rather than gaining a second "file://" prefix.
func ToAbsolute(root, relative string) string {
	if strings.HasPrefix(relative, scheme) {
		return relative
	}
	rel := strings.TrimPrefix(NormalizeSlashes(relative), "/")
	r := strings.TrimRight(NormalizeSlashes(root), "/")
	if rel == "" {
		return scheme + r
	}
	return scheme + r + "/" + rel
}

// IsSafePath rejects the empty path, the literal "/", and any path whose
// components contain parent-directory traversal (spec.md §6).
func IsSafePath(p string) bool {
	if p == "" || p == "/" {
		return false
	}
	for _, seg := range strings.Split(NormalizeSlashes(p), "/") {
		if seg == ".." {
			return false
		}
	}
	return true
}
