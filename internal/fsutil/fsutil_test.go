package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRelBasicUnix(t *testing.T) {
	rel, err := ToRelative("/home/user/project", "file:///home/user/project/src/main.go")
	require.NoError(t, err)
	require.Equal(t, "src/main.go", rel)
}

func TestRelWindowsBackslashNormalization(t *testing.T) {
	rel, err := ToRelative("/C:/Users/dev/project", `file:///C:/Users/dev/project\src\main.go`)
	require.NoError(t, err)
	require.Equal(t, "src/main.go", rel)
}

func TestRelMixedSlashes(t *testing.T) {
	rel, err := ToRelative("/C:/proj", `file:///C:/proj/a\b/c.go`)
	require.NoError(t, err)
	require.Equal(t, "a/b/c.go", rel)
}

func TestRelDirectoryPrefixCollision(t *testing.T) {
	_, err := ToRelative("/home/user/proj", "file:///home/user/proj-other/file.go")
	require.Error(t, err)
}

func TestRelEncodingSpaces(t *testing.T) {
	rel, err := ToRelative("/home/user/my project", "file:///home/user/my%20project/a.go")
	require.NoError(t, err)
	require.Equal(t, "a.go", rel)
}

func TestRelWindowsCaseInsensitivity(t *testing.T) {
	rel, err := ToRelative("/c:/proj", "file:///C:/proj/a.go")
	require.NoError(t, err)
	require.Equal(t, "a.go", rel)
}

func TestAbsJoinClean(t *testing.T) {
	uri := ToAbsolute("/home/user/project", "src/main.go")
	require.Equal(t, "file:///home/user/project/src/main.go", uri)
}

func TestAbsPreventsDoubleScheme(t *testing.T) {
	already := "file:///home/user/project/a.go"
	require.Equal(t, already, ToAbsolute("/home/user/project", already))
}

func TestAbsHandlesAlreadyAbsoluteUnix(t *testing.T) {
	uri := ToAbsolute("/home/user/project", "/src/main.go")
	require.Equal(t, "file:///home/user/project/src/main.go", uri)
}

func TestAbsIdempotency(t *testing.T) {
	first := ToAbsolute("/home/user/project", "src/main.go")
	second := ToAbsolute("/home/user/project", first)
	require.Equal(t, first, second)
}

func TestAbsWindowsNormalization(t *testing.T) {
	uri := ToAbsolute("/C:/proj", `src\main.go`)
	require.Equal(t, "file:///C:/proj/src/main.go", uri)
}

func TestRootFromURIStripsSchemeAndNormalizes(t *testing.T) {
	require.Equal(t, "/home/user/project", RootFromURI("file:///home/user/project/"))
	require.Equal(t, "/C:/Users/dev/project", RootFromURI("file:///C:/Users/dev/project"))
}

func TestIsSafePathRejectsTraversalAndDegenerate(t *testing.T) {
	require.False(t, IsSafePath(""))
	require.False(t, IsSafePath("/"))
	require.False(t, IsSafePath("../../etc/passwd"))
	require.False(t, IsSafePath("a/../../b"))
	require.True(t, IsSafePath("a/b.c..d/e"))
	require.True(t, IsSafePath("src/main.go"))
}

func TestScanSimpleStructureAndIgnores(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.go"), []byte("package b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("secret"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules", "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "node_modules", "pkg", "index.js"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bin"), []byte{0xff, 0xfe, 0x00, 0x01}, 0o644))

	files, err := ScanProjectDirectory(dir)
	require.NoError(t, err)
	require.Equal(t, "package a", files["a.go"])
	require.Equal(t, "package b", files["sub/b.go"])
	require.NotContains(t, files, ".hidden")
	require.NotContains(t, files, "node_modules/pkg/index.js")
	require.NotContains(t, files, "bin")
}

func TestWriteFileCreatesNestedDirsAndRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteFile(dir, "a/b/c.txt", "hello"))
	data, err := os.ReadFile(filepath.Join(dir, "a", "b", "c.txt"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))

	require.Error(t, WriteFile(dir, "../escape.txt", "nope"))
}

func TestWriteFileOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteFile(dir, "f.txt", "one"))
	require.NoError(t, WriteFile(dir, "f.txt", "two"))
	data, err := os.ReadFile(filepath.Join(dir, "f.txt"))
	require.NoError(t, err)
	require.Equal(t, "two", string(data))
}
