package safeio

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeFSReadsUnderRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "a.txt"), []byte("hello"), 0o644))

	sfs, err := NewSafeFS(dir)
	require.NoError(t, err)

	b, err := sfs.ReadFile("sub/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))

	entries, err := sfs.ReadDir(".")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "sub", entries[0].Name())
	assert.True(t, entries[0].IsDir())

	_, err = fs.ReadFile(sfs, "sub/a.txt")
	require.NoError(t, err)
}

func TestSafeFSRejectsTraversal(t *testing.T) {
	sfs, err := NewSafeFS(t.TempDir())
	require.NoError(t, err)

	_, err = sfs.ReadFile("../etc/passwd")
	require.Error(t, err)
	_, err = sfs.ReadDir("../")
	require.Error(t, err)
}

func TestSafeFSRejectsSymlinkEscape(t *testing.T) {
	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret"), []byte("x"), 0o644))
	root := t.TempDir()
	if err := os.Symlink(filepath.Join(outside, "secret"), filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	sfs, err := NewSafeFS(root)
	require.NoError(t, err)

	_, err = sfs.ReadFile("link")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutsideRoot))
}

func TestJoin(t *testing.T) {
	root := t.TempDir()
	sfs, err := NewSafeFS(root)
	require.NoError(t, err)

	p, err := sfs.Join("repo-abc/src/main.go")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(sfs.Root(), "repo-abc", "src", "main.go"), p)

	p, err = sfs.Join("./")
	require.NoError(t, err)
	assert.Equal(t, sfs.Root(), p)

	for _, bad := range []string{"../evil", "a/../../evil", "/etc/passwd", `..\evil`} {
		_, err := sfs.Join(bad)
		assert.ErrorIs(t, err, ErrOutsideRoot, bad)
	}
}

func TestNewSafeFSRequiresDirectory(t *testing.T) {
	_, err := NewSafeFS("")
	require.Error(t, err)

	f := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(f, nil, 0o644))
	_, err = NewSafeFS(f)
	require.Error(t, err)
}
