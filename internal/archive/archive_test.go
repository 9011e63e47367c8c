package archive

import (
	"bytes"
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readmegen/internal/failure"
	"readmegen/internal/reporef"
)

type zipEntry struct {
	name string
	body string
	mode fs.FileMode
}

func buildZip(t *testing.T, entries ...zipEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		hdr := &zip.FileHeader{Name: e.name, Method: zip.Deflate}
		if e.mode != 0 {
			hdr.SetMode(e.mode)
		}
		w, err := zw.CreateHeader(hdr)
		require.NoError(t, err)
		if !strings.HasSuffix(e.name, "/") {
			_, err = w.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func writeZip(t *testing.T, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "archive.zip")
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func TestFetcherDownload(t *testing.T) {
	payload := buildZip(t, zipEntry{name: "README.md", body: "# hi"})
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	f := NewFetcher(Config{APIBase: srv.URL, Token: "secret"})
	dst := filepath.Join(t.TempDir(), "a.zip")
	n, err := f.Download(context.Background(), reporef.Reference{Owner: "octo", Name: "demo"}, dst)
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), n)
	assert.Equal(t, "/repos/octo/demo/zipball/main", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)

	onDisk, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, payload, onDisk)
}

func TestFetcherNon2xxIsFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(Config{APIBase: srv.URL})
	_, err := f.Download(context.Background(), reporef.Reference{Owner: "o", Name: "missing"}, filepath.Join(t.TempDir(), "a.zip"))
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.Fetch))
	assert.Contains(t, err.Error(), "404")
}

func TestFetcherSizeCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte("x"), 64))
	}))
	defer srv.Close()

	f := NewFetcher(Config{APIBase: srv.URL, MaxBytes: 16})
	_, err := f.Download(context.Background(), reporef.Reference{Owner: "o", Name: "big"}, filepath.Join(t.TempDir(), "a.zip"))
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.Fetch))
}

func TestFetcherTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	f := NewFetcher(Config{APIBase: base})
	_, err := f.Download(context.Background(), reporef.Reference{Owner: "o", Name: "r"}, filepath.Join(t.TempDir(), "a.zip"))
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.Fetch))
}

func TestExtract(t *testing.T) {
	p := writeZip(t, buildZip(t,
		zipEntry{name: "octo-demo-abc/"},
		zipEntry{name: "octo-demo-abc/package.json", body: `{"name":"demo"}`},
		zipEntry{name: "octo-demo-abc/src/main.js", body: "console.log(1)"},
	))
	dest := filepath.Join(t.TempDir(), "extracted")

	require.NoError(t, Extract(p, dest, 0))

	got, err := os.ReadFile(filepath.Join(dest, "octo-demo-abc", "src", "main.js"))
	require.NoError(t, err)
	assert.Equal(t, "console.log(1)", string(got))

	root, err := ContentRoot(dest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "octo-demo-abc"), root)
}

func TestExtractRejectsTraversal(t *testing.T) {
	base := t.TempDir()
	p := writeZip(t, buildZip(t, zipEntry{name: "../evil.txt", body: "pwned"}))
	dest := filepath.Join(base, "extracted")

	err := Extract(p, dest, 0)
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.IO))
	_, statErr := os.Stat(filepath.Join(base, "evil.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExtractSkipsSymlinks(t *testing.T) {
	p := writeZip(t, buildZip(t,
		zipEntry{name: "link", body: "/etc/passwd", mode: fs.ModeSymlink | 0o777},
		zipEntry{name: "README.md", body: "hi"},
	))
	dest := filepath.Join(t.TempDir(), "extracted")

	require.NoError(t, Extract(p, dest, 0))
	_, err := os.Lstat(filepath.Join(dest, "link"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dest, "README.md"))
	assert.NoError(t, err)
}

func TestExtractUncompressedCap(t *testing.T) {
	p := writeZip(t, buildZip(t, zipEntry{name: "big.txt", body: strings.Repeat("a", 1024)}))
	err := Extract(p, filepath.Join(t.TempDir(), "x"), 100)
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.IO))
}

func TestExtractCorruptArchive(t *testing.T) {
	p := writeZip(t, []byte("not a zip"))
	err := Extract(p, filepath.Join(t.TempDir(), "x"), 0)
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.IO))
}

func TestContentRootFlatTree(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), nil, 0o644))
	root, err := ContentRoot(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, root)
}

func TestWorkspaceUniqueAndCleanup(t *testing.T) {
	base := t.TempDir()
	a, err := NewWorkspace(base, "")
	require.NoError(t, err)
	b, err := NewWorkspace(base, "")
	require.NoError(t, err)
	assert.NotEqual(t, a.Dir, b.Dir)
	assert.NotEqual(t, a.ArchivePath(), b.ArchivePath())
	assert.Equal(t, filepath.Join(a.Dir, "extracted"), a.ExtractDir())

	require.NoError(t, os.WriteFile(a.ArchivePath(), []byte("x"), 0o644))
	require.NoError(t, a.Cleanup())
	_, err = os.Stat(a.Dir)
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(b.Dir)
	assert.NoError(t, err)
	require.NoError(t, b.Cleanup())
}

func TestWorkspaceTaggedWithRequestID(t *testing.T) {
	base := t.TempDir()
	ws, err := NewWorkspace(base, "req-123")
	require.NoError(t, err)
	defer ws.Cleanup()
	assert.Equal(t, "req-123", ws.ID)
	assert.True(t, strings.HasPrefix(filepath.Base(ws.Dir), "readme-req-123-"))

	odd, err := NewWorkspace(base, "../x/y")
	require.NoError(t, err)
	defer odd.Cleanup()
	assert.Equal(t, "___x_y", odd.ID)
	assert.Equal(t, base, filepath.Dir(odd.Dir))
}
