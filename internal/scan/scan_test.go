package scan

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readmegen/internal/failure"
)

func file(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s)} }

func TestScanClassifiesManifestsAndConfigs(t *testing.T) {
	fsys := fstest.MapFS{
		"a/package.json": file(`{"name":"a"}`),
		"a/config.yaml":  file("port: 1"),
		"a/src/main.js":  file("console.log(1)"),
	}

	sum, err := Scan(fsys, ".")
	require.NoError(t, err)

	assert.Equal(t, []string{"a/config.yaml", "a/package.json", "a/src/main.js"}, sum.FilePaths)
	assert.Equal(t, map[string]string{"package.json": `{"name":"a"}`}, sum.DependencyManifests)
	assert.Equal(t, []string{"config.yaml"}, sum.ConfigFileNames)
	assert.Equal(t, []string{"package.json"}, sum.ManifestNames())
}

func TestScanSingleReadme(t *testing.T) {
	sum, err := Scan(fstest.MapFS{"README.md": file("# hi")}, ".")
	require.NoError(t, err)

	assert.Equal(t, []string{"README.md"}, sum.FilePaths)
	assert.Empty(t, sum.DependencyManifests)
	assert.Empty(t, sum.ConfigFileNames)
}

func TestScanEmptyTree(t *testing.T) {
	sum, err := Scan(fstest.MapFS{}, ".")
	require.NoError(t, err)
	assert.Empty(t, sum.FilePaths)
	assert.NotNil(t, sum.FilePaths)
	assert.Empty(t, sum.DependencyManifests)
	assert.Empty(t, sum.ConfigFileNames)
}

func TestScanOnlyDirectories(t *testing.T) {
	fsys := fstest.MapFS{
		"x/y":   &fstest.MapFile{Mode: fs.ModeDir | 0o755},
		"x/z/w": &fstest.MapFile{Mode: fs.ModeDir | 0o755},
	}
	sum, err := Scan(fsys, ".")
	require.NoError(t, err)
	assert.Empty(t, sum.FilePaths)
}

func TestScanCaseInsensitiveRules(t *testing.T) {
	fsys := fstest.MapFS{
		"Package.JSON":                file("{}"),
		"REQUIREMENTS.TXT":            file("flask"),
		"package.json.bak":            file("{}"),
		"CONFIG.yml":                  file(""),
		".env.local":                  file(""),
		"makefile.am":                 file(""),
		"docker-compose.override.yml": file(""),
		"myconfig.yml":                file(""),
		"svc/pom.xml":                 file("<project/>"),
		"svc/build.gradle":            file("plugins {}"),
	}
	sum, err := Scan(fsys, ".")
	require.NoError(t, err)

	assert.Len(t, sum.FilePaths, len(fsys))
	assert.ElementsMatch(t, []string{"Package.JSON", "REQUIREMENTS.TXT", "pom.xml", "build.gradle"}, sum.ManifestNames())
	assert.NotContains(t, sum.DependencyManifests, "package.json.bak")
	assert.ElementsMatch(t, []string{"CONFIG.yml", ".env.local", "makefile.am", "docker-compose.override.yml"}, sum.ConfigFileNames)
}

func TestScanManifestLastWriteWins(t *testing.T) {
	fsys := fstest.MapFS{
		"a/package.json": file("first"),
		"b/package.json": file("second"),
	}
	sum, err := Scan(fsys, ".")
	require.NoError(t, err)
	assert.Equal(t, "second", sum.DependencyManifests["package.json"])
	assert.Equal(t, []string{"package.json"}, sum.ManifestNames())
	assert.Len(t, sum.FilePaths, 2)
}

func TestScanIdempotent(t *testing.T) {
	fsys := fstest.MapFS{
		"z.txt":                file("z"),
		"a/requirements.txt":   file("requests"),
		"a/b/c/Makefile":       file("all:"),
		"m/package.json":       file("{}"),
		"m/docker-compose.yml": file("services: {}"),
	}
	first, err := Scan(fsys, ".")
	require.NoError(t, err)
	second, err := Scan(fsys, ".")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

type failingFS struct {
	fstest.MapFS
	failDir string
}

func (f failingFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if name == f.failDir {
		return nil, fs.ErrPermission
	}
	return f.MapFS.ReadDir(name)
}

func TestScanUnreadableSubdirAborts(t *testing.T) {
	fsys := failingFS{
		MapFS: fstest.MapFS{
			"ok.txt":       file("ok"),
			"locked/a.txt": file("a"),
			"zz/after.txt": file("after"),
		},
		failDir: "locked",
	}
	sum, err := Scan(fsys, ".")
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.IO))
	assert.True(t, errors.Is(err, fs.ErrPermission))
	assert.Empty(t, sum.FilePaths)
}

func TestScanMissingRoot(t *testing.T) {
	_, err := Scan(fstest.MapFS{}, "nope")
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.IO))
}

func TestScanCustomRules(t *testing.T) {
	s := New(Rule{Pattern: "go.mod", Mode: MatchExact, Category: CategoryManifest})
	sum, err := s.Scan(fstest.MapFS{"go.mod": file("module x"), "package.json": file("{}")}, ".")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"go.mod": "module x"}, sum.DependencyManifests)
}

func TestScanDirOnDisk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "svc"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "svc", "requirements.txt"), []byte("flask==3"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.example"), []byte("X=1"), 0o644))

	sum, err := ScanDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{".env.example", "svc/requirements.txt"}, sum.FilePaths)
	assert.Equal(t, "flask==3", sum.DependencyManifests["requirements.txt"])
	assert.Equal(t, []string{".env.example"}, sum.ConfigFileNames)

	_, err = ScanDir(filepath.Join(dir, "missing"))
	assert.True(t, failure.Is(err, failure.IO))
}

func TestRuleMatch(t *testing.T) {
	assert.True(t, Rule{Pattern: "config", Mode: MatchPrefix}.Match("Config.json"))
	assert.False(t, Rule{Pattern: "config", Mode: MatchPrefix}.Match("conf"))
	assert.True(t, Rule{Pattern: "pom.xml", Mode: MatchExact}.Match("POM.XML"))
	assert.False(t, Rule{Pattern: "pom.xml", Mode: MatchExact}.Match("pom.xml.orig"))
	assert.Equal(t, "manifest", CategoryManifest.String())
}
