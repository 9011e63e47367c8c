package archive

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"readmegen/internal/failure"
)

// Workspace is a per-request scratch directory holding the downloaded archive
// and its extracted tree. Concurrent requests never share one.
type Workspace struct {
	ID  string
	Dir string
}

// NewWorkspace creates a unique directory under base (the OS temp dir when
// base is empty). id tags the directory name, usually the request id; an
// empty id gets a fresh uuid.
func NewWorkspace(base, id string) (*Workspace, error) {
	id = pathSafe(id)
	if id == "" {
		id = uuid.NewString()
	}
	if base != "" {
		if err := os.MkdirAll(base, 0o755); err != nil {
			return nil, failure.New(failure.IO, "create workspace", err)
		}
	}
	dir, err := os.MkdirTemp(base, "readme-"+id+"-")
	if err != nil {
		return nil, failure.New(failure.IO, "create workspace", err)
	}
	return &Workspace{ID: id, Dir: dir}, nil
}

func (w *Workspace) ArchivePath() string { return filepath.Join(w.Dir, "archive.zip") }
func (w *Workspace) ExtractDir() string  { return filepath.Join(w.Dir, "extracted") }

// Cleanup removes everything the workspace holds. Callers log the error; it
// must never replace the request outcome.
func (w *Workspace) Cleanup() error {
	if w == nil || w.Dir == "" {
		return nil
	}
	if err := os.RemoveAll(w.Dir); err != nil {
		return failure.New(failure.Cleanup, "remove workspace "+w.Dir, err)
	}
	return nil
}

// pathSafe keeps id usable as a single path element.
func pathSafe(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, strings.TrimSpace(id))
}
