package archive

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"

	"readmegen/internal/failure"
	"readmegen/internal/safeio"
)

// Extract unpacks the zip at archivePath into dest. Entries that would land
// outside dest are rejected; symlink entries are skipped. maxBytes caps the
// total uncompressed size (0 disables the cap).
func Extract(archivePath, dest string, maxBytes int64) error {
	const op = "extract archive"
	rc, err := zip.OpenReader(archivePath)
	if err != nil {
		return failure.New(failure.IO, op, err)
	}
	defer rc.Close()

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return failure.New(failure.IO, op, err)
	}
	root, err := safeio.NewSafeFS(dest)
	if err != nil {
		return failure.New(failure.IO, op, err)
	}

	var written int64
	for _, f := range rc.File {
		if f.Mode()&fs.ModeSymlink != 0 {
			continue
		}
		target, err := root.Join(f.Name)
		if err != nil {
			return failure.New(failure.IO, op, err)
		}
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return failure.New(failure.IO, op, err)
			}
			continue
		}
		if !f.Mode().IsRegular() {
			continue
		}
		n, err := extractFile(f, target, remaining(maxBytes, written))
		written += n
		if err != nil {
			return failure.New(failure.IO, op+" "+f.Name, err)
		}
	}
	return nil
}

func remaining(maxBytes, written int64) int64 {
	if maxBytes <= 0 {
		return -1
	}
	return maxBytes - written
}

func extractFile(f *zip.File, target string, limit int64) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, err
	}
	src, err := f.Open()
	if err != nil {
		return 0, err
	}
	defer src.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}

	var r io.Reader = src
	if limit >= 0 {
		r = io.LimitReader(src, limit+1)
	}
	n, err := io.Copy(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, err
	}
	if limit >= 0 && n > limit {
		return n, fmt.Errorf("uncompressed archive exceeds size limit")
	}
	return n, nil
}

// ContentRoot returns the directory to scan inside an extracted tree. Hosted
// archives wrap the repository in a single top-level folder; when dir holds
// exactly one directory and nothing else, that folder is returned.
func ContentRoot(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", failure.New(failure.IO, "read extracted tree", err)
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(dir, entries[0].Name()), nil
	}
	return dir, nil
}
