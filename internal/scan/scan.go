package scan

import (
	"io/fs"
	"path"

	"readmegen/internal/failure"
	"readmegen/internal/safeio"
)

// FS is the filesystem capability the classifier needs: list a directory and
// read a file, both addressed by slash-separated names. *safeio.SafeFS and
// fstest.MapFS satisfy it.
type FS interface {
	ReadDir(name string) ([]fs.DirEntry, error)
	ReadFile(name string) ([]byte, error)
}

// Summary is the structural record produced by one traversal.
type Summary struct {
	// Every regular file, in traversal order.
	FilePaths []string `json:"filePaths" yaml:"filePaths"`
	// Manifest base name to full text content. Last write wins.
	DependencyManifests map[string]string `json:"dependencyManifests" yaml:"dependencyManifests"`
	// Base names of configuration files, in traversal order.
	ConfigFileNames []string `json:"configFileNames" yaml:"configFileNames"`

	manifestOrder []string
}

func newSummary() Summary {
	return Summary{
		FilePaths:           []string{},
		DependencyManifests: map[string]string{},
		ConfigFileNames:     []string{},
	}
}

// ManifestNames returns the manifest keys in first-seen order.
func (s Summary) ManifestNames() []string {
	out := make([]string, 0, len(s.manifestOrder))
	for _, name := range s.manifestOrder {
		if _, ok := s.DependencyManifests[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

func (s *Summary) putManifest(name, content string) {
	if _, ok := s.DependencyManifests[name]; !ok {
		s.manifestOrder = append(s.manifestOrder, name)
	}
	s.DependencyManifests[name] = content
}

// Scanner walks a tree and classifies files with its rule table.
type Scanner struct {
	rules []Rule
}

// New returns a Scanner using rules, or DefaultRules when none are given.
func New(rules ...Rule) *Scanner {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Scanner{rules: rules}
}

// Scan classifies the tree under root using DefaultRules.
func Scan(fsys FS, root string) (Summary, error) {
	return New().Scan(fsys, root)
}

// ScanDir scans a directory on disk through a root-locked SafeFS.
func ScanDir(dir string) (Summary, error) {
	sfs, err := safeio.NewSafeFS(dir)
	if err != nil {
		return Summary{}, failure.New(failure.IO, "open scan root", err)
	}
	return Scan(sfs, ".")
}

// Scan walks root depth-first. Any unreadable directory or manifest aborts
// the whole scan with an IO failure; there are no partial results.
func (s *Scanner) Scan(fsys FS, root string) (Summary, error) {
	if root == "" {
		root = "."
	}
	sum := newSummary()
	if err := s.walk(fsys, root, &sum); err != nil {
		return Summary{}, err
	}
	return sum, nil
}

func (s *Scanner) walk(fsys FS, dir string, sum *Summary) error {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return failure.New(failure.IO, "read dir "+dir, err)
	}
	for _, e := range entries {
		p := path.Join(dir, e.Name())
		if e.IsDir() {
			if err := s.walk(fsys, p, sum); err != nil {
				return err
			}
			continue
		}
		if !e.Type().IsRegular() {
			continue
		}
		sum.FilePaths = append(sum.FilePaths, p)

		for _, c := range classify(s.rules, e.Name()) {
			switch c {
			case CategoryManifest:
				b, err := fsys.ReadFile(p)
				if err != nil {
					return failure.New(failure.IO, "read manifest "+p, err)
				}
				sum.putManifest(e.Name(), string(b))
			case CategoryConfig:
				sum.ConfigFileNames = append(sum.ConfigFileNames, e.Name())
			}
		}
	}
	return nil
}
