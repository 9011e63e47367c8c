package readme

import (
	"context"
	"time"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"readmegen/internal/archive"
	"readmegen/internal/failure"
	"readmegen/internal/gateway/middleware"
	docrepo "readmegen/internal/gateway/repository/document"
	"readmegen/internal/prompt"
	"readmegen/internal/readme"
	"readmegen/internal/reporef"
	"readmegen/internal/scan"
)

// Downloader fetches a repository archive into dst.
type Downloader interface {
	Download(ctx context.Context, ref reporef.Reference, dst string) (int64, error)
}

type Config struct {
	// WorkDir is the parent of per-request workspaces. Empty means the OS temp dir.
	WorkDir string
	// MaxExtractBytes caps the uncompressed archive size. Zero disables the cap.
	MaxExtractBytes int64
}

// Result is a finished README plus what it was built from.
type Result struct {
	ID      string
	Repo    reporef.Reference
	Readme  string
	Summary scan.Summary
}

// Service runs the fetch, scan, generate and assemble pipeline for one
// repository per call. Calls are independent and safe to run concurrently.
type Service struct {
	cfg       Config
	fetcher   Downloader
	generator *readme.Generator
	store     docrepo.Store
	log       logger.FieldLogger
}

func New(cfg Config, fetcher Downloader, generator *readme.Generator, store docrepo.Store, log logger.FieldLogger) *Service {
	if log == nil {
		log = logger.StandardLogger()
	}
	return &Service{
		cfg:       cfg,
		fetcher:   fetcher,
		generator: generator,
		store:     store,
		log:       log,
	}
}

// Generate builds a README for repoURL. Validation failures come back before
// any network or disk work. The per-request workspace is removed on every
// path; a cleanup failure is logged and never replaces the outcome.
func (s *Service) Generate(ctx context.Context, repoURL string) (Result, error) {
	ref, err := reporef.Parse(repoURL)
	if err != nil {
		return Result{}, err
	}

	ws, err := archive.NewWorkspace(s.cfg.WorkDir, middleware.RequestIDFrom(ctx))
	if err != nil {
		return Result{}, err
	}
	log := s.log.WithFields(logger.Fields{"repo": ref.String(), "request_id": ws.ID})
	defer func() {
		if cerr := ws.Cleanup(); cerr != nil {
			log.WithError(cerr).Warn("workspace cleanup failed")
		}
	}()

	started := time.Now()
	Report(ctx, StageFetching)
	if _, err := s.fetcher.Download(ctx, ref, ws.ArchivePath()); err != nil {
		return Result{}, err
	}
	if err := archive.Extract(ws.ArchivePath(), ws.ExtractDir(), s.cfg.MaxExtractBytes); err != nil {
		return Result{}, err
	}
	root, err := archive.ContentRoot(ws.ExtractDir())
	if err != nil {
		return Result{}, err
	}

	Report(ctx, StageScanning)
	summary, err := scan.ScanDir(root)
	if err != nil {
		return Result{}, err
	}
	log.WithFields(logger.Fields{
		"files":     len(summary.FilePaths),
		"manifests": len(summary.DependencyManifests),
		"configs":   len(summary.ConfigFileNames),
	}).Debug("repository scanned")

	Report(ctx, StageGenerating)
	sections := s.generator.Generate(ctx, prompt.Compose(summary))

	Report(ctx, StageAssembling)
	res := Result{
		Repo:    ref,
		Readme:  readme.Assemble(ref.Name, sections),
		Summary: summary,
	}
	res.ID = s.save(ctx, log, ref, res.Readme)

	log.WithField("elapsed", time.Since(started).String()).Info("readme generated")
	return res, nil
}

// save stores the document best-effort under a fresh id and returns that id,
// or "" when it could not be kept.
func (s *Service) save(ctx context.Context, log logger.FieldLogger, ref reporef.Reference, content string) string {
	if s.store == nil {
		return ""
	}
	id := uuid.NewString()
	doc := docrepo.Document{ID: id, Repo: ref.String(), Content: content, CreatedAt: time.Now().UTC()}
	if err := s.store.Put(ctx, doc); err != nil {
		log.WithError(err).Warn("document save failed")
		return ""
	}
	return id
}

// Document returns a previously generated README.
func (s *Service) Document(ctx context.Context, id string) (docrepo.Document, error) {
	if s.store == nil {
		return docrepo.Document{}, docrepo.ErrNotFound
	}
	return s.store.Get(ctx, id)
}

// IsClientError reports whether err should be answered as a bad request.
func IsClientError(err error) bool {
	return failure.Is(err, failure.Validation)
}
