package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"readmegen/internal/failure"
	"readmegen/internal/reporef"
)

const (
	DefaultTimeout  = 60 * time.Second
	DefaultMaxBytes = 100 << 20
)

// Config controls where archives come from and how much is accepted.
type Config struct {
	APIBase  string
	Ref      string
	Token    string
	Timeout  time.Duration
	MaxBytes int64
}

// Fetcher downloads repository snapshots as zip archives.
type Fetcher struct {
	cfg    Config
	client *http.Client
}

func NewFetcher(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	return &Fetcher{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// URL returns the archive endpoint for ref under the configured API base.
func (f *Fetcher) URL(ref reporef.Reference) string {
	return ref.ArchiveURL(f.cfg.APIBase, f.cfg.Ref)
}

// Download streams the archive for ref into dst and returns the byte count.
// Transport errors, non-2xx statuses and oversized payloads are fetch
// failures; local write errors are IO failures.
func (f *Fetcher) Download(ctx context.Context, ref reporef.Reference, dst string) (int64, error) {
	const op = "download archive"
	u := f.URL(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, failure.New(failure.Fetch, op, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "readmegen")
	if tok := strings.TrimSpace(f.cfg.Token); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, failure.New(failure.Fetch, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return 0, failure.Newf(failure.Fetch, op, "Failed to download repository: %s", resp.Status)
	}

	out, err := os.Create(dst)
	if err != nil {
		return 0, failure.New(failure.IO, op, err)
	}
	n, err := io.Copy(out, io.LimitReader(resp.Body, f.cfg.MaxBytes+1))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, failure.New(failure.Fetch, op, err)
	}
	if n > f.cfg.MaxBytes {
		return n, failure.New(failure.Fetch, op, fmt.Errorf("archive exceeds %d bytes", f.cfg.MaxBytes))
	}
	return n, nil
}
