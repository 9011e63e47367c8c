package app

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"readmegen/internal/archive"
	"readmegen/internal/gateway/config"
	docrepo "readmegen/internal/gateway/repository/document"
	readmesvc "readmegen/internal/gateway/service/readme"
	"readmegen/internal/llm"
	"readmegen/internal/readme"
)

// NewLLMClient builds the Gemini client with the configured throttle,
// per-call timeout and logging.
func NewLLMClient(ctx context.Context, cfg config.LLMConfig, log logger.FieldLogger) (llm.LLMClient, error) {
	gemini, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
		APIKey: cfg.APIKey,
		Model:  cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gemini client: %w", err)
	}
	return llm.Wrap(gemini,
		llm.WithLogging(log),
		llm.RateLimit(cfg.RPS, cfg.Burst),
		llm.WithTimeout(cfg.Timeout),
	), nil
}

// NewService wires the fetch, scan, generate and assemble pipeline. store may
// be nil, in which case documents are not kept.
func NewService(cfg *config.Config, client llm.LLMClient, store docrepo.Store, log logger.FieldLogger) *readmesvc.Service {
	fetcher := archive.NewFetcher(archive.Config{
		APIBase:  cfg.Archive.APIBase,
		Ref:      cfg.Archive.Ref,
		Token:    cfg.Archive.Token,
		Timeout:  cfg.Archive.Timeout,
		MaxBytes: cfg.Archive.MaxBytes,
	})
	generator := readme.NewGenerator(client, readme.WithLogger(log))
	return readmesvc.New(readmesvc.Config{
		WorkDir: cfg.WorkDir,
		// Extracted trees may be larger than the compressed payload.
		MaxExtractBytes: cfg.Archive.MaxBytes * 4,
	}, fetcher, generator, store, log)
}
