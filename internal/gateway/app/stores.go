package app

import (
	"database/sql"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	doccache "readmegen/internal/cache/document"
	"readmegen/internal/gateway/config"
	docrepo "readmegen/internal/gateway/repository/document"
)

type documentStores struct {
	store docrepo.Store
	cache *doccache.CachedStore
	db    *sql.DB
}

// logMetrics reports the document cache counters accumulated since startup.
func (s *documentStores) logMetrics(log logger.FieldLogger) {
	if s == nil || s.cache == nil {
		return
	}
	m := s.cache.Metrics()
	log.WithFields(logger.Fields{
		"hits":             m.Hits,
		"misses":           m.Misses,
		"origin_reads":     m.OriginReads,
		"origin_writes":    m.OriginWrites,
		"origin_read_err":  m.OriginReadErr,
		"origin_write_err": m.OriginWriteErr,
	}).Info("document cache metrics")
}

func (s *documentStores) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// initStores picks the document origin (S3 over Postgres over memory) and
// fronts it with the LRU cache.
func initStores(cfg config.DocumentConfig, log logger.FieldLogger) (*documentStores, error) {
	out := &documentStores{}
	var fallback docrepo.Store = docrepo.NewMemoryStore()
	fallbackLabel := "in-memory"

	if dsn := strings.TrimSpace(cfg.DatabaseURL); dsn != "" {
		db, err := docrepo.OpenPostgres(dsn)
		if err != nil {
			return nil, err
		}
		out.db = db
		fallback = docrepo.NewPostgresStore(db)
		fallbackLabel = "postgres"
	}

	origin, err := chooseDocumentStore(cfg, fallback, fallbackLabel, log)
	if err != nil {
		_ = out.Close()
		return nil, err
	}
	cached, err := doccache.NewCachedStore(origin, cfg.CacheSize)
	if err != nil {
		_ = out.Close()
		return nil, fmt.Errorf("failed to initialize document cache: %w", err)
	}
	out.store = cached
	out.cache = cached
	return out, nil
}

func chooseDocumentStore(cfg config.DocumentConfig, fallback docrepo.Store, fallbackLabel string, log logger.FieldLogger) (docrepo.Store, error) {
	if !cfg.S3.CanUseS3() {
		if cfg.S3.Endpoint != "" {
			log.Warnf("document store: using %s fallback (s3 config incomplete)", fallbackLabel)
		} else {
			log.Infof("document store: %s", fallbackLabel)
		}
		return fallback, nil
	}
	s3Store, err := docrepo.NewS3Store(docrepo.S3Config{
		Endpoint:  cfg.S3.Endpoint,
		Region:    cfg.S3.Region,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Bucket:    cfg.S3.Bucket,
		UseSSL:    cfg.S3.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize document s3 store: %w", err)
	}
	log.Infof("document store: s3 bucket=%s endpoint=%s", cfg.S3.Bucket, cfg.S3.Endpoint)
	return s3Store, nil
}
