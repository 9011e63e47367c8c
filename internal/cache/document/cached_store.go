package document

import (
	"context"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	docrepo "readmegen/internal/gateway/repository/document"
)

type Store = docrepo.Store

const DefaultCacheSize = 256

type MetricsSnapshot struct {
	Hits           uint64
	Misses         uint64
	OriginReads    uint64
	OriginWrites   uint64
	OriginReadErr  uint64
	OriginWriteErr uint64
}

type Metrics struct {
	hits           atomic.Uint64
	misses         atomic.Uint64
	originReads    atomic.Uint64
	originWrites   atomic.Uint64
	originReadErr  atomic.Uint64
	originWriteErr atomic.Uint64
}

func (m *Metrics) snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		Hits:           m.hits.Load(),
		Misses:         m.misses.Load(),
		OriginReads:    m.originReads.Load(),
		OriginWrites:   m.originWrites.Load(),
		OriginReadErr:  m.originReadErr.Load(),
		OriginWriteErr: m.originWriteErr.Load(),
	}
}

// CachedStore fronts an origin Store with a bounded LRU of recent documents.
// Writes go through to the origin first and are cached only on success.
type CachedStore struct {
	origin  Store
	cache   *lru.Cache[string, docrepo.Document]
	metrics Metrics
}

func NewCachedStore(origin Store, size int) (*CachedStore, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, docrepo.Document](size)
	if err != nil {
		return nil, err
	}
	return &CachedStore{origin: origin, cache: cache}, nil
}

func (s *CachedStore) Put(ctx context.Context, doc docrepo.Document) error {
	s.metrics.originWrites.Add(1)
	if err := s.origin.Put(ctx, doc); err != nil {
		s.metrics.originWriteErr.Add(1)
		return err
	}
	doc.ID = strings.TrimSpace(doc.ID)
	s.cache.Add(doc.ID, doc)
	return nil
}

func (s *CachedStore) Get(ctx context.Context, id string) (docrepo.Document, error) {
	id = strings.TrimSpace(id)
	if doc, ok := s.cache.Get(id); ok {
		s.metrics.hits.Add(1)
		return doc, nil
	}
	s.metrics.misses.Add(1)
	s.metrics.originReads.Add(1)

	doc, err := s.origin.Get(ctx, id)
	if err != nil {
		s.metrics.originReadErr.Add(1)
		return docrepo.Document{}, err
	}
	s.cache.Add(id, doc)
	return doc, nil
}

func (s *CachedStore) Metrics() MetricsSnapshot {
	if s == nil {
		return MetricsSnapshot{}
	}
	return s.metrics.snapshot()
}
