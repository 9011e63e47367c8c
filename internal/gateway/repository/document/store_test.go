package document

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorePutGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, Document{ID: " doc-1 ", Repo: "octo/demo", Content: "# demo"}))
	got, err := s.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", got.ID)
	assert.Equal(t, "octo/demo", got.Repo)
	assert.Equal(t, "# demo", got.Content)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreRequiresID(t *testing.T) {
	s := NewMemoryStore()
	assert.Error(t, s.Put(context.Background(), Document{Content: "x"}))
	_, err := s.Get(context.Background(), "  ")
	assert.Error(t, err)
}

func TestMemoryStoreConcurrentPuts(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_ = s.Put(ctx, Document{ID: id, Content: "content-" + id})
		}(id)
	}
	wg.Wait()

	for _, id := range ids {
		got, err := s.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "content-"+id, got.Content)
	}
}

func TestNewS3StoreValidatesConfig(t *testing.T) {
	_, err := NewS3Store(S3Config{})
	assert.ErrorContains(t, err, "endpoint")

	_, err = NewS3Store(S3Config{Endpoint: "localhost:9000"})
	assert.ErrorContains(t, err, "access key")

	_, err = NewS3Store(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	assert.ErrorContains(t, err, "bucket")

	s, err := NewS3Store(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "readmes"})
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", s.region)
	assert.Equal(t, "readmes/abc.json", objectKey(" abc "))
}

func TestPostgresStoreNilDB(t *testing.T) {
	s := NewPostgresStore(nil)
	assert.Error(t, s.Put(context.Background(), Document{ID: "x"}))
	_, err := s.Get(context.Background(), "x")
	assert.Error(t, err)
}

func TestSetupGuardRetriesUntilSuccess(t *testing.T) {
	var g setupGuard
	calls := 0
	boom := errors.New("boom")

	assert.ErrorIs(t, g.Do(func() error { calls++; return boom }), boom)
	assert.ErrorIs(t, g.Do(func() error { calls++; return boom }), boom)
	require.NoError(t, g.Do(func() error { calls++; return nil }))
	require.NoError(t, g.Do(func() error { calls++; return boom }))
	assert.Equal(t, 3, calls)
}

func TestS3StoreCancelledSetupIsRetried(t *testing.T) {
	var heads atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			heads.Add(1)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s, err := NewS3Store(S3Config{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		AccessKey: "a",
		SecretKey: "b",
		Bucket:    "readmes",
	})
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, s.ensureBucket(cancelled))

	require.NoError(t, s.ensureBucket(context.Background()))
	seen := heads.Load()
	assert.Positive(t, seen)

	require.NoError(t, s.ensureBucket(context.Background()))
	assert.Equal(t, seen, heads.Load())
}

func TestPostgresStoreCancelledSetupIsRetried(t *testing.T) {
	db, err := OpenPostgres("postgres://u:p@127.0.0.1:1/db?connect_timeout=1&sslmode=disable")
	require.NoError(t, err)
	defer db.Close()
	s := NewPostgresStore(db)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	err = s.Put(cancelled, Document{ID: "x", Content: "c"})
	require.ErrorIs(t, err, context.Canceled)

	err = s.Put(context.Background(), Document{ID: "x", Content: "c"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, context.Canceled)
}
