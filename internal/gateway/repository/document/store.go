package document

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// Document is a generated README kept for later download.
type Document struct {
	ID        string    `json:"id"`
	Repo      string    `json:"repo"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists generated documents by id.
type Store interface {
	Put(ctx context.Context, doc Document) error
	Get(ctx context.Context, id string) (Document, error)
}

var ErrNotFound = errors.New("document not found")

var errIDRequired = errors.New("id is required")

func normalizeID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errIDRequired
	}
	return id, nil
}

// setupGuard runs one-time backend setup until it succeeds. A failed attempt,
// including one cut short by its caller's context, is retried by the next call.
type setupGuard struct {
	mu   sync.Mutex
	done bool
}

func (g *setupGuard) Do(fn func() error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.done {
		return nil
	}
	if err := fn(); err != nil {
		return err
	}
	g.done = true
	return nil
}
