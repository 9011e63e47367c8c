package document

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresStore struct {
	db     *sql.DB
	schema setupGuard
}

// OpenPostgres opens dsn with the pgx driver.
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return db, nil
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("db is nil")
	}
	return s.schema.Do(func() error {
		_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS readme_documents (
    id TEXT PRIMARY KEY,
    repo TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
`)
		return err
	})
}

func (s *PostgresStore) Put(ctx context.Context, doc Document) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	id, err := normalizeID(doc.ID)
	if err != nil {
		return err
	}
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	created := doc.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO readme_documents (id, repo, content, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id)
DO UPDATE SET repo=EXCLUDED.repo, content=EXCLUDED.content
`, id, doc.Repo, doc.Content, created)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Document, error) {
	if s == nil {
		return Document{}, fmt.Errorf("store is nil")
	}
	id, err := normalizeID(id)
	if err != nil {
		return Document{}, err
	}
	if err := s.ensureSchema(ctx); err != nil {
		return Document{}, err
	}
	doc := Document{ID: id}
	err = s.db.QueryRowContext(ctx, `SELECT repo, content, created_at FROM readme_documents WHERE id=$1`, id).
		Scan(&doc.Repo, &doc.Content, &doc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, err
	}
	return doc, nil
}
