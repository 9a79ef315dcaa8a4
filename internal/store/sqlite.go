// Package store persists project lists in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/voxnote/voxnote/internal/project"
	_ "modernc.org/sqlite"
)

// SQLite mirrors keyed project lists into a single database file.
type SQLite struct {
	db  *sql.DB
	log *slog.Logger
}

// Open creates the database file (and parent directory) if needed and
// prepares the schema.
func Open(ctx context.Context, path string, log *slog.Logger) (*SQLite, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(12)}))
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &SQLite{db: db, log: log}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) initSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS projects (
    list_key TEXT NOT NULL,
    id TEXT NOT NULL,
    position INTEGER NOT NULL,
    title TEXT NOT NULL,
    details TEXT NOT NULL,
    image BLOB,
    PRIMARY KEY(list_key, id)
);
CREATE INDEX IF NOT EXISTS idx_projects_key_position ON projects(list_key, position);
`
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load returns the project list stored under key, in saved order.
func (s *SQLite) Load(ctx context.Context, key string) ([]project.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, details, image FROM projects WHERE list_key = ? ORDER BY position ASC`, key)
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		var p project.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Details, &p.Image); err != nil {
			return nil, fmt.Errorf("scan project row: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Save replaces the list stored under key in one transaction.
func (s *SQLite) Save(ctx context.Context, key string, projects []project.Project) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE list_key = ?`, key); err != nil {
		return fmt.Errorf("clear project list: %w", err)
	}
	for i, p := range projects {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO projects(list_key, id, position, title, details, image) VALUES(?, ?, ?, ?, ?, ?)`,
			key, p.ID, i, p.Title, p.Details, p.Image)
		if err != nil {
			return fmt.Errorf("insert project %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}
