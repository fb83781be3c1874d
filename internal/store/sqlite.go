package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
	"go.uber.org/zap"

	"scinput/internal/core"
)

const createTableQuery = `
	CREATE TABLE IF NOT EXISTS soundcloud_fields (
		doc_id TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
`

// SQLiteStore persists document values as JSON in a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string, logger *zap.Logger) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.ExecContext(ctx, createTableQuery); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info("Document store opened", zap.String("path", path))
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, docID string) (core.SoundcloudData, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM soundcloud_fields WHERE doc_id = ?", docID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return core.SoundcloudData{}, ErrNotFound
	}
	if err != nil {
		return core.SoundcloudData{}, fmt.Errorf("failed to read document %s: %w", docID, err)
	}

	var data core.SoundcloudData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return core.SoundcloudData{}, fmt.Errorf("failed to decode document %s: %w", docID, err)
	}
	return data, nil
}

func (s *SQLiteStore) Put(ctx context.Context, docID string, data core.SoundcloudData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", docID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO soundcloud_fields (doc_id, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(doc_id) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		docID, string(raw))
	if err != nil {
		return fmt.Errorf("failed to write document %s: %w", docID, err)
	}

	s.logger.Debug("Document value stored",
		zap.String("doc_id", docID),
		zap.Int("tracks", len(data.Tracks)))
	return nil
}

// Delete removes the value. Deleting a missing value is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, docID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM soundcloud_fields WHERE doc_id = ?", docID); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", docID, err)
	}
	return nil
}

// Ping reports whether the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
