package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/lexora/internal/models"
)

// SQLiteStore implements Store using SQLite. The structure variant is stored
// as a JSON column and re-parsed (with validation) on read.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		text TEXT NOT NULL,
		context TEXT NOT NULL,
		structure TEXT NOT NULL,
		position INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_documents_position ON documents(position);
	`
	_, err := db.Exec(schema)
	return err
}

// GetAllDocuments returns all documents ordered by their insertion position.
func (s *SQLiteStore) GetAllDocuments(ctx context.Context) ([]*models.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, type, text, context, structure FROM documents ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

// GetDocument returns a single document by id.
func (s *SQLiteStore) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, type, text, context, structure FROM documents WHERE id = ?", id)
	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(r rowScanner) (*models.Document, error) {
	var doc models.Document
	var rawStructure string
	if err := r.Scan(&doc.ID, &doc.Type, &doc.Text, &doc.Context, &rawStructure); err != nil {
		return nil, err
	}
	structure, err := models.ParseStructure(doc.Type, []byte(rawStructure))
	if err != nil {
		return nil, fmt.Errorf("document %q: %w", doc.ID, err)
	}
	doc.Structure = structure
	return &doc, nil
}

// ReplaceAll replaces the stored document set inside a single transaction,
// preserving the order of docs as the catalog order.
func (s *SQLiteStore) ReplaceAll(ctx context.Context, docs []*models.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return fmt.Errorf("clear documents: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO documents (id, type, text, context, structure, position) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, doc := range docs {
		structure, err := json.Marshal(doc.Structure)
		if err != nil {
			return fmt.Errorf("marshal structure for %q: %w", doc.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, doc.ID, string(doc.Type), doc.Text, doc.Context, string(structure), i); err != nil {
			return fmt.Errorf("insert document %q: %w", doc.ID, err)
		}
	}
	return tx.Commit()
}

// CountDocuments returns the number of stored documents.
func (s *SQLiteStore) CountDocuments(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&count)
	return count, err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
