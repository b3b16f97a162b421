// Package store defines the document store collaborator and its SQLite implementation.
package store

import (
	"context"
	"errors"

	"github.com/hyperjump/lexora/internal/models"
)

// ErrNotFound is returned when a document id does not exist in the store.
var ErrNotFound = errors.New("document not found")

// Store persists the full document set. The retrieval core reads the whole
// set at catalog build time and replaces it wholesale on updates; per-document
// edits are not part of the contract.
type Store interface {
	// GetAllDocuments returns every document in insertion order.
	GetAllDocuments(ctx context.Context) ([]*models.Document, error)
	// GetDocument returns a single document by id, or ErrNotFound.
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	// ReplaceAll atomically replaces the stored set with docs.
	ReplaceAll(ctx context.Context, docs []*models.Document) error
	// CountDocuments returns the number of stored documents.
	CountDocuments(ctx context.Context) (int64, error)
	Close() error
}
