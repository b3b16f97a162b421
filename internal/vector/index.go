// Package vector provides vector storage and nearest-neighbor search.
package vector

import "context"

// Index defines vector storage and similarity search. Indexes are built once
// per catalog snapshot and discarded on rebuild, so no removal or persistence
// operations are part of the contract.
type Index interface {
	Add(ctx context.Context, ids []string, vectors [][]float32) error
	Search(ctx context.Context, query []float32, k int) ([]*Result, error)
	Size() int
	Close() error
}

// Result is a single vector search hit.
type Result struct {
	ID    string
	Score float64 // inner product; cosine similarity for normalized vectors
}
