// Package semantic implements the nearest-neighbor retrieval path: it builds
// one embedding per catalog document from the text+context concatenation and
// answers k-NN queries over them.
package semantic

import (
	"context"
	"fmt"

	"github.com/hyperjump/lexora/internal/catalog"
	"github.com/hyperjump/lexora/internal/embedding"
	"github.com/hyperjump/lexora/internal/models"
	"github.com/hyperjump/lexora/internal/vector"
)

// Adapter answers semantic queries against one immutable catalog snapshot.
// A new adapter is built on every catalog rebuild; the result cache belongs
// to the adapter, so discarding the adapter discards the cache with it and a
// query can never observe an old cache paired with a new catalog.
type Adapter struct {
	catalog  *catalog.Catalog
	embedder embedding.Embedder
	index    vector.Index
	cache    *ResultCache
}

// Build embeds every catalog document and constructs the vector index.
// The indexed representation is Document.EmbeddingText (text + context);
// structure fields do not influence this retrieval path.
func Build(ctx context.Context, cat *catalog.Catalog, embedder embedding.Embedder, cacheSize int) (*Adapter, error) {
	a := &Adapter{
		catalog:  cat,
		embedder: embedder,
		cache:    NewResultCache(cacheSize),
	}
	if cat.Len() == 0 {
		return a, nil
	}
	vectors, err := embedder.EmbedBatch(ctx, cat.EmbeddingTexts())
	if err != nil {
		return nil, fmt.Errorf("embed catalog: %w", err)
	}
	dimensions := embedder.Dimensions()
	if dimensions == 0 && len(vectors) > 0 {
		dimensions = len(vectors[0])
	}
	index, err := vector.NewMemoryIndex(dimensions)
	if err != nil {
		return nil, err
	}
	if err := index.Add(ctx, cat.IDs(), vectors); err != nil {
		return nil, fmt.Errorf("index catalog: %w", err)
	}
	a.index = index
	return a, nil
}

// Query returns up to k documents nearest to text, nearest first. An empty
// catalog yields an empty result, not an error. Results for identical
// (text, k) pairs are served from the bounded LRU cache.
func (a *Adapter) Query(ctx context.Context, text string, k int) ([]*models.Document, error) {
	if a.index == nil || a.catalog.Len() == 0 {
		return nil, nil
	}
	if ids, ok := a.cache.Get(text, k); ok {
		return a.lookup(ids), nil
	}
	queryVec, err := a.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := a.index.Search(ctx, queryVec, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	ids := make([]string, len(hits))
	for i, hit := range hits {
		ids[i] = hit.ID
	}
	a.cache.Set(text, k, ids)
	return a.lookup(ids), nil
}

func (a *Adapter) lookup(ids []string) []*models.Document {
	docs := make([]*models.Document, 0, len(ids))
	for _, id := range ids {
		if doc := a.catalog.Get(id); doc != nil {
			docs = append(docs, doc)
		}
	}
	return docs
}

// Invalidate discards all cached query results.
func (a *Adapter) Invalidate() {
	a.cache.Invalidate()
}

// IndexSize returns the number of indexed vectors.
func (a *Adapter) IndexSize() int {
	if a.index == nil {
		return 0
	}
	return a.index.Size()
}
