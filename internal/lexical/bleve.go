// Package lexical provides keyword (BM25) search over the document catalog.
// It backs the operator search endpoint; the answering pipeline itself uses
// embedding search.
package lexical

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/hyperjump/lexora/internal/catalog"
)

// Result is a single keyword search hit.
type Result struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Options are optional keyword search parameters. Nil means defaults.
type Options struct {
	// FuzzyEnabled enables fuzzy matching for typo tolerance.
	FuzzyEnabled bool
	// Fuzziness is the maximum edit distance for fuzzy matching (1 or 2).
	// Defaults to 2 when FuzzyEnabled is true.
	Fuzziness int
}

// Index is an in-memory Bleve index over a catalog. It is immutable after
// Build and rebuilt together with the rest of the snapshot.
type Index struct {
	index bleve.Index
}

type indexedDoc struct {
	Text    string `json:"text"`
	Context string `json:"context"`
	Type    string `json:"type"`
}

// Build indexes every catalog document. The standard analyzer (lowercase +
// tokenize, no stemming) keeps Italian legal terms searchable verbatim.
func Build(ctx context.Context, cat *catalog.Catalog) (*Index, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("text", textFieldMapping)
	docMapping.AddFieldMappingsAt("context", textFieldMapping)
	typeFieldMapping := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt("type", typeFieldMapping)
	im.DefaultMapping = docMapping

	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create keyword index: %w", err)
	}

	batch := index.NewBatch()
	for _, doc := range cat.Documents() {
		if err := ctx.Err(); err != nil {
			_ = index.Close()
			return nil, err
		}
		if err := batch.Index(doc.ID, indexedDoc{
			Text:    doc.Text,
			Context: doc.Context,
			Type:    string(doc.Type),
		}); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("failed to index document %s: %w", doc.ID, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("failed to apply index batch: %w", err)
	}
	return &Index{index: index}, nil
}

// Search runs a match query and returns up to limit hits ordered by score.
func (x *Index) Search(ctx context.Context, query string, limit int, opts *Options) ([]*Result, error) {
	fuzzyEnabled := false
	fuzziness := 2
	if opts != nil {
		fuzzyEnabled = opts.FuzzyEnabled
		if opts.Fuzziness > 0 {
			fuzziness = opts.Fuzziness
		}
	}

	var q blevequery.Query
	if fuzzyEnabled {
		mq := bleve.NewMatchQuery(query)
		mq.SetFuzziness(fuzziness)
		q = mq
	} else {
		q = bleve.NewMatchQuery(query)
	}
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	results, err := x.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", err)
	}
	out := make([]*Result, len(results.Hits))
	for i, hit := range results.Hits {
		out[i] = &Result{ID: hit.ID, Score: hit.Score}
	}
	return out, nil
}

// DocCount returns the number of indexed documents.
func (x *Index) DocCount() (uint64, error) {
	return x.index.DocCount()
}

// Close releases index resources.
func (x *Index) Close() error {
	return x.index.Close()
}
