// Package resolver implements the exact-reference retrieval path: document
// ids cited literally in the query are looked up directly, together with any
// ruling that cites them.
package resolver

import (
	"regexp"
	"sync"

	"github.com/hyperjump/lexora/internal/catalog"
	"github.com/hyperjump/lexora/internal/models"
)

// refPattern matches document ids embedded in free text: a known prefix code
// joined to an alphanumeric locator path by a hyphen. Dots appear inside
// article locators (e.g. CC-L4-T9-Art.2051).
var refPattern = regexp.MustCompile(`(CC|CP|Proc|Cass)-[A-Za-z0-9.\-]+`)

// Resolver resolves literal id references in query text against one catalog
// snapshot. The per-id cache is unbounded: ids are finite and stable for the
// lifetime of a snapshot, and the resolver is discarded with the snapshot on
// rebuild.
type Resolver struct {
	catalog *catalog.Catalog
	mu      sync.RWMutex
	cache   map[string][]*models.Document
}

// New creates a resolver over the given catalog snapshot.
func New(cat *catalog.Catalog) *Resolver {
	return &Resolver{
		catalog: cat,
		cache:   make(map[string][]*models.Document),
	}
}

// Resolve scans query for id references. Every match contributes the
// document with that exact id (when it exists) plus all documents whose
// riferimenti cite it. Results keep match order, duplicates removed.
func (r *Resolver) Resolve(query string) []*models.Document {
	matches := refPattern.FindAllString(query, -1)
	if len(matches) == 0 {
		return nil
	}
	var out []*models.Document
	seen := make(map[string]bool)
	for _, id := range matches {
		for _, doc := range r.resolveID(id) {
			if !seen[doc.ID] {
				seen[doc.ID] = true
				out = append(out, doc)
			}
		}
	}
	return out
}

// resolveID returns the exact document followed by its citing documents in
// catalog order, consulting the id cache first.
func (r *Resolver) resolveID(id string) []*models.Document {
	r.mu.RLock()
	docs, ok := r.cache[id]
	r.mu.RUnlock()
	if ok {
		return docs
	}

	docs = make([]*models.Document, 0, 2)
	if doc := r.catalog.Get(id); doc != nil {
		docs = append(docs, doc)
	}
	docs = append(docs, r.catalog.ReferencedBy(id)...)

	// Only hits are cached. Catalog ids are finite and stable, so the cache
	// stays bounded; misses come from arbitrary query text and would grow
	// the map without limit.
	if len(docs) == 0 {
		return nil
	}
	r.mu.Lock()
	r.cache[id] = docs
	r.mu.Unlock()
	return docs
}
