// Package catalog provides the immutable, validated snapshot of all
// retrievable documents. A catalog is rebuilt from the document store after
// every successful update and is read-only afterwards, so concurrent query
// pipelines can share it without locking.
package catalog

import (
	"fmt"

	"github.com/hyperjump/lexora/internal/models"
)

// Catalog is an ordered, validated document collection with id and
// reverse-reference indexes.
type Catalog struct {
	docs         []*models.Document
	byID         map[string]*models.Document
	referencedBy map[string][]*models.Document
}

// Build validates docs and constructs a catalog. Validation failures
// (duplicate or malformed ids, unknown types, dangling riferimenti) abort the
// build; the caller keeps serving the previous catalog.
func Build(docs []*models.Document) (*Catalog, error) {
	c := &Catalog{
		docs:         make([]*models.Document, 0, len(docs)),
		byID:         make(map[string]*models.Document, len(docs)),
		referencedBy: make(map[string][]*models.Document),
	}
	for _, doc := range docs {
		if err := doc.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[doc.ID]; dup {
			return nil, fmt.Errorf("duplicate document id %q", doc.ID)
		}
		c.docs = append(c.docs, doc)
		c.byID[doc.ID] = doc
	}
	// Riferimenti must resolve inside the same set; a dangling reference is a
	// hard validation failure, not a warning.
	for _, doc := range c.docs {
		for _, ref := range doc.References() {
			if _, ok := c.byID[ref]; !ok {
				return nil, fmt.Errorf("document %q references unknown id %q", doc.ID, ref)
			}
			c.referencedBy[ref] = append(c.referencedBy[ref], doc)
		}
	}
	return c, nil
}

// Documents returns all documents in catalog order. Callers must not mutate
// the returned slice.
func (c *Catalog) Documents() []*models.Document {
	return c.docs
}

// Get returns the document with the given id, or nil.
func (c *Catalog) Get(id string) *models.Document {
	return c.byID[id]
}

// ReferencedBy returns the documents whose riferimenti include id, in
// catalog order.
func (c *Catalog) ReferencedBy(id string) []*models.Document {
	return c.referencedBy[id]
}

// Len returns the number of documents.
func (c *Catalog) Len() int {
	return len(c.docs)
}

// IDs returns all document ids in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.docs))
	for i, doc := range c.docs {
		ids[i] = doc.ID
	}
	return ids
}

// EmbeddingTexts returns, in catalog order, the text+context concatenation
// that is the only representation indexed for semantic search.
func (c *Catalog) EmbeddingTexts() []string {
	texts := make([]string, len(c.docs))
	for i, doc := range c.docs {
		texts[i] = doc.EmbeddingText()
	}
	return texts
}
