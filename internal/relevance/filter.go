// Package relevance merges reference-path and semantic-path candidates into
// one ranked set using fixed context keyword heuristics.
package relevance

import (
	"strings"

	"github.com/hyperjump/lexora/internal/models"
	"github.com/hyperjump/lexora/pkg/utils"
)

// DefaultFallbackLimit bounds the unfiltered semantic fallback when no
// candidate passes the heuristics.
const DefaultFallbackLimit = 5

// Options narrows the filtered set with explicit query signals.
type Options struct {
	// Tipo keeps only candidates of this type when non-empty.
	Tipo models.Type
	// CodePrefix keeps only candidates whose id starts with this prefix
	// (e.g. "CC-") when non-empty.
	CodePrefix string
	// FallbackLimit caps the semantic fallback; zero means DefaultFallbackLimit.
	FallbackLimit int
}

// Filter builds the final candidate set. Reference candidates always come
// first in their given order; semantic candidates follow in similarity rank
// order when query and candidate agree on a shared legal context. When
// nothing qualifies, the top semantic candidates are used as a fallback, so
// the result is never empty while semantic search returned anything.
func Filter(semantic, reference []*models.Document, query string, opts Options) []*models.Document {
	tokens := utils.Tokenize(query)

	result := make([]*models.Document, 0, len(reference)+len(semantic))
	seen := make(map[string]bool)
	for _, doc := range reference {
		if !seen[doc.ID] {
			seen[doc.ID] = true
			result = append(result, doc)
		}
	}

	for _, doc := range semantic {
		if seen[doc.ID] {
			continue
		}
		if sharesContext(tokens, doc) {
			seen[doc.ID] = true
			result = append(result, doc)
		}
	}

	if len(result) == 0 {
		limit := opts.FallbackLimit
		if limit <= 0 {
			limit = DefaultFallbackLimit
		}
		for _, doc := range semantic {
			if len(result) >= limit {
				break
			}
			if !seen[doc.ID] {
				seen[doc.ID] = true
				result = append(result, doc)
			}
		}
	}

	return narrow(result, opts)
}

// sharesContext implements the symmetric relevance test: some context's
// keyword set must match the query tokens AND the candidate's own context or
// text, so both sides agree on a legal domain.
func sharesContext(tokens []string, doc *models.Document) bool {
	haystack := strings.ToLower(doc.Context + " " + doc.Text)
	for _, ctx := range ContextTable {
		if queryMatches(tokens, ctx.Keywords) && candidateMatches(haystack, ctx.Keywords) {
			return true
		}
	}
	return false
}

func queryMatches(tokens []string, keywords []string) bool {
	for _, kw := range keywords {
		lower := strings.ToLower(kw)
		prefix := strings.HasSuffix(kw, "-")
		for _, tok := range tokens {
			if prefix && strings.HasPrefix(tok, lower) {
				return true
			}
			if !prefix && tok == lower {
				return true
			}
		}
	}
	return false
}

func candidateMatches(haystack string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(haystack, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// narrow applies the explicit tipo and code filters, when present, before
// ambiguity detection sees the set.
func narrow(docs []*models.Document, opts Options) []*models.Document {
	if opts.Tipo == "" && opts.CodePrefix == "" {
		return docs
	}
	narrowed := docs[:0:0]
	for _, doc := range docs {
		if opts.Tipo != "" && doc.Type != opts.Tipo {
			continue
		}
		if opts.CodePrefix != "" && !strings.HasPrefix(doc.ID, opts.CodePrefix) {
			continue
		}
		narrowed = append(narrowed, doc)
	}
	return narrowed
}
