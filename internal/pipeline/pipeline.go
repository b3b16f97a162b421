// Package pipeline orchestrates query answering: greeting shortcut, parsing,
// retrieval along the reference and semantic paths, relevance filtering,
// ambiguity detection, context assembly, and answer generation. All retrieval
// state lives in an immutable snapshot swapped atomically on rebuild.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/hyperjump/lexora/internal/ambiguity"
	"github.com/hyperjump/lexora/internal/assembler"
	"github.com/hyperjump/lexora/internal/catalog"
	"github.com/hyperjump/lexora/internal/embedding"
	"github.com/hyperjump/lexora/internal/generator"
	"github.com/hyperjump/lexora/internal/lexical"
	"github.com/hyperjump/lexora/internal/models"
	"github.com/hyperjump/lexora/internal/nlp"
	"github.com/hyperjump/lexora/internal/relevance"
	"github.com/hyperjump/lexora/internal/resolver"
	"github.com/hyperjump/lexora/internal/semantic"
	"github.com/hyperjump/lexora/internal/store"
)

// DefaultSemanticK is the neighbor count requested from the semantic index
// when the config does not override it.
const DefaultSemanticK = 10

// GreetingAnswer is returned for bare greetings without touching retrieval.
const GreetingAnswer = "Ciao! Sono Lexora, il tuo assistente giuridico. Come posso aiutarti oggi?"

// NoResultsAnswer is returned when resolution and filtering produce no
// candidates. The answer generator is not invoked in that case.
const NoResultsAnswer = "Non ho trovato informazioni pertinenti alla tua domanda. Prova a riformularla con più dettagli."

// greetings are matched against the whole trimmed lowercased query.
var greetings = map[string]bool{
	"ciao":       true,
	"hello":      true,
	"salve":      true,
	"buongiorno": true,
	"buonasera":  true,
}

// Config tunes the processor. Zero values fall back to defaults.
type Config struct {
	// SemanticK is the number of nearest neighbors fetched per query.
	SemanticK int
	// CacheSize bounds the semantic result cache.
	CacheSize int
	// FallbackLimit caps the unfiltered semantic fallback set.
	FallbackLimit int
}

// Result is the outcome of processing one query.
type Result struct {
	Query     string   `json:"query"`
	Answer    string   `json:"answer"`
	Ambiguous bool     `json:"ambiguous"`
	Reason    string   `json:"reason,omitempty"`
	Sources   []string `json:"sources,omitempty"`
}

// snapshot bundles the retrieval state built from one catalog version.
type snapshot struct {
	catalog  *catalog.Catalog
	semantic *semantic.Adapter
	resolver *resolver.Resolver
	lexical  *lexical.Index
}

// Processor answers legal questions against the current snapshot.
type Processor struct {
	store    store.Store
	embedder embedding.Embedder
	parser   nlp.Parser
	policy   ambiguity.Policy
	gen      generator.Generator
	logger   *zap.Logger
	cfg      Config

	snap atomic.Pointer[snapshot]
}

// New creates a processor. Call Rebuild before Process so a snapshot exists.
func New(st store.Store, embedder embedding.Embedder, parser nlp.Parser, policy ambiguity.Policy, gen generator.Generator, logger *zap.Logger, cfg Config) *Processor {
	if cfg.SemanticK <= 0 {
		cfg.SemanticK = DefaultSemanticK
	}
	return &Processor{
		store:    st,
		embedder: embedder,
		parser:   parser,
		policy:   policy,
		gen:      gen,
		logger:   logger,
		cfg:      cfg,
	}
}

// Rebuild loads the full document set from the store and rebuilds catalog,
// semantic index, resolver, and keyword index. The new snapshot is swapped in
// only after every stage succeeds, so readers never observe a partial state.
func (p *Processor) Rebuild(ctx context.Context) error {
	docs, err := p.store.GetAllDocuments(ctx)
	if err != nil {
		return fmt.Errorf("load documents: %w", err)
	}
	cat, err := catalog.Build(docs)
	if err != nil {
		return fmt.Errorf("build catalog: %w", err)
	}
	sem, err := semantic.Build(ctx, cat, p.embedder, p.cfg.CacheSize)
	if err != nil {
		return fmt.Errorf("build semantic index: %w", err)
	}
	lex, err := lexical.Build(ctx, cat)
	if err != nil {
		return fmt.Errorf("build keyword index: %w", err)
	}

	next := &snapshot{
		catalog:  cat,
		semantic: sem,
		resolver: resolver.New(cat),
		lexical:  lex,
	}
	// The previous snapshot is not closed here: queries that loaded it
	// before the swap may still be running against it. The keyword index is
	// memory-only, so dropping the last reference releases it.
	p.snap.Swap(next)
	p.logger.Info("snapshot rebuilt",
		zap.Int("documents", cat.Len()),
		zap.Int("index_size", sem.IndexSize()))
	return nil
}

// Process answers one query.
func (p *Processor) Process(ctx context.Context, query string) (*Result, error) {
	res := &Result{Query: query}

	if greetings[strings.ToLower(strings.TrimSpace(query))] {
		p.logger.Debug("greeting detected", zap.String("query", query))
		res.Answer = GreetingAnswer
		return res, nil
	}

	snap := p.snap.Load()
	if snap == nil {
		return nil, fmt.Errorf("no snapshot available, rebuild first")
	}

	parsed := p.parser.Parse(query)

	refDocs := snap.resolver.Resolve(query)
	semDocs, err := snap.semantic.Query(ctx, query, p.cfg.SemanticK)
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}

	opts := relevance.Options{FallbackLimit: p.cfg.FallbackLimit}
	if t := models.Type(parsed.Entities.Tipo); t.Valid() {
		opts.Tipo = t
	}
	if parsed.Entities.Codice != "" {
		opts.CodePrefix = relevance.CodePrefixes[parsed.Entities.Codice]
	}
	candidates := relevance.Filter(semDocs, refDocs, query, opts)

	if len(candidates) == 0 {
		p.logger.Info("no relevant candidates", zap.String("query", query))
		res.Answer = NoResultsAnswer
		return res, nil
	}

	report := p.policy.Detect(query, parsed, candidates)
	if report.IsAmbiguous {
		p.logger.Info("ambiguous query",
			zap.String("query", query),
			zap.String("reason", string(report.Reason)))
		res.Ambiguous = true
		res.Reason = string(report.Reason)
		res.Answer = report.Clarification()
		return res, nil
	}

	docContext := assembler.Assemble(candidates)
	answer, err := p.gen.Generate(ctx, query, docContext)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	res.Answer = answer
	for _, doc := range candidates {
		res.Sources = append(res.Sources, doc.ID)
	}
	return res, nil
}

// ReplaceDocuments validates and stores a new document set, then rebuilds the
// snapshot. On validation or rebuild failure the previous snapshot keeps
// serving, but a store failure after ReplaceAll leaves store and snapshot out
// of sync until the next successful Rebuild.
func (p *Processor) ReplaceDocuments(ctx context.Context, docs []*models.Document) error {
	if _, err := catalog.Build(docs); err != nil {
		return fmt.Errorf("validate documents: %w", err)
	}
	if err := p.store.ReplaceAll(ctx, docs); err != nil {
		return fmt.Errorf("store documents: %w", err)
	}
	return p.Rebuild(ctx)
}

// Document returns a document from the current snapshot, or nil.
func (p *Processor) Document(id string) *models.Document {
	snap := p.snap.Load()
	if snap == nil {
		return nil
	}
	return snap.catalog.Get(id)
}

// KeywordSearch runs a BM25 search over the current snapshot.
func (p *Processor) KeywordSearch(ctx context.Context, query string, limit int, opts *lexical.Options) ([]*lexical.Result, error) {
	snap := p.snap.Load()
	if snap == nil {
		return nil, fmt.Errorf("no snapshot available, rebuild first")
	}
	return snap.lexical.Search(ctx, query, limit, opts)
}

// Status reports the current snapshot state.
type Status struct {
	Ready     bool `json:"ready"`
	Documents int  `json:"documents"`
	IndexSize int  `json:"index_size"`
}

// CurrentStatus returns snapshot statistics for the status endpoint.
func (p *Processor) CurrentStatus() Status {
	snap := p.snap.Load()
	if snap == nil {
		return Status{}
	}
	return Status{
		Ready:     true,
		Documents: snap.catalog.Len(),
		IndexSize: snap.semantic.IndexSize(),
	}
}

// Close releases snapshot resources.
func (p *Processor) Close() error {
	snap := p.snap.Swap(nil)
	if snap != nil && snap.lexical != nil {
		return snap.lexical.Close()
	}
	return nil
}
