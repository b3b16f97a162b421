package semantic

import (
	"context"
	"testing"

	"github.com/hyperjump/lexora/internal/catalog"
	"github.com/hyperjump/lexora/internal/embedding"
	"github.com/hyperjump/lexora/internal/models"
)

func buildCatalog(t *testing.T, docs ...*models.Document) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Build(docs)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func statute(id, text, context string) *models.Document {
	return &models.Document{
		ID:      id,
		Type:    models.TypeStatute,
		Text:    text,
		Context: context,
		Structure: models.Structure{Statute: &models.StatuteStructure{
			Codice: "Codice Civile", Libro: "I", Titolo: "I", Capo: "I",
			Articolo: "1", Commi: []string{"1"},
		}},
	}
}

func TestAdapter_QueryDeterministic(t *testing.T) {
	ctx := context.Background()
	cat := buildCatalog(t,
		statute("CC-L1-T1-C1-Art.1", "capacità giuridica", "civile"),
		statute("CC-L4-T9-Art.2051", "danno da cose in custodia", "civile, responsabilità"),
	)
	a, err := Build(ctx, cat, embedding.NewMockEmbedder(16), 10)
	if err != nil {
		t.Fatal(err)
	}

	first, err := a.Query(ctx, "responsabilità per danni", 2)
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.Query(ctx, "responsabilità per danni", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("got %d and %d results, want 2 and 2", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("result %d differs between identical queries: %q vs %q", i, first[i].ID, second[i].ID)
		}
	}
}

func TestAdapter_QueryUsesCache(t *testing.T) {
	ctx := context.Background()
	cat := buildCatalog(t, statute("CC-L1-T1-C1-Art.1", "capacità giuridica", "civile"))
	a, err := Build(ctx, cat, embedding.NewMockEmbedder(8), 10)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Query(ctx, "capacità", 1); err != nil {
		t.Fatal(err)
	}
	if a.cache.Len() != 1 {
		t.Errorf("cache len = %d, want 1", a.cache.Len())
	}
	a.Invalidate()
	if a.cache.Len() != 0 {
		t.Errorf("cache len after Invalidate = %d, want 0", a.cache.Len())
	}
}

func TestAdapter_EmptyCatalog(t *testing.T) {
	ctx := context.Background()
	cat := buildCatalog(t)
	a, err := Build(ctx, cat, embedding.NewMockEmbedder(8), 10)
	if err != nil {
		t.Fatal(err)
	}
	docs, err := a.Query(ctx, "qualsiasi cosa", 5)
	if err != nil {
		t.Fatalf("empty catalog should not error: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("got %d docs from empty catalog, want 0", len(docs))
	}
}

func TestResultCache_keyIncludesK(t *testing.T) {
	c := NewResultCache(10)
	c.Set("q", 5, []string{"a"})
	if _, ok := c.Get("q", 10); ok {
		t.Error("expected miss for different k")
	}
	if ids, ok := c.Get("q", 5); !ok || len(ids) != 1 {
		t.Error("expected hit for same query and k")
	}
}

func TestResultCache_eviction(t *testing.T) {
	c := NewResultCache(2)
	c.Set("a", 1, []string{"x"})
	c.Set("b", 1, []string{"y"})
	c.Set("c", 1, []string{"z"})
	if _, ok := c.Get("a", 1); ok {
		t.Error("expected oldest entry to be evicted")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}
