package lexical

import (
	"context"
	"testing"

	"github.com/hyperjump/lexora/internal/catalog"
	"github.com/hyperjump/lexora/internal/models"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Build([]*models.Document{
		{
			ID:      "CC-L4-T9-Art.2051",
			Type:    models.TypeStatute,
			Text:    "Ciascuno è responsabile del danno cagionato dalle cose che ha in custodia.",
			Context: "civile, responsabilità oggettiva",
			Structure: models.Structure{Statute: &models.StatuteStructure{
				Codice: "CC", Libro: "IV", Titolo: "IX", Capo: "I", Articolo: "2051", Commi: []string{"1"},
			}},
		},
		{
			ID:      "CP-L2-T7-Art.423",
			Type:    models.TypeStatute,
			Text:    "Chiunque cagiona un incendio è punito con la reclusione.",
			Context: "penale, incendio",
			Structure: models.Structure{Statute: &models.StatuteStructure{
				Codice: "CP", Libro: "II", Titolo: "VII", Capo: "I", Articolo: "423", Commi: []string{"1"},
			}},
		},
	})
	if err != nil {
		t.Fatalf("catalog.Build: %v", err)
	}
	return cat
}

func TestIndex_SearchFindsText(t *testing.T) {
	ctx := context.Background()
	idx, err := Build(ctx, testCatalog(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer func() {
		_ = idx.Close()
	}()

	results, err := idx.Search(ctx, "custodia", 10, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one keyword result for \"custodia\"")
	}
	if results[0].ID != "CC-L4-T9-Art.2051" {
		t.Errorf("first result ID = %q, want CC-L4-T9-Art.2051", results[0].ID)
	}

	// Standard analyzer, no stemming: "incendio" matches the penal statute only.
	results2, err := idx.Search(ctx, "incendio", 10, nil)
	if err != nil {
		t.Fatalf("Search incendio: %v", err)
	}
	if len(results2) != 1 || results2[0].ID != "CP-L2-T7-Art.423" {
		t.Errorf("results for \"incendio\" = %+v, want only CP-L2-T7-Art.423", results2)
	}
}

func TestIndex_SearchFindsContext(t *testing.T) {
	ctx := context.Background()
	idx, err := Build(ctx, testCatalog(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer func() {
		_ = idx.Close()
	}()

	results, err := idx.Search(ctx, "responsabilità", 10, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) == 0 || results[0].ID != "CC-L4-T9-Art.2051" {
		t.Errorf("results for context term = %+v", results)
	}
}

func TestIndex_FuzzySearch(t *testing.T) {
	ctx := context.Background()
	idx, err := Build(ctx, testCatalog(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer func() {
		_ = idx.Close()
	}()

	// Typo "custodai" should still hit with fuzziness enabled.
	results, err := idx.Search(ctx, "custodai", 10, &Options{FuzzyEnabled: true})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected fuzzy match for \"custodai\"")
	}
	if results[0].ID != "CC-L4-T9-Art.2051" {
		t.Errorf("first result ID = %q", results[0].ID)
	}
}

func TestIndex_DocCount(t *testing.T) {
	ctx := context.Background()
	idx, err := Build(ctx, testCatalog(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer func() {
		_ = idx.Close()
	}()

	n, err := idx.DocCount()
	if err != nil {
		t.Fatalf("DocCount: %v", err)
	}
	if n != 2 {
		t.Errorf("DocCount = %d, want 2", n)
	}
}
