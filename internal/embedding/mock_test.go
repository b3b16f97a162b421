package embedding

import (
	"context"
	"math"
	"testing"
)

func TestMockEmbedder_deterministic(t *testing.T) {
	ctx := context.Background()
	e := NewMockEmbedder(8)
	defer e.Close()

	a, err := e.Embed(ctx, "responsabilità civile")
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Embed(ctx, "responsabilità civile")
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embedding not deterministic at index %d", i)
		}
	}
}

func TestMockEmbedder_unitNorm(t *testing.T) {
	e := NewMockEmbedder(16)
	emb, err := e.Embed(context.Background(), "articolo 2051")
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, v := range emb {
		sum += float64(v * v)
	}
	if math.Abs(sum-1.0) > 1e-5 {
		t.Errorf("norm^2 = %f, want 1.0", sum)
	}
}

func TestMockEmbedder_batch(t *testing.T) {
	e := NewMockEmbedder(4)
	vecs, err := e.EmbedBatch(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	if len(vecs) != 2 || len(vecs[0]) != 4 {
		t.Errorf("unexpected batch shape: %d x %d", len(vecs), len(vecs[0]))
	}
}
