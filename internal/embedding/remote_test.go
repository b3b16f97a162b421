package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func newEmbeddingsServer(t *testing.T, dims int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		data := make([]map[string]interface{}, len(req.Input))
		for i := range req.Input {
			vec := make([]float32, dims)
			vec[0] = 1
			data[i] = map[string]interface{}{"embedding": vec}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
	}))
}

func TestRemoteEmbedder_Embed(t *testing.T) {
	srv := newEmbeddingsServer(t, 8)
	defer srv.Close()

	e, err := NewRemoteEmbedder(RemoteConfig{BaseURL: srv.URL, APIKey: "k"})
	if err != nil {
		t.Fatalf("NewRemoteEmbedder: %v", err)
	}
	defer e.Close()

	vec, err := e.Embed(context.Background(), "custodia")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 8 {
		t.Errorf("vector length = %d, want 8", len(vec))
	}
	if e.Dimensions() != 8 {
		t.Errorf("Dimensions = %d, want 8", e.Dimensions())
	}
}

func TestRemoteEmbedder_BatchUsesCache(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		var req struct {
			Input []string `json:"input"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		data := make([]map[string]interface{}, len(req.Input))
		for i := range req.Input {
			data[i] = map[string]interface{}{"embedding": []float32{1, 0}}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
	}))
	defer srv.Close()

	e, err := NewRemoteEmbedder(RemoteConfig{BaseURL: srv.URL, APIKey: "k"})
	if err != nil {
		t.Fatalf("NewRemoteEmbedder: %v", err)
	}
	defer e.Close()

	ctx := context.Background()
	if _, err := e.EmbedBatch(ctx, []string{"uno", "due"}); err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	// Fully cached batch must not hit the endpoint again.
	if _, err := e.EmbedBatch(ctx, []string{"due", "uno"}); err != nil {
		t.Fatalf("EmbedBatch cached: %v", err)
	}
	if requests != 1 {
		t.Errorf("requests = %d, want 1", requests)
	}
}

func TestRemoteEmbedder_ConcurrentEmbeds(t *testing.T) {
	srv := newEmbeddingsServer(t, 4)
	defer srv.Close()

	e, err := NewRemoteEmbedder(RemoteConfig{BaseURL: srv.URL, APIKey: "k"})
	if err != nil {
		t.Fatalf("NewRemoteEmbedder: %v", err)
	}
	defer e.Close()

	ctx := context.Background()
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if _, err := e.Embed(ctx, fmt.Sprintf("testo %d", n)); err != nil {
				errs <- err
			}
			_ = e.Dimensions()
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("Embed: %v", err)
	}
	if e.Dimensions() != 4 {
		t.Errorf("Dimensions = %d, want 4", e.Dimensions())
	}
}
