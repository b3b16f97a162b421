package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/hyperjump/lexora/pkg/utils"
)

// RemoteConfig configures an OpenAI-compatible embeddings endpoint.
type RemoteConfig struct {
	BaseURL   string
	APIKey    string
	Model     string
	Timeout   time.Duration
	CacheSize int
}

// RemoteEmbedder calls an OpenAI-compatible /embeddings endpoint. Results are
// cached by literal text so catalog rebuilds over an unchanged document set
// do not re-bill every document.
type RemoteEmbedder struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	cache   *Cache
	// dimensions is set lazily from the first response; atomic because
	// concurrent queries may embed in parallel.
	dimensions atomic.Int32
}

// NewRemoteEmbedder creates a remote embedder. The API key must be non-empty.
func NewRemoteEmbedder(cfg RemoteConfig) (*RemoteEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("remote embedder: missing API key")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &RemoteEmbedder{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		client:  &http.Client{Timeout: timeout},
		cache:   NewCache(cfg.CacheSize),
	}, nil
}

type embeddingsRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed returns the normalized embedding for a single text.
func (e *RemoteEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := e.cache.Get(text); ok {
		return cached, nil
	}
	vecs, err := e.request(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	e.cache.Set(text, vecs[0])
	return vecs[0], nil
}

// EmbedBatch embeds texts in one request, reusing cached entries.
func (e *RemoteEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var misses []string
	var missIdx []int
	for i, text := range texts {
		if cached, ok := e.cache.Get(text); ok {
			out[i] = cached
			continue
		}
		misses = append(misses, text)
		missIdx = append(missIdx, i)
	}
	if len(misses) == 0 {
		return out, nil
	}
	vecs, err := e.request(ctx, misses)
	if err != nil {
		return nil, err
	}
	for i, vec := range vecs {
		out[missIdx[i]] = vec
		e.cache.Set(misses[i], vec)
	}
	return out, nil
}

func (e *RemoteEmbedder) request(ctx context.Context, input []string) ([][]float32, error) {
	body, err := json.Marshal(embeddingsRequest{Input: input, Model: e.model})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embeddings request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("embeddings request failed: %s: %s", resp.Status, payload)
	}

	var parsed embeddingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode embeddings response: %w", err)
	}
	if len(parsed.Data) != len(input) {
		return nil, fmt.Errorf("embeddings response has %d vectors, expected %d", len(parsed.Data), len(input))
	}
	vecs := make([][]float32, len(parsed.Data))
	for i, d := range parsed.Data {
		vec := make([]float32, len(d.Embedding))
		copy(vec, d.Embedding)
		utils.NormalizeL2(vec)
		vecs[i] = vec
	}
	if len(vecs) > 0 {
		e.dimensions.CompareAndSwap(0, int32(len(vecs[0])))
	}
	return vecs, nil
}

// Dimensions returns the embedding dimension (0 until the first call).
func (e *RemoteEmbedder) Dimensions() int {
	return int(e.dimensions.Load())
}

// Close is a no-op.
func (e *RemoteEmbedder) Close() error {
	return nil
}
