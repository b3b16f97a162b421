// Package embedding provides text embedding providers (mock, ONNX, remote)
// and an LRU embedding cache.
package embedding

import (
	"context"
	"fmt"
)

// Embedder produces fixed-length vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

// Options configures the embedder factory.
type Options struct {
	// Provider is one of "mock", "onnx", "openai".
	Provider   string
	ModelPath  string // onnx model file
	Model      string // remote model name
	BaseURL    string // remote endpoint base
	APIKey     string
	Dimensions int
	MaxTokens  int
	CacheSize  int
}

// New creates an embedder for the configured provider.
func New(opts Options) (Embedder, error) {
	switch opts.Provider {
	case "mock", "":
		return NewMockEmbedder(opts.Dimensions), nil
	case "onnx":
		return NewONNXEmbedder(opts.ModelPath, opts.Dimensions, opts.MaxTokens, opts.CacheSize)
	case "openai":
		return NewRemoteEmbedder(RemoteConfig{
			BaseURL:   opts.BaseURL,
			APIKey:    opts.APIKey,
			Model:     opts.Model,
			CacheSize: opts.CacheSize,
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q (supported: mock, onnx, openai)", opts.Provider)
	}
}
