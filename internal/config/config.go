// Package config provides configuration loading and structs for the Lexora server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
	Ambiguity AmbiguityConfig `yaml:"ambiguity"`
	Generator GeneratorConfig `yaml:"generator"`
	Watch     WatchConfig     `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds the document database path.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// EmbeddingConfig selects and tunes the embedding backend.
type EmbeddingConfig struct {
	// Provider is one of "mock", "onnx", "openai".
	Provider   string `yaml:"provider"`
	ModelPath  string `yaml:"model_path"`
	Dimensions int    `yaml:"dimensions"`
	MaxTokens  int    `yaml:"max_tokens"`
	CacheSize  int    `yaml:"cache_size"`
	// BaseURL and Model apply to the openai provider.
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `yaml:"api_key_env"`
}

// SearchConfig holds retrieval settings.
type SearchConfig struct {
	// SemanticK is the neighbor count requested from the semantic index.
	SemanticK int `yaml:"semantic_k"`
	// CacheSize bounds the semantic result cache.
	CacheSize int `yaml:"cache_size"`
	// FallbackLimit caps the unfiltered semantic fallback set.
	FallbackLimit int `yaml:"fallback_limit"`
	// MaxLimit caps the limit accepted by the keyword search endpoint.
	MaxLimit int `yaml:"max_limit"`
}

// AmbiguityConfig selects the ambiguity policy.
type AmbiguityConfig struct {
	// Policy is "detector" (multi-reason) or "threshold" (result count).
	Policy string `yaml:"policy"`
}

// GeneratorConfig selects and tunes the answer generator backend.
type GeneratorConfig struct {
	// Provider is one of "mock", "openai".
	Provider  string `yaml:"provider"`
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
	// TimeoutSeconds bounds one generation request.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// WatchConfig holds document import watch settings.
type WatchConfig struct {
	// Directory is watched for JSON document set files; an empty value
	// disables watching.
	Directory string `yaml:"directory"`
	// DebounceMillis coalesces bursts of file events before importing.
	DebounceMillis int `yaml:"debounce_millis"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	if cfg.Watch.Directory != "" {
		cfg.Watch.Directory = expandPath(cfg.Watch.Directory, configDir)
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
