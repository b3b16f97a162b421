// Package main is the Lexora CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hyperjump/lexora/internal/ambiguity"
	"github.com/hyperjump/lexora/internal/catalog"
	"github.com/hyperjump/lexora/internal/config"
	"github.com/hyperjump/lexora/internal/embedding"
	"github.com/hyperjump/lexora/internal/generator"
	"github.com/hyperjump/lexora/internal/models"
	"github.com/hyperjump/lexora/internal/nlp"
	"github.com/hyperjump/lexora/internal/pipeline"
	"github.com/hyperjump/lexora/internal/server"
	"github.com/hyperjump/lexora/internal/store"
	"github.com/hyperjump/lexora/internal/watcher"
	"github.com/hyperjump/lexora/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/lexora/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "lexora server" from the project dir uses the project's
// config (including debug).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// Missing .env is fine; environment variables win over file values.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ask":
		runAsk()
	case "validate":
		runValidate()
	case "version", "--version", "-v":
		fmt.Printf("lexora version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Usage: lexora <command> [flags]

Commands:
  server     Run the HTTP API server
  ask        Answer one question from the command line
  validate   Validate a JSON document set file
  version    Print version
  help       Show this help

Run "lexora <command> -h" for command flags.`)
}

// components are the wired collaborators shared by server and ask.
type components struct {
	Store     store.Store
	Embedder  embedding.Embedder
	Processor *pipeline.Processor
	Logger    *zap.Logger
}

func (c *components) Close() {
	if c.Processor != nil {
		_ = c.Processor.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.Store != nil {
		_ = c.Store.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*components, error) {
	st, err := store.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	embedder, err := embedding.New(embedding.Options{
		Provider:   cfg.Embedding.Provider,
		ModelPath:  cfg.Embedding.ModelPath,
		Model:      cfg.Embedding.Model,
		BaseURL:    cfg.Embedding.BaseURL,
		APIKey:     os.Getenv(cfg.Embedding.APIKeyEnv),
		Dimensions: cfg.Embedding.Dimensions,
		MaxTokens:  cfg.Embedding.MaxTokens,
		CacheSize:  cfg.Embedding.CacheSize,
	})
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	parser := nlp.NewRuleParser()

	var policy ambiguity.Policy
	switch cfg.Ambiguity.Policy {
	case "detector":
		policy = ambiguity.NewDetector(parser)
	case "threshold":
		policy = ambiguity.NewThreshold()
	default:
		_ = embedder.Close()
		_ = st.Close()
		return nil, fmt.Errorf("unknown ambiguity policy %q (supported: detector, threshold)", cfg.Ambiguity.Policy)
	}

	var gen generator.Generator
	switch cfg.Generator.Provider {
	case "mock":
		gen = generator.NewMock()
	case "openai":
		gen = generator.NewOpenAI(generator.OpenAIConfig{
			BaseURL: cfg.Generator.BaseURL,
			APIKey:  os.Getenv(cfg.Generator.APIKeyEnv),
			Model:   cfg.Generator.Model,
			Timeout: time.Duration(cfg.Generator.TimeoutSeconds) * time.Second,
		})
	default:
		_ = embedder.Close()
		_ = st.Close()
		return nil, fmt.Errorf("unknown generator provider %q (supported: mock, openai)", cfg.Generator.Provider)
	}

	processor := pipeline.New(st, embedder, parser, policy, gen, logger, pipeline.Config{
		SemanticK:     cfg.Search.SemanticK,
		CacheSize:     cfg.Search.CacheSize,
		FallbackLimit: cfg.Search.FallbackLimit,
	})
	if err := processor.Rebuild(context.Background()); err != nil {
		_ = embedder.Close()
		_ = st.Close()
		return nil, fmt.Errorf("build initial snapshot: %w", err)
	}

	return &components{
		Store:     st,
		Embedder:  embedder,
		Processor: processor,
		Logger:    logger,
	}, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	comps, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer comps.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Watch.Directory != "" {
		watchSvc := watcher.NewWatcher(
			cfg.Watch.Directory,
			func(path string) {
				if err := importDocumentFile(context.Background(), comps.Processor, path); err != nil {
					logger.Warn("import failed", zap.String("path", path), zap.Error(err))
					return
				}
				logger.Info("documents imported", zap.String("path", path))
			},
			logger,
			watcher.WithDebounce(time.Duration(cfg.Watch.DebounceMillis)*time.Millisecond),
		)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer watchSvc.Stop()
	}

	srv := server.NewServer(comps.Processor, comps.Store, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// importDocumentFile reads a JSON document set and replaces the stored set
// with it, rebuilding the snapshot.
func importDocumentFile(ctx context.Context, processor *pipeline.Processor, path string) error {
	docs, err := readDocumentFile(path)
	if err != nil {
		return err
	}
	return processor.ReplaceDocuments(ctx, docs)
}

func readDocumentFile(path string) ([]*models.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var docs []*models.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return docs, nil
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputJSON := fs.Bool("json", false, "print the full result as JSON")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: lexora ask [flags] <question>")
		os.Exit(1)
	}
	query := strings.TrimSpace(strings.Join(fs.Args(), " "))

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	comps, err := initializeComponents(cfg, logger)
	if err != nil {
		fmt.Printf("Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer comps.Close()

	result, err := comps.Processor.Process(context.Background(), query)
	if err != nil {
		fmt.Printf("Failed to answer: %v\n", err)
		os.Exit(1)
	}

	if *outputJSON {
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(out))
		return
	}
	fmt.Println(result.Answer)
	if len(result.Sources) > 0 {
		fmt.Printf("\nFonti: %s\n", strings.Join(result.Sources, ", "))
	}
}

func runValidate() {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: lexora validate <documents.json>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	docs, err := readDocumentFile(path)
	if err != nil {
		fmt.Printf("Invalid: %v\n", err)
		os.Exit(1)
	}
	if _, err := catalog.Build(docs); err != nil {
		fmt.Printf("Invalid: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK: %d documents\n", len(docs))
}
