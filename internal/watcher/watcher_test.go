package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestWatcher_ImportsJSONFiles(t *testing.T) {
	dir := t.TempDir()

	var imported []string
	var mu sync.Mutex
	onImport := func(path string) {
		mu.Lock()
		imported = append(imported, path)
		mu.Unlock()
	}

	w := NewWatcher(dir, onImport, zap.NewNop(), WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	jsonPath := filepath.Join(dir, "documents.json")
	if err := os.WriteFile(jsonPath, []byte(`[]`), 0600); err != nil {
		t.Fatal(err)
	}
	// Non-JSON files must be ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for {
		mu.Lock()
		n := len(imported)
		mu.Unlock()
		if n > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(imported) == 0 {
		t.Fatal("expected an import callback for documents.json")
	}
	for _, p := range imported {
		if filepath.Base(p) != "documents.json" {
			t.Errorf("unexpected import %q", p)
		}
	}
}

func TestWatcher_DebounceCoalescesWrites(t *testing.T) {
	dir := t.TempDir()

	var imports int
	var mu sync.Mutex
	onImport := func(string) {
		mu.Lock()
		imports++
		mu.Unlock()
	}

	w := NewWatcher(dir, onImport, zap.NewNop(), WithDebounce(200*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	jsonPath := filepath.Join(dir, "documents.json")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(jsonPath, []byte(`[]`), 0600); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	time.Sleep(600 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if imports != 1 {
		t.Errorf("imports = %d, want 1 after debounce", imports)
	}
}

func TestWatcher_StartOnMissingDirectory(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "missing"), func(string) {}, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err == nil {
		w.Stop()
		t.Fatal("expected error for missing directory")
	}
}
