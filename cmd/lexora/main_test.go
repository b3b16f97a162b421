package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_CwdFallback(t *testing.T) {
	dir := t.TempDir()
	content := `
server:
  host: "localhost"
  port: 9100
storage:
  database_path: "./test.db"
embedding:
  provider: "mock"
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.Chdir(oldWD)
	}()

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("port = %d, want 9100", cfg.Server.Port)
	}
	want := filepath.Join(dir, "config.yaml")
	if resolved != want {
		t.Errorf("resolved path = %s, want %s", resolved, want)
	}
}

func TestReadDocumentFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "documents.json")
	content := `[
		{
			"id": "CC-L4-T9-Art.2051",
			"type": "legge",
			"text": "Ciascuno è responsabile del danno cagionato dalle cose che ha in custodia.",
			"context": "civile, responsabilità oggettiva",
			"structure": {
				"codice": "CC", "libro": "IV", "titolo": "IX", "capo": "I",
				"articolo": "2051", "commi": ["1"]
			}
		}
	]`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	docs, err := readDocumentFile(path)
	if err != nil {
		t.Fatalf("readDocumentFile: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "CC-L4-T9-Art.2051" {
		t.Errorf("docs = %+v", docs)
	}
}

func TestReadDocumentFile_InvalidDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "documents.json")
	// Statute structure missing required keys fails validation at decode time.
	content := `[{"id": "CC-1-A", "type": "legge", "text": "x", "context": "civile", "structure": {"codice": "CC"}}]`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := readDocumentFile(path); err == nil {
		t.Fatal("expected validation error for incomplete structure")
	}
}

func TestReadDocumentFile_Missing(t *testing.T) {
	if _, err := readDocumentFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
