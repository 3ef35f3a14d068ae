package rules

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := `
hosts:
  - match: github.com
    tag: development
  - match: ""
    tag: dropped
titles:
  - keyword: guide
    tag: guide
  - keyword: orphan
    tag: ""
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	table, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(table.Hosts) != 1 || table.Hosts[0].Match != "github.com" {
		t.Errorf("Hosts = %+v, want single github.com rule", table.Hosts)
	}
	if len(table.Titles) != 1 || table.Titles[0].Keyword != "guide" {
		t.Errorf("Titles = %+v, want single guide rule", table.Titles)
	}
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := NewLoader("/nonexistent/rules.yaml").Load()
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSourceReplace(t *testing.T) {
	src := NewSource(nil)
	if src.Current() == nil {
		t.Fatal("source should seed defaults")
	}

	before := src.Current()
	src.Replace(nil)
	if src.Current() != before {
		t.Error("nil replace should be ignored")
	}

	table, _ := NewLoader("/nonexistent").Load()
	src.Replace(table) // nil again, still ignored
	if src.Current() != before {
		t.Error("nil table must not replace the active one")
	}
}
