package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.SiteDir != "_site" {
		t.Errorf("expected default site_dir %q, got %q", "_site", cfg.SiteDir)
	}
	if cfg.Search.Debounce != 300*time.Millisecond {
		t.Errorf("expected default debounce 300ms, got %v", cfg.Search.Debounce)
	}
	if cfg.Search.MinQueryLength != 2 || cfg.Search.MaxResults != 10 {
		t.Errorf("unexpected search defaults %+v", cfg.Search)
	}
	if cfg.TOC.ScrollOffset != 100 || cfg.TOC.MinHeadings != 2 {
		t.Errorf("unexpected toc defaults %+v", cfg.TOC)
	}
	if cfg.Tree.StateKey != "categoryTreeState" {
		t.Errorf("expected state key categoryTreeState, got %q", cfg.Tree.StateKey)
	}
	if cfg.IndexPath() != filepath.Join("_site", "search.json") {
		t.Errorf("index path = %q", cfg.IndexPath())
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.blognav.yml")

	original := DefaultConfig()
	original.SiteDir = "public"
	original.Include = []string{"**/*.md"}
	original.Search.Debounce = 150 * time.Millisecond
	original.Search.NoResultsText = "No results."
	original.TOC.ScrollOffset = 64.5
	original.Server.AllowedOrigins = []string{"https://blog.example.com"}

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Verify round-trip.
	if loaded.SiteDir != original.SiteDir {
		t.Errorf("site_dir: got %q, want %q", loaded.SiteDir, original.SiteDir)
	}
	if loaded.Search.Debounce != original.Search.Debounce {
		t.Errorf("debounce: got %v, want %v", loaded.Search.Debounce, original.Search.Debounce)
	}
	if loaded.Search.NoResultsText != original.Search.NoResultsText {
		t.Errorf("no_results_text: got %q", loaded.Search.NoResultsText)
	}
	if loaded.TOC.ScrollOffset != original.TOC.ScrollOffset {
		t.Errorf("scroll_offset: got %v, want %v", loaded.TOC.ScrollOffset, original.TOC.ScrollOffset)
	}
	if len(loaded.Include) != 1 || loaded.Include[0] != "**/*.md" {
		t.Errorf("include: got %v", loaded.Include)
	}
	if len(loaded.Server.AllowedOrigins) != 1 {
		t.Errorf("allowed_origins: got %v", loaded.Server.AllowedOrigins)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.PostsDir != "_posts" {
		t.Errorf("expected default posts_dir, got %q", cfg.PostsDir)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("BLOGNAV_SITE_DIR", "public")
	t.Setenv("BLOGNAV_SEARCH__DEBOUNCE", "500ms")
	t.Setenv("BLOGNAV_SERVER__PORT", "8080")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.SiteDir != "public" {
		t.Errorf("env override failed: got %q, want %q", loaded.SiteDir, "public")
	}
	if loaded.Search.Debounce != 500*time.Millisecond {
		t.Errorf("nested env override failed: got %v", loaded.Search.Debounce)
	}
	if loaded.Server.Port != 8080 {
		t.Errorf("port override failed: got %d", loaded.Server.Port)
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty site_dir", func(c *Config) { c.SiteDir = "" }},
		{"empty posts_dir", func(c *Config) { c.PostsDir = "" }},
		{"bad log_format", func(c *Config) { c.LogFormat = "xml" }},
		{"bad log_level", func(c *Config) { c.LogLevel = "loud" }},
		{"zero min_query_length", func(c *Config) { c.Search.MinQueryLength = 0 }},
		{"zero max_results", func(c *Config) { c.Search.MaxResults = 0 }},
		{"zero debounce", func(c *Config) { c.Search.Debounce = 0 }},
		{"unterminated attribute selector", func(c *Config) { c.TOC.ContentSelector = "article[data-x" }},
		{"zero min_headings", func(c *Config) { c.TOC.MinHeadings = 0 }},
		{"empty state_key", func(c *Config) { c.Tree.StateKey = "" }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestDetectSite(t *testing.T) {
	dir := t.TempDir()
	if name, siteDir := detectSite(dir); name != "" || siteDir != "_site" {
		t.Errorf("empty dir: got %q, %q", name, siteDir)
	}
	if err := os.WriteFile(filepath.Join(dir, "hugo.toml"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if name, siteDir := detectSite(dir); name != "Hugo" || siteDir != "public" {
		t.Errorf("hugo dir: got %q, %q", name, siteDir)
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"**/*.md", []string{"**/*.md"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}
