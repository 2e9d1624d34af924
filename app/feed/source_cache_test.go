package feed

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSourceFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".yml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write source file: %v", err)
	}
}

func TestSourceCache_LoadSource(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "tech-daily", `
url: "https://example.com/rss"
category: "Tech News"
author: "Tech Daily Staff"
settings:
  enabled: true
  refresh_interval: 900
  max_items: 25
  extract_content: true
`)

	sc := NewSourceCache(dir)
	source, err := sc.LoadSource("tech-daily")
	if err != nil {
		t.Fatalf("Failed to load source: %v", err)
	}

	if source.Name != "tech-daily" {
		t.Errorf("Expected name derived from filename, got %s", source.Name)
	}
	if source.CategorySlug != "tech-news" {
		t.Errorf("Expected category slug derived from category, got %s", source.CategorySlug)
	}
	if source.Settings.RefreshInterval != 900 {
		t.Errorf("Expected refresh interval 900, got %d", source.Settings.RefreshInterval)
	}
	if !source.Settings.ExtractContent {
		t.Error("Expected extract_content enabled")
	}
}

func TestSourceCache_Defaults(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "minimal", `
url: "https://example.com/rss"
category: "News"
`)

	sc := NewSourceCache(dir)
	source, err := sc.LoadSource("minimal")
	if err != nil {
		t.Fatalf("Failed to load source: %v", err)
	}

	if source.Settings.RefreshInterval != 3600 {
		t.Errorf("Expected default refresh interval 3600, got %d", source.Settings.RefreshInterval)
	}
	if source.Settings.MaxItems != 50 {
		t.Errorf("Expected default max items 50, got %d", source.Settings.MaxItems)
	}
	if source.Settings.Timeout != 30 {
		t.Errorf("Expected default timeout 30, got %d", source.Settings.Timeout)
	}
}

func TestSourceCache_Validation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing url", "category: \"News\"\n"},
		{"missing category", "url: \"https://example.com/rss\"\n"},
		{"negative interval", "url: \"https://example.com/rss\"\ncategory: \"News\"\nsettings:\n  refresh_interval: -1\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeSourceFile(t, dir, "bad", tc.content)

			sc := NewSourceCache(dir)
			if _, err := sc.LoadSource("bad"); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestSourceCache_GetEnabledSources(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "on", "url: \"https://a.example.com/rss\"\ncategory: \"News\"\nsettings:\n  enabled: true\n")
	writeSourceFile(t, dir, "off", "url: \"https://b.example.com/rss\"\ncategory: \"News\"\n")

	sc := NewSourceCache(dir)
	if err := sc.Run(); err != nil {
		t.Fatalf("Failed to load sources: %v", err)
	}

	if sc.GetSourceCount() != 2 {
		t.Errorf("Expected 2 sources cached, got %d", sc.GetSourceCount())
	}

	enabled := sc.GetEnabledSources()
	if len(enabled) != 1 {
		t.Fatalf("Expected 1 enabled source, got %d", len(enabled))
	}
	if _, ok := enabled["on"]; !ok {
		t.Error("Expected enabled source 'on'")
	}
}
