package section

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSectionFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".yml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write section file: %v", err)
	}
}

func TestConfigCache_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeSectionFile(t, dir, "main-grid", `
title: "Top Stories"
template: "grid"
capacity: 9
placement: 10
enabled: true
feed:
  mode: "mixed"
  categories: ["News"]
  since_hours: 48
pins:
  - item_id: "abc-123"
`)

	cc := NewConfigCache(dir)
	config, err := cc.LoadConfig("main-grid")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.Name != "main-grid" {
		t.Errorf("Expected name derived from filename, got %s", config.Name)
	}
	if config.Template != TemplateGrid {
		t.Errorf("Expected grid template, got %s", config.Template)
	}
	if config.Target.Type != "homepage" {
		t.Errorf("Expected default target type homepage, got %s", config.Target.Type)
	}
	if config.Feed.SinceHours != 48 {
		t.Errorf("Expected since_hours 48, got %d", config.Feed.SinceHours)
	}
	if len(config.Pins) != 1 || config.Pins[0].ItemID != "abc-123" {
		t.Errorf("Expected one pin, got %+v", config.Pins)
	}
}

func TestConfigCache_ValidationErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"bad mode", "feed:\n  mode: \"random\"\n"},
		{"bad sort", "feed:\n  sort: \"alphabetical\"\n"},
		{"inverted slice", "feed:\n  slice_from: 7\n  slice_to: 3\n"},
		{"negative since_hours", "feed:\n  since_hours: -1\n"},
		{"pin without item_id", "pins:\n  - starts_at: 2026-01-01T00:00:00Z\n"},
		{"pin window inverted", "pins:\n  - item_id: \"x\"\n    starts_at: 2026-02-01T00:00:00Z\n    ends_at: 2026-01-01T00:00:00Z\n"},
		{"duplicate zone", "custom:\n  zones:\n    - name: \"a\"\n      limit: 2\n    - name: \"a\"\n      limit: 3\n"},
		{"zone without limit", "custom:\n  zones:\n    - name: \"a\"\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeSectionFile(t, dir, "bad", tc.content)

			cc := NewConfigCache(dir)
			if _, err := cc.LoadConfig("bad"); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestConfigCache_GetEnabledSections(t *testing.T) {
	dir := t.TempDir()
	writeSectionFile(t, dir, "second", "enabled: true\nplacement: 20\n")
	writeSectionFile(t, dir, "first", "enabled: true\nplacement: 10\n")
	writeSectionFile(t, dir, "disabled", "enabled: false\nplacement: 5\n")
	writeSectionFile(t, dir, "category-only", `
enabled: true
placement: 1
target:
  type: "category"
  value: "Business"
`)

	cc := NewConfigCache(dir)
	if err := cc.Run(); err != nil {
		t.Fatalf("Failed to load sections: %v", err)
	}

	home := cc.GetEnabledSections("homepage", "")
	if len(home) != 2 {
		t.Fatalf("Expected 2 homepage sections, got %d", len(home))
	}
	if home[0].Name != "first" || home[1].Name != "second" {
		t.Errorf("Expected placement order first, second; got %s, %s", home[0].Name, home[1].Name)
	}

	// Target value matching is case-insensitive.
	byCategory := cc.GetEnabledSections("category", "business")
	if len(byCategory) != 1 || byCategory[0].Name != "category-only" {
		t.Errorf("Expected case-insensitive category match, got %+v", byCategory)
	}

	if got := cc.GetEnabledSections("category", "sports"); len(got) != 0 {
		t.Errorf("Expected no sections for unmatched category, got %d", len(got))
	}
}

func TestConfigCache_PlacementTiesBreakByName(t *testing.T) {
	dir := t.TempDir()
	writeSectionFile(t, dir, "zebra", "enabled: true\nplacement: 10\n")
	writeSectionFile(t, dir, "alpha", "enabled: true\nplacement: 10\n")

	cc := NewConfigCache(dir)
	if err := cc.Run(); err != nil {
		t.Fatalf("Failed to load sections: %v", err)
	}

	sections := cc.GetEnabledSections("homepage", "")
	if sections[0].Name != "alpha" || sections[1].Name != "zebra" {
		t.Errorf("Expected name order on placement tie, got %s, %s", sections[0].Name, sections[1].Name)
	}
}

func TestConfigCache_ReloadSkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	writeSectionFile(t, dir, "good", "enabled: true\n")
	writeSectionFile(t, dir, "broken", "title: [unclosed\n")
	writeSectionFile(t, dir, "invalid", "feed:\n  mode: \"nope\"\n")

	cc := NewConfigCache(dir)
	loaded, err := cc.Reload()
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if loaded != 1 {
		t.Errorf("Expected 1 section loaded, got %d", loaded)
	}
	if cc.GetConfigCount() != 1 {
		t.Errorf("Expected cache to hold 1 section, got %d", cc.GetConfigCount())
	}
	if _, err := cc.GetConfig("good"); err != nil {
		t.Errorf("Expected good section in cache: %v", err)
	}
}

func TestConfigCache_ReloadReplacesCache(t *testing.T) {
	dir := t.TempDir()
	writeSectionFile(t, dir, "old", "enabled: true\n")

	cc := NewConfigCache(dir)
	if _, err := cc.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	if err := os.Remove(filepath.Join(dir, "old.yml")); err != nil {
		t.Fatalf("Failed to remove file: %v", err)
	}
	writeSectionFile(t, dir, "new", "enabled: true\n")

	if _, err := cc.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if _, err := cc.GetConfig("old"); err == nil {
		t.Error("Expected removed section to be gone after reload")
	}
	if _, err := cc.GetConfig("new"); err != nil {
		t.Errorf("Expected new section after reload: %v", err)
	}
}

func TestConfigCache_MissingDirectory(t *testing.T) {
	cc := NewConfigCache(filepath.Join(t.TempDir(), "does-not-exist"))
	if err := cc.Run(); err != nil {
		t.Errorf("Expected missing directory to be tolerated: %v", err)
	}
	if cc.GetConfigCount() != 0 {
		t.Errorf("Expected empty cache, got %d", cc.GetConfigCount())
	}
}
