package feed

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/lysyi3m/page-comb/app/cfg"
	"github.com/lysyi3m/page-comb/app/database"
)

func setupTestConfig() {
	// Clear os.Args to prevent config parsing from failing
	oldArgs := os.Args
	os.Args = []string{"test"}
	defer func() { os.Args = oldArgs }()

	if os.Getenv("PORT") == "" {
		os.Setenv("PORT", "8080")
	}

	cfg.Load()
}

func TestGenerateRSS(t *testing.T) {
	setupTestConfig()
	generator := NewGenerator()

	publishedTime := time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)

	items := []database.Item{
		{
			ID:          "item-1-uuid",
			GUID:        "item-1",
			Title:       "Test Item 1",
			Link:        "https://example.com/item1",
			Summary:     "Test Item 1 Summary",
			Content:     "Test Item 1 Content",
			Category:    "Tech",
			Tags:        []string{"Programming"},
			Author:      "test@example.com (Test Author)",
			PublishedAt: &publishedTime,
		},
		{
			ID:          "item-2-uuid",
			GUID:        "item-2",
			Title:       "Test Item 2",
			Link:        "https://example.com/item2",
			Summary:     "Test Item 2 Summary",
			PublishedAt: &publishedTime,
		},
	}

	rss, err := generator.Run("Tech", "tech", items)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(rss, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Error("RSS should contain XML declaration")
	}
	if !strings.Contains(rss, `<rss version="2.0"`) {
		t.Error("RSS should contain rss element")
	}
	if !strings.Contains(rss, "<title>Tech</title>") {
		t.Error("RSS should contain channel title")
	}
	if !strings.Contains(rss, "/feeds/tech") {
		t.Error("RSS should contain self link with category slug")
	}
	if !strings.Contains(rss, `rel="self"`) {
		t.Error("RSS should contain atom self link")
	}

	if !strings.Contains(rss, "<title>Test Item 1</title>") {
		t.Error("RSS should contain first item title")
	}
	if !strings.Contains(rss, `<guid isPermaLink="false">item-1</guid>`) {
		t.Error("RSS should contain item GUID")
	}
	if !strings.Contains(rss, "<content:encoded><![CDATA[Test Item 1 Content]]></content:encoded>") {
		t.Error("RSS should contain CDATA content for items with distinct content")
	}
	if !strings.Contains(rss, "<category>Tech</category>") {
		t.Error("RSS should contain item category")
	}
	if !strings.Contains(rss, "<category>Programming</category>") {
		t.Error("RSS should contain item tags as categories")
	}
	if !strings.Contains(rss, "<pubDate>Mon, 03 Jul 2023 10:00:00 +0000</pubDate>") {
		t.Error("RSS should contain RFC1123Z publication date")
	}

	// Second item has no content beyond its summary.
	if strings.Count(rss, "<content:encoded>") != 1 {
		t.Error("RSS should only emit content:encoded when content differs from summary")
	}
}

func TestGenerateRSS_EscapesSpecialCharacters(t *testing.T) {
	setupTestConfig()
	generator := NewGenerator()

	publishedTime := time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)
	items := []database.Item{
		{
			ID:          "item-1-uuid",
			GUID:        "item-1",
			Title:       "Markets & Money <Live>",
			Link:        "https://example.com/item1?a=1&b=2",
			Summary:     `Quotes "inside" & <tags>`,
			PublishedAt: &publishedTime,
		},
	}

	rss, err := generator.Run("Business", "business", items)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(rss, "Markets &amp; Money &lt;Live&gt;") {
		t.Error("RSS should escape special characters in titles")
	}
	if !strings.Contains(rss, "https://example.com/item1?a=1&amp;b=2") {
		t.Error("RSS should escape ampersands in links")
	}
	if strings.Contains(rss, "<Live>") {
		t.Error("RSS must not contain unescaped markup from item fields")
	}
}

func TestGenerateRSS_EmptyCategory(t *testing.T) {
	setupTestConfig()
	generator := NewGenerator()

	rss, err := generator.Run("Science", "science", []database.Item{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(rss, "<title>Science</title>") {
		t.Error("RSS should contain channel title even with no items")
	}
	if strings.Contains(rss, "<item>") {
		t.Error("RSS should not contain items for an empty category")
	}
	if !strings.Contains(rss, "<lastBuildDate>") {
		t.Error("RSS should fall back to current time for lastBuildDate")
	}
}
