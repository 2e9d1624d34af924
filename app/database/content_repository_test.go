package database

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestBuildFilterClause_Defaults(t *testing.T) {
	where, args := buildFilterClause(ItemFilter{})

	if !strings.Contains(where, "published = 1") {
		t.Error("Expected published condition")
	}
	if !strings.Contains(where, "published_at IS NOT NULL") {
		t.Error("Expected publish time condition")
	}
	if len(args) != 0 {
		t.Errorf("Expected no arguments, got %d", len(args))
	}
}

func TestBuildFilterClause_Categories(t *testing.T) {
	where, args := buildFilterClause(ItemFilter{Categories: []string{"Tech", "tech"}})

	if !strings.Contains(where, "category IN (?,?)") {
		t.Errorf("Expected category IN clause, got: %s", where)
	}
	if !strings.Contains(where, "category_slug IN (?,?)") {
		t.Errorf("Expected category_slug IN clause, got: %s", where)
	}
	// Category values are bound twice, once per column.
	if len(args) != 4 {
		t.Errorf("Expected 4 arguments, got %d", len(args))
	}
}

func TestBuildFilterClause_TagsMatchWholeTokens(t *testing.T) {
	where, args := buildFilterClause(ItemFilter{Tags: []string{"ai", "science"}})

	if !strings.Contains(where, "(',' || tags || ',') LIKE ?") {
		t.Errorf("Expected token-wrapped tag match, got: %s", where)
	}
	if len(args) != 2 {
		t.Fatalf("Expected 2 arguments, got %d", len(args))
	}
	if args[0] != "%,ai,%" {
		t.Errorf("Expected token pattern for tag, got %v", args[0])
	}
}

func TestBuildFilterClause_TimeAndIDBounds(t *testing.T) {
	after := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	where, args := buildFilterClause(ItemFilter{
		PublishedAfter: &after,
		IncludeIDs:     []string{"a", "b"},
		ExcludeIDs:     []string{"c"},
	})

	if !strings.Contains(where, "published_at >= ?") {
		t.Error("Expected publish time lower bound")
	}
	if !strings.Contains(where, "id IN (?,?)") {
		t.Errorf("Expected include clause, got: %s", where)
	}
	if !strings.Contains(where, "id NOT IN (?)") {
		t.Errorf("Expected exclude clause, got: %s", where)
	}
	if len(args) != 4 {
		t.Errorf("Expected 4 arguments, got %d", len(args))
	}
}

func TestSortClause(t *testing.T) {
	cases := []struct {
		sort     SortMode
		expected string
	}{
		{SortNewest, "published_at DESC, id ASC"},
		{SortOldest, "published_at ASC, id ASC"},
		{SortPriority, "priority DESC, published_at DESC, id ASC"},
		{SortMode(""), "published_at DESC, id ASC"},
	}

	for _, tc := range cases {
		if got := sortClause(tc.sort); got != tc.expected {
			t.Errorf("sortClause(%q) = %q, want %q", tc.sort, got, tc.expected)
		}
	}
}

func TestPlaceholders(t *testing.T) {
	if got := placeholders(1); got != "?" {
		t.Errorf("placeholders(1) = %q", got)
	}
	if got := placeholders(3); got != "?,?,?" {
		t.Errorf("placeholders(3) = %q", got)
	}
}

func TestStoreError_Taxonomy(t *testing.T) {
	if err := storeError("op", context.DeadlineExceeded); !errors.Is(err, ErrStoreTimeout) {
		t.Errorf("Expected deadline to map to store timeout, got %v", err)
	}
	if err := storeError("op", context.Canceled); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected cancellation to pass through, got %v", err)
	}
	if errors.Is(storeError("op", context.Canceled), ErrStoreUnavailable) {
		t.Error("Cancellation must not be reported as an outage")
	}
	if err := storeError("op", errors.New("disk io")); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Expected generic failure to map to store unavailable, got %v", err)
	}
}
