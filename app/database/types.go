package database

import (
	"errors"
	"time"
)

// Store failure modes. Timeouts and connectivity problems abort the
// caller's current operation; they are never turned into empty results.
var (
	ErrStoreTimeout     = errors.New("store query timed out")
	ErrStoreUnavailable = errors.New("store unavailable")
)

type Item struct {
	ID           string
	Source       string // Configuration source identifier the item was ingested from
	GUID         string
	Link         string
	Slug         string
	Title        string
	Summary      string
	Content      string
	ImageURL     string
	Category     string // Display name, e.g. "Business"
	CategorySlug string // URL form, e.g. "business"
	Tags         []string
	Author       string
	Priority     int // Editorial ranking, used by the priority sort
	Published    bool
	PublishedAt  *time.Time
	ContentHash  string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	ContentExtractedAt      *time.Time
	ContentExtractionStatus string // pending, success, failed, skipped
	ContentExtractionError  string
}

// IngestedItem is the normalized form produced by the ingest parser,
// ready to be upserted into the store.
type IngestedItem struct {
	GUID         string
	Link         string
	Slug         string
	Title        string
	Summary      string
	Content      string
	ImageURL     string
	Category     string
	CategorySlug string
	Tags         []string
	Author       string
	PublishedAt  *time.Time
	ContentHash  string
}

type ItemForExtraction struct {
	ID   string
	Link string
}

// ItemFilter restricts FindItems/CountItems. All fields are optional;
// the zero value matches every published item. Categories match against
// either the display name or the slug.
type ItemFilter struct {
	Categories     []string
	Tags           []string
	PublishedAfter *time.Time
	IncludeIDs     []string
	ExcludeIDs     []string
}

type SortMode string

const (
	SortNewest   SortMode = "newest"
	SortOldest   SortMode = "oldest"
	SortPriority SortMode = "priority"
)
