package plan

import (
	"context"
	"time"

	"github.com/lysyi3m/page-comb/app/database"
	"github.com/lysyi3m/page-comb/app/section"
)

// ContentStore is the slice of the store contract the engine needs.
// Satisfied by database.ContentRepository.
type ContentStore interface {
	FindItems(ctx context.Context, filter database.ItemFilter, sort database.SortMode, offset, limit int) ([]database.Item, error)
	FindByIDs(ctx context.Context, ids []string) ([]database.Item, error)
}

var _ ContentStore = (database.ContentRepository)(nil)

// SectionSource provides the enabled sections for a target page in
// placement order. Satisfied by section.ConfigCache.
type SectionSource interface {
	GetEnabledSections(targetType, targetValue string) []*section.Config
}

// Item is the lightweight projection handed to renderers.
type Item struct {
	ID           string    `json:"id"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary"`
	ImageURL     string    `json:"image_url"`
	Category     string    `json:"category"`
	CategorySlug string    `json:"category_slug"`
	Tags         []string  `json:"tags,omitempty"`
	Author       string    `json:"author,omitempty"`
	PublishedAt  time.Time `json:"published_at"`
}

// CustomPayload is the fixed payload echoed by the promo templates.
type CustomPayload struct {
	Title    string `json:"title,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	LinkURL  string `json:"link_url,omitempty"`
}

// ResolvedSection carries either a flat item list or a zone map,
// depending on the template.
type ResolvedSection struct {
	Name     string            `json:"name"`
	Title    string            `json:"title"`
	Template string            `json:"template"`
	Items    []Item            `json:"items"`
	Zones    map[string][]Item `json:"zones,omitempty"`
	Custom   *CustomPayload    `json:"custom,omitempty"`
}

// Plan is the ordered output of one build.
type Plan struct {
	TargetType  string            `json:"target_type"`
	TargetValue string            `json:"target_value"`
	Sections    []ResolvedSection `json:"sections"`
}

func projectItem(item database.Item) Item {
	out := Item{
		ID:           item.ID,
		Slug:         item.Slug,
		Title:        item.Title,
		Summary:      item.Summary,
		ImageURL:     item.ImageURL,
		Category:     item.Category,
		CategorySlug: item.CategorySlug,
		Tags:         item.Tags,
		Author:       item.Author,
	}
	if item.PublishedAt != nil {
		out.PublishedAt = item.PublishedAt.UTC()
	}
	return out
}

func projectItems(items []database.Item) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		out = append(out, projectItem(item))
	}
	return out
}
