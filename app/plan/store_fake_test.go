package plan

import (
	"context"
	"sort"
	"time"

	"github.com/lysyi3m/page-comb/app/database"
	"github.com/lysyi3m/page-comb/app/section"
)

// fakeStore is an in-memory ContentStore that applies filters, sorting
// and pagination the way the SQLite repository does, and records every
// FindItems call for assertions.
type fakeStore struct {
	items []database.Item
	calls []findCall
	err   error
}

type findCall struct {
	filter database.ItemFilter
	sort   database.SortMode
	offset int
	limit  int
}

func (f *fakeStore) FindItems(ctx context.Context, filter database.ItemFilter, sortMode database.SortMode, offset, limit int) ([]database.Item, error) {
	f.calls = append(f.calls, findCall{filter: filter, sort: sortMode, offset: offset, limit: limit})
	if f.err != nil {
		return nil, f.err
	}

	matched := make([]database.Item, 0, len(f.items))
	for _, item := range f.items {
		if matchesFilter(item, filter) {
			matched = append(matched, item)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch sortMode {
		case database.SortOldest:
			if !a.PublishedAt.Equal(*b.PublishedAt) {
				return a.PublishedAt.Before(*b.PublishedAt)
			}
		case database.SortPriority:
			if a.Priority != b.Priority {
				return a.Priority > b.Priority
			}
			if !a.PublishedAt.Equal(*b.PublishedAt) {
				return a.PublishedAt.After(*b.PublishedAt)
			}
		default:
			if !a.PublishedAt.Equal(*b.PublishedAt) {
				return a.PublishedAt.After(*b.PublishedAt)
			}
		}
		return a.ID < b.ID
	})

	if offset >= len(matched) {
		return []database.Item{}, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeStore) FindByIDs(ctx context.Context, ids []string) ([]database.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []database.Item
	for _, item := range f.items {
		if want[item.ID] && item.Published && item.PublishedAt != nil {
			out = append(out, item)
		}
	}
	return out, nil
}

func matchesFilter(item database.Item, filter database.ItemFilter) bool {
	if !item.Published || item.PublishedAt == nil {
		return false
	}
	if len(filter.Categories) > 0 {
		found := false
		for _, c := range filter.Categories {
			if item.Category == c || item.CategorySlug == c {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(filter.Tags) > 0 {
		found := false
		for _, want := range filter.Tags {
			for _, have := range item.Tags {
				if want == have {
					found = true
					break
				}
			}
		}
		if !found {
			return false
		}
	}
	if filter.PublishedAfter != nil && item.PublishedAt.Before(*filter.PublishedAfter) {
		return false
	}
	for _, id := range filter.ExcludeIDs {
		if item.ID == id {
			return false
		}
	}
	if len(filter.IncludeIDs) > 0 {
		found := false
		for _, id := range filter.IncludeIDs {
			if item.ID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// newItem builds a published item with a deterministic publish time
// derived from the age offset, so sort order in tests is explicit.
func newItem(id string, ageHours int) database.Item {
	published := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Add(-time.Duration(ageHours) * time.Hour)
	return database.Item{
		ID:          id,
		Title:       "Item " + id,
		Published:   true,
		PublishedAt: &published,
	}
}

// fakeSections is a SectionSource serving a fixed, pre-ordered list.
type fakeSections struct {
	sections []*section.Config
}

func (f *fakeSections) GetEnabledSections(targetType, targetValue string) []*section.Config {
	return f.sections
}
