package plan

import (
	"context"
	"time"

	"github.com/lysyi3m/page-comb/app/database"
)

// HardCap bounds the number of items any single query may return,
// whatever the configured capacity or slice says.
const HardCap = 12

// Query is the normalized descriptor the planner executes: a feed
// specification with inheritance already resolved.
type Query struct {
	Categories []string
	Tags       []string
	SinceHours int
	SliceFrom  int // 1-based, 0 treated as 1
	SliceTo    int // inclusive; 0 = unbounded
	Sort       string
	Limit      int
	ExcludeIDs []string
}

// effectiveWindow computes the store offset and row count for a query.
// The count is the smallest of the hard cap, the requested limit, and
// the slice width when slice_to is set. A zero or negative count is
// valid and yields an empty result.
func effectiveWindow(q Query) (offset, count int) {
	from := q.SliceFrom
	if from < 1 {
		from = 1
	}
	offset = from - 1

	count = q.Limit
	if q.SliceTo > 0 {
		if width := q.SliceTo - from + 1; width < count {
			count = width
		}
	}
	if count > HardCap {
		count = HardCap
	}
	if count < 0 {
		count = 0
	}
	return offset, count
}

func (b *Builder) runQuery(ctx context.Context, q Query) ([]database.Item, error) {
	offset, count := effectiveWindow(q)
	if count == 0 {
		return []database.Item{}, nil
	}

	filter := database.ItemFilter{
		Categories: q.Categories,
		Tags:       q.Tags,
		ExcludeIDs: q.ExcludeIDs,
	}
	if q.SinceHours > 0 {
		since := b.now().Add(-time.Duration(q.SinceHours) * time.Hour)
		filter.PublishedAfter = &since
	}

	sort := database.SortMode(q.Sort)
	if sort == "" {
		sort = database.SortNewest
	}

	return b.store.FindItems(ctx, filter, sort, offset, count)
}
