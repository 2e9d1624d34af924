package plan

import (
	"context"
	"time"

	"github.com/lysyi3m/page-comb/app/database"
	"github.com/lysyi3m/page-comb/app/section"
)

// activePins filters a pin list to entries whose activation window
// covers now, preserving the curator's order. An absent bound is
// unbounded on that side.
func activePins(pins []section.Pin, now time.Time) []section.Pin {
	active := make([]section.Pin, 0, len(pins))
	for _, pin := range pins {
		if pin.StartsAt != nil && pin.StartsAt.After(now) {
			continue
		}
		if pin.EndsAt != nil && pin.EndsAt.Before(now) {
			continue
		}
		active = append(active, pin)
	}
	return active
}

// resolvePins hydrates the currently active pins from the store in one
// call and re-emits them in pin-list order. Pins whose item is missing
// or unpublished are dropped silently; curation mistakes must not break
// a page.
func (b *Builder) resolvePins(ctx context.Context, pins []section.Pin) ([]database.Item, error) {
	active := activePins(pins, b.now())
	if len(active) == 0 {
		return []database.Item{}, nil
	}

	ids := make([]string, 0, len(active))
	for _, pin := range active {
		ids = append(ids, pin.ItemID)
	}

	fetched, err := b.store.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]database.Item, len(fetched))
	for _, item := range fetched {
		byID[item.ID] = item
	}

	items := make([]database.Item, 0, len(active))
	for _, pin := range active {
		if item, ok := byID[pin.ItemID]; ok {
			items = append(items, item)
		}
	}
	return items, nil
}
