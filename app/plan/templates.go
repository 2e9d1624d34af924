package plan

import (
	"context"
	"log/slog"

	"github.com/lysyi3m/page-comb/app/database"
	"github.com/lysyi3m/page-comb/app/section"
)

// Capacity defaults applied when a section leaves capacity unset.
const (
	defaultGridCapacity    = 9
	defaultGenericCapacity = 10
)

// defaultGridCategory is the hard fallback for grid sections when
// neither the section config nor the page context names a category.
const defaultGridCategory = "News"

// Zone sets of the two composite templates. Declaration order is the
// order zones consume the shared slice cursor; the priority lists drive
// manual pin partitioning.
var frontPageZones = []section.Zone{
	{Name: "top-strip", Limit: 4},
	{Name: "lead", Limit: 1},
	{Name: "right-stack", Limit: 2},
	{Name: "fresh-stories", Limit: 10},
	{Name: "popular", Limit: 10, Sort: "priority"},
}

var frontPagePriority = []string{"lead", "top-strip", "right-stack", "fresh-stories", "popular"}

var frontPageV2Zones = []section.Zone{
	{Name: "hero", Limit: 1},
	{Name: "side-stack", Limit: 3},
	{Name: "below-grid", Limit: 6},
	{Name: "trending", Limit: 10, Sort: "priority"},
}

var frontPageV2Priority = []string{"hero", "side-stack", "below-grid", "trending"}

// resolveSection dispatches on the template variant. Each variant
// terminates in exactly one shaping behavior; anything unrecognized
// resolves through the generic feed+pins path. A nil, nil return means
// the section is skipped.
func (b *Builder) resolveSection(ctx context.Context, cfg *section.Config, pageCategory string) (*ResolvedSection, error) {
	if cfg.Capacity < 0 {
		slog.Warn("Skipping section with negative capacity", "section", cfg.Name, "capacity", cfg.Capacity)
		return nil, nil
	}

	switch cfg.Template {
	case section.TemplatePromoImage, section.TemplatePromoCard:
		return resolvePromo(cfg), nil
	case section.TemplateGrid:
		return b.resolveGrid(ctx, cfg, pageCategory)
	case section.TemplateFrontPage:
		return b.resolveComposite(ctx, cfg, frontPageZones, frontPagePriority, pageCategory)
	case section.TemplateFrontPageV2:
		return b.resolveComposite(ctx, cfg, frontPageV2Zones, frontPageV2Priority, pageCategory)
	default:
		return b.resolveGeneric(ctx, cfg, pageCategory)
	}
}

// resolvePromo echoes the section's fixed custom payload. No query
// runs; capacity is always one slot.
func resolvePromo(cfg *section.Config) *ResolvedSection {
	return &ResolvedSection{
		Name:     cfg.Name,
		Title:    cfg.Title,
		Template: string(cfg.Template),
		Items:    []Item{},
		Custom: &CustomPayload{
			Title:    cfg.Custom.Title,
			ImageURL: cfg.Custom.ImageURL,
			LinkURL:  cfg.Custom.LinkURL,
		},
	}
}

// resolveGrid fills up to capacity items, pins first in mixed mode,
// and reshapes the ordered result into the hero/mid/heads presentation
// slices before flattening back into one list.
func (b *Builder) resolveGrid(ctx context.Context, cfg *section.Config, pageCategory string) (*ResolvedSection, error) {
	capacity := cfg.Capacity
	if capacity == 0 {
		capacity = defaultGridCapacity
	}
	if capacity > HardCap {
		capacity = HardCap
	}

	var items []database.Item

	if cfg.Feed.Mode == section.ModeManual || cfg.Feed.Mode == section.ModeMixed {
		pinned, err := b.resolvePins(ctx, cfg.Pins)
		if err != nil {
			return nil, err
		}
		if len(pinned) > capacity {
			pinned = pinned[:capacity]
		}
		items = pinned
	}

	if cfg.Feed.Mode != section.ModeManual && len(items) < capacity {
		exclude := make([]string, 0, len(items))
		for _, item := range items {
			exclude = append(exclude, item.ID)
		}

		auto, err := b.runQuery(ctx, Query{
			Categories: effectiveCategories(cfg.Feed.Categories, nil, pageCategory, []string{defaultGridCategory}),
			Tags:       cfg.Feed.Tags,
			SinceHours: cfg.Feed.SinceHours,
			SliceFrom:  cfg.Feed.SliceFrom,
			SliceTo:    cfg.Feed.SliceTo,
			Sort:       cfg.Feed.Sort,
			Limit:      capacity - len(items),
			ExcludeIDs: exclude,
		})
		if err != nil {
			return nil, err
		}
		items = append(items, auto...)
	}

	return &ResolvedSection{
		Name:     cfg.Name,
		Title:    cfg.Title,
		Template: string(cfg.Template),
		Items:    gridShape(projectItems(items)),
	}, nil
}

// gridShape slices the ordered list into the grid's fixed presentation
// regions (position 0 the hero, 1-2 the mid pair, the rest the heads
// row) and concatenates them back. The shape is a rendering hint; the
// order is unchanged.
func gridShape(items []Item) []Item {
	bound := func(n int) int {
		if n > len(items) {
			return len(items)
		}
		return n
	}
	hero := items[:bound(1)]
	mid := items[bound(1):bound(3)]
	heads := items[bound(3):]

	out := make([]Item, 0, len(items))
	out = append(out, hero...)
	out = append(out, mid...)
	out = append(out, heads...)
	return out
}

// resolveComposite produces a zone-name → items mapping. Auto mode
// walks the zones in declaration order, each consuming the next window
// of the shared ranked stream; manual and mixed modes partition the
// ordered pin list across zones in priority order, with mixed topping
// up each zone's deficit through an excluding query.
func (b *Builder) resolveComposite(ctx context.Context, cfg *section.Config, defaults []section.Zone, priority []string, pageCategory string) (*ResolvedSection, error) {
	zones := mergeZones(defaults, cfg.Custom.Zones)

	var out map[string][]Item
	var err error
	switch cfg.Feed.Mode {
	case section.ModeManual, section.ModeMixed:
		out, err = b.resolveCompositePinned(ctx, cfg, zones, priority, pageCategory)
	default:
		out, err = b.resolveCompositeAuto(ctx, cfg, zones, pageCategory)
	}
	if err != nil {
		return nil, err
	}

	return &ResolvedSection{
		Name:     cfg.Name,
		Title:    cfg.Title,
		Template: string(cfg.Template),
		Items:    []Item{},
		Zones:    out,
	}, nil
}

func (b *Builder) resolveCompositeAuto(ctx context.Context, cfg *section.Config, zones []section.Zone, pageCategory string) (map[string][]Item, error) {
	cursor := newSliceCursor(cfg.Feed.SliceFrom, cfg.Feed.SliceTo)
	selected := newDedupSet()
	out := make(map[string][]Item, len(zones))

	for _, zone := range zones {
		from, to := cursor.next(zone.Limit)

		q := zoneQuery(cfg, zone, pageCategory)
		q.SliceFrom = from
		q.SliceTo = to
		q.Limit = zone.Limit
		if cfg.Custom.Dedup {
			q.ExcludeIDs = selected.ids()
		}

		items, err := b.runQuery(ctx, q)
		if err != nil {
			return nil, err
		}
		if cfg.Custom.Dedup {
			selected.add(items)
		}
		out[zone.Name] = projectItems(items)
	}

	return out, nil
}

func (b *Builder) resolveCompositePinned(ctx context.Context, cfg *section.Config, zones []section.Zone, priority []string, pageCategory string) (map[string][]Item, error) {
	pinned, err := b.resolvePins(ctx, cfg.Pins)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]section.Zone, len(zones))
	for _, zone := range zones {
		byName[zone.Name] = zone
	}

	selected := newDedupSet()
	selected.add(pinned)

	out := make(map[string][]Item, len(zones))
	idx := 0
	for _, name := range priority {
		zone, ok := byName[name]
		if !ok {
			continue
		}

		take := zone.Limit
		if remaining := len(pinned) - idx; take > remaining {
			take = remaining
		}
		items := pinned[idx : idx+take]
		idx += take

		if cfg.Feed.Mode == section.ModeMixed && len(items) < zone.Limit {
			q := zoneQuery(cfg, zone, pageCategory)
			q.Limit = zone.Limit - len(items)
			q.ExcludeIDs = selected.ids()

			more, err := b.runQuery(ctx, q)
			if err != nil {
				return nil, err
			}
			selected.add(more)
			// Three-index slice so the append cannot scribble over the
			// pins still owed to later zones.
			items = append(pinned[idx-take : idx : idx], more...)
		}

		out[zone.Name] = projectItems(items)
	}

	return out, nil
}

// zoneQuery resolves a zone's query spec against its section's feed
// spec: zone-level values win, absent ones inherit.
func zoneQuery(cfg *section.Config, zone section.Zone, pageCategory string) Query {
	q := Query{
		Categories: effectiveCategories(zone.Categories, cfg.Feed.Categories, pageCategory, nil),
		Tags:       zone.Tags,
		SinceHours: zone.SinceHours,
		Sort:       zone.Sort,
	}
	if len(q.Tags) == 0 {
		q.Tags = cfg.Feed.Tags
	}
	if q.SinceHours == 0 {
		q.SinceHours = cfg.Feed.SinceHours
	}
	if q.Sort == "" {
		q.Sort = cfg.Feed.Sort
	}
	return q
}

// resolveGeneric is the catch-all: active pins first, then an auto
// query fills the remainder up to capacity. The auto query does not
// exclude pinned ids; an item that is both pinned and independently
// matched can appear twice. That asymmetry with the composite
// templates is long-standing observed behavior and is kept as is.
func (b *Builder) resolveGeneric(ctx context.Context, cfg *section.Config, pageCategory string) (*ResolvedSection, error) {
	capacity := cfg.Capacity
	if capacity == 0 {
		capacity = defaultGenericCapacity
	}
	if capacity > HardCap {
		capacity = HardCap
	}

	pinned, err := b.resolvePins(ctx, cfg.Pins)
	if err != nil {
		return nil, err
	}
	if len(pinned) > capacity {
		pinned = pinned[:capacity]
	}

	items := pinned
	if cfg.Feed.Mode != section.ModeManual && len(items) < capacity {
		auto, err := b.runQuery(ctx, Query{
			Categories: effectiveCategories(cfg.Feed.Categories, nil, pageCategory, nil),
			Tags:       cfg.Feed.Tags,
			SinceHours: cfg.Feed.SinceHours,
			SliceFrom:  cfg.Feed.SliceFrom,
			SliceTo:    cfg.Feed.SliceTo,
			Sort:       cfg.Feed.Sort,
			Limit:      capacity - len(items),
		})
		if err != nil {
			return nil, err
		}
		items = append(items, auto...)
	}

	if len(items) > capacity {
		items = items[:capacity]
	}

	return &ResolvedSection{
		Name:     cfg.Name,
		Title:    cfg.Title,
		Template: string(cfg.Template),
		Items:    projectItems(items),
	}, nil
}

// mergeZones applies per-name admin overrides onto a template's zone
// set. Zone identity and order come from the template; overrides for
// names the template does not define are ignored.
func mergeZones(defaults []section.Zone, overrides []section.Zone) []section.Zone {
	byName := make(map[string]section.Zone, len(overrides))
	for _, o := range overrides {
		byName[o.Name] = o
	}

	zones := make([]section.Zone, len(defaults))
	copy(zones, defaults)
	for i, zone := range zones {
		o, ok := byName[zone.Name]
		if !ok {
			continue
		}
		if o.Limit > 0 {
			zones[i].Limit = o.Limit
		}
		if len(o.Categories) > 0 {
			zones[i].Categories = o.Categories
		}
		if len(o.Tags) > 0 {
			zones[i].Tags = o.Tags
		}
		if o.SinceHours > 0 {
			zones[i].SinceHours = o.SinceHours
		}
		if o.Sort != "" {
			zones[i].Sort = o.Sort
		}
	}
	return zones
}
