package plan

// sliceCursor hands out disjoint, sequential windows of a single
// ranked content stream to the zones of a composite section. The
// cursor advances by the zone's configured limit, not by the number of
// items the zone's query actually returned, so a short result in one
// zone never makes a later zone re-read content already considered.
type sliceCursor struct {
	pos     int
	ceiling int // 0 = unbounded
}

func newSliceCursor(from, to int) *sliceCursor {
	if from < 1 {
		from = 1
	}
	return &sliceCursor{pos: from, ceiling: to}
}

// next returns the inclusive 1-based window for a zone of the given
// limit and advances the cursor past it. When the window would cross
// the global ceiling it is clamped; a window entirely past the ceiling
// comes back with to < from and resolves to nothing.
func (c *sliceCursor) next(limit int) (from, to int) {
	from = c.pos
	to = c.pos + limit - 1
	if c.ceiling > 0 && to > c.ceiling {
		to = c.ceiling
	}
	c.pos += limit
	return from, to
}
