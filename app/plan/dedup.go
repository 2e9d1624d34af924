package plan

import (
	"github.com/lysyi3m/page-comb/app/database"
)

// dedupSet tracks content identifiers already placed into a composite
// section so later zone queries can exclude them. Scope is one section
// within one build; it is never shared or persisted.
type dedupSet struct {
	seen  map[string]struct{}
	order []string
}

func newDedupSet() *dedupSet {
	return &dedupSet{seen: make(map[string]struct{})}
}

func (s *dedupSet) add(items []database.Item) {
	for _, item := range items {
		if _, ok := s.seen[item.ID]; ok {
			continue
		}
		s.seen[item.ID] = struct{}{}
		s.order = append(s.order, item.ID)
	}
}

// ids returns the excluded identifiers in insertion order, keeping
// repeated builds byte-identical.
func (s *dedupSet) ids() []string {
	return s.order
}
