package plan

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// effectiveCategories resolves the category filter for a query. The
// first non-empty source wins: explicit (zone-level) categories, then
// inherited (section-level) feed categories, then the page context
// category, then the template's hard default. The page-context entry is
// paired with its title-cased form so "business" also matches items
// categorized "Business". An empty result means no category filter.
func effectiveCategories(explicit, inherited []string, pageCategory string, fallback []string) []string {
	if len(explicit) > 0 {
		return explicit
	}
	if len(inherited) > 0 {
		return inherited
	}
	if pageCategory != "" {
		cats := []string{pageCategory}
		if titled := titleCaser.String(pageCategory); titled != pageCategory {
			cats = append(cats, titled)
		}
		return cats
	}
	return fallback
}
