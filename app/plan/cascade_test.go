package plan

import (
	"reflect"
	"testing"
)

func TestEffectiveCategories_ExplicitWins(t *testing.T) {
	got := effectiveCategories([]string{"Sports"}, []string{"Tech"}, "politics", []string{"News"})
	if !reflect.DeepEqual(got, []string{"Sports"}) {
		t.Errorf("Expected explicit categories to win, got %v", got)
	}
}

func TestEffectiveCategories_SectionWinsOverPageContext(t *testing.T) {
	got := effectiveCategories(nil, []string{"Tech"}, "politics", nil)
	if !reflect.DeepEqual(got, []string{"Tech"}) {
		t.Errorf("Expected section feed categories to win over page context, got %v", got)
	}
}

func TestEffectiveCategories_PageContextCapitalized(t *testing.T) {
	got := effectiveCategories(nil, nil, "business", nil)
	if !reflect.DeepEqual(got, []string{"business", "Business"}) {
		t.Errorf("Expected lowercase context plus capitalized variant, got %v", got)
	}
}

func TestEffectiveCategories_PageContextAlreadyCapitalized(t *testing.T) {
	got := effectiveCategories(nil, nil, "Business", nil)
	if !reflect.DeepEqual(got, []string{"Business"}) {
		t.Errorf("Expected no duplicate for already-capitalized context, got %v", got)
	}
}

func TestEffectiveCategories_HardDefault(t *testing.T) {
	got := effectiveCategories(nil, nil, "", []string{"News"})
	if !reflect.DeepEqual(got, []string{"News"}) {
		t.Errorf("Expected hard default, got %v", got)
	}
}

func TestEffectiveCategories_AllEmpty(t *testing.T) {
	got := effectiveCategories(nil, nil, "", nil)
	if len(got) != 0 {
		t.Errorf("Expected unfiltered query when all sources are absent, got %v", got)
	}
}
