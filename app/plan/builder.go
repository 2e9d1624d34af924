package plan

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Builder resolves every enabled section of a target page, in
// placement order, into the final plan. It holds no per-build state:
// cursors and dedup sets are allocated per section per build, so
// concurrent builds for different requests are independent.
type Builder struct {
	store    ContentStore
	sections SectionSource
	now      func() time.Time
}

func NewBuilder(store ContentStore, sections SectionSource) *Builder {
	return &Builder{
		store:    store,
		sections: sections,
		now:      time.Now,
	}
}

var validTargetTypes = map[string]bool{
	"homepage": true,
	"category": true,
	"tag":      true,
}

// BuildPlan resolves the page identified by target type and value. An
// unrecognized target type falls back to the homepage rather than
// failing. Sections with configuration problems are skipped; store
// failures abort the whole build so the caller never receives a
// half-built page.
func (b *Builder) BuildPlan(ctx context.Context, targetType, targetValue string) (*Plan, error) {
	if !validTargetTypes[targetType] {
		slog.Warn("Unknown target type, defaulting to homepage", "target_type", targetType)
		targetType, targetValue = "homepage", ""
	}

	pageCategory := ""
	if targetType == "category" {
		pageCategory = targetValue
	}

	result := &Plan{
		TargetType:  targetType,
		TargetValue: targetValue,
		Sections:    []ResolvedSection{},
	}

	for _, cfg := range b.sections.GetEnabledSections(targetType, targetValue) {
		resolved, err := b.resolveSection(ctx, cfg, pageCategory)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve section %s: %w", cfg.Name, err)
		}
		if resolved == nil {
			continue
		}
		result.Sections = append(result.Sections, *resolved)
	}

	return result, nil
}
