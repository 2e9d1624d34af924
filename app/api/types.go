package api

import (
	"context"
	"net/http"

	"github.com/lysyi3m/page-comb/app/database"
	"github.com/lysyi3m/page-comb/app/feed"
	"github.com/lysyi3m/page-comb/app/plan"
	"github.com/lysyi3m/page-comb/app/section"
	"github.com/lysyi3m/page-comb/app/tasks"
)

type PlanBuilderInterface interface {
	BuildPlan(ctx context.Context, targetType, targetValue string) (*plan.Plan, error)
}

var _ PlanBuilderInterface = (*plan.Builder)(nil)

type GeneratorInterface interface {
	Run(category string, categorySlug string, items []database.Item) (string, error)
}

var _ GeneratorInterface = (*feed.Generator)(nil)

type Handler struct {
	planBuilder  PlanBuilderInterface
	contentRepo  database.ContentRepository
	generator    GeneratorInterface
	parser       *feed.Parser
	httpClient   *http.Client
	sectionCache *section.ConfigCache
	sourceCache  *feed.SourceCache
	scheduler    tasks.TaskSchedulerInterface
}
