package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/page-comb/app/cfg"
	"github.com/lysyi3m/page-comb/app/database"
	"github.com/lysyi3m/page-comb/app/feed"
	"github.com/lysyi3m/page-comb/app/section"
	"github.com/lysyi3m/page-comb/app/tasks"
)

const feedItemLimit = 50

func NewHandler(planBuilder PlanBuilderInterface, contentRepo database.ContentRepository,
	sectionCache *section.ConfigCache, sourceCache *feed.SourceCache,
	httpClient *http.Client, parser *feed.Parser,
	scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		planBuilder:  planBuilder,
		contentRepo:  contentRepo,
		generator:    feed.NewGenerator(),
		parser:       parser,
		httpClient:   httpClient,
		sectionCache: sectionCache,
		sourceCache:  sourceCache,
		scheduler:    scheduler,
	}
}

// GetPage resolves and returns the content plan for a target page.
// Store outages surface as errors rather than empty pages.
func (h *Handler) GetPage(c *gin.Context) {
	targetType := c.Param("type")
	targetValue := c.Param("value")

	result, err := h.planBuilder.BuildPlan(c.Request.Context(), targetType, targetValue)
	if err != nil {
		slog.Error("Plan build failed", "target_type", targetType, "target_value", targetValue, "error", err)
		status := http.StatusServiceUnavailable
		if errors.Is(err, database.ErrStoreTimeout) {
			status = http.StatusGatewayTimeout
		}
		c.JSON(status, gin.H{"error": "failed to build page plan"})
		return
	}

	c.Header("X-Section-Count", strconv.Itoa(len(result.Sections)))
	c.JSON(http.StatusOK, result)
}

// GetFeed renders the latest published items of a category as RSS.
func (h *Handler) GetFeed(c *gin.Context) {
	category := c.Param("category")
	if category == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	items, err := h.contentRepo.FindItems(c.Request.Context(),
		database.ItemFilter{Categories: []string{category}},
		database.SortNewest, 0, feedItemLimit)
	if err != nil {
		slog.Error("Database error", "operation", "get_feed_items", "category", category, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	displayName := category
	slug := feed.Slugify(category)
	if len(items) > 0 {
		displayName = items[0].Category
		slug = items[0].CategorySlug
	}

	rss, err := h.generator.Run(displayName, slug, items)
	if err != nil {
		slog.Error("RSS generation error", "category", category, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(items)))
	c.String(http.StatusOK, rss)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	health["loaded_sections"] = h.sectionCache.GetConfigCount()
	health["loaded_sources"] = h.sourceCache.GetSourceCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"sections": h.sectionCache.GetConfigCount(),
		"sources":  h.sourceCache.GetSourceCount(),
	}

	if total, published, err := h.contentRepo.GetItemStats(c.Request.Context()); err == nil {
		stats["items_total"] = total
		stats["items_published"] = published
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) APIListSections(c *gin.Context) {
	configs := h.sectionCache.GetConfigs()

	sections := make([]map[string]interface{}, 0, len(configs))
	for _, config := range configs {
		sections = append(sections, map[string]interface{}{
			"name":      config.Name,
			"title":     config.Title,
			"template":  string(config.Template),
			"capacity":  config.Capacity,
			"placement": config.Placement,
			"enabled":   config.Enabled,
			"target":    map[string]string{"type": config.Target.Type, "value": config.Target.Value},
			"mode":      config.Feed.Mode,
			"pins":      len(config.Pins),
		})
	}

	c.JSON(http.StatusOK, gin.H{"sections": sections, "count": len(sections)})
}

func (h *Handler) APIReloadSections(c *gin.Context) {
	loaded, err := h.sectionCache.Reload()
	if err != nil {
		slog.Error("Section reload failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reload sections"})
		return
	}

	slog.Info("Section configurations reloaded", "count", loaded)
	c.JSON(http.StatusOK, gin.H{"reloaded": loaded})
}

func (h *Handler) APIListSources(c *gin.Context) {
	configs := h.sourceCache.GetSources()

	sources := make([]map[string]interface{}, 0, len(configs))
	for _, source := range configs {
		sources = append(sources, map[string]interface{}{
			"name":             source.Name,
			"url":              source.URL,
			"category":         source.Category,
			"enabled":          source.Settings.Enabled,
			"refresh_interval": source.Settings.RefreshInterval,
			"extract_content":  source.Settings.ExtractContent,
		})
	}

	c.JSON(http.StatusOK, gin.H{"sources": sources, "count": len(sources)})
}

func (h *Handler) APIRefreshSource(c *gin.Context) {
	name := c.Param("name")

	source, err := h.sourceCache.GetSource(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "source not found"})
		return
	}

	task := tasks.NewFetchSourceTask(source.Name, source, h.httpClient, h.parser, h.contentRepo, cfg.Get().UserAgent)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Failed to enqueue refresh task", "source", name, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to enqueue refresh"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "refresh scheduled", "source": name})
}
