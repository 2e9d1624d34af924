package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lysyi3m/page-comb/app/database"
	"github.com/lysyi3m/page-comb/app/feed"
)

type FetchSourceTask struct {
	Task
	Source      *feed.Source
	httpClient  *http.Client
	parser      *feed.Parser
	contentRepo database.ContentRepository
	userAgent   string
}

func NewFetchSourceTask(sourceName string, source *feed.Source, httpClient *http.Client, parser *feed.Parser, contentRepo database.ContentRepository, userAgent string) *FetchSourceTask {
	return &FetchSourceTask{
		Task:        NewTask(TaskTypeFetchSource, sourceName),
		Source:      source,
		httpClient:  httpClient,
		parser:      parser,
		contentRepo: contentRepo,
		userAgent:   userAgent,
	}
}

func (t *FetchSourceTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.Source.Settings.Enabled {
		slog.Debug("Source disabled, skipping", "source", t.SourceName)
		return nil
	}

	data, err := t.fetchSource(ctx, t.Source.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch source: %w", err)
	}

	items, err := t.parser.Run(data, t.Source)
	if err != nil {
		return fmt.Errorf("failed to parse source: %w", err)
	}

	if max := t.Source.Settings.MaxItems; len(items) > max {
		items = items[:max]
	}

	stored := 0
	skipped := 0
	for _, item := range items {
		if item.GUID == "" || item.Title == "" {
			skipped++
			continue
		}
		if err := t.contentRepo.UpsertItem(ctx, t.SourceName, item); err != nil {
			return fmt.Errorf("failed to upsert item: %w", err)
		}
		stored++
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"total", len(items),
		"stored", stored,
		"skipped", skipped)

	return nil
}

func (t *FetchSourceTask) fetchSource(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(t.Source.Settings.Timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
