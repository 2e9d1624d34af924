package database

import (
	"context"
	"time"
)

type ContentRepository interface {
	FindItems(ctx context.Context, filter ItemFilter, sort SortMode, offset, limit int) ([]Item, error)
	FindByIDs(ctx context.Context, ids []string) ([]Item, error)
	CountItems(ctx context.Context, filter ItemFilter) (int, error)
	GetItemStats(ctx context.Context) (total, published int, err error)

	UpsertItem(ctx context.Context, source string, item IngestedItem) error

	GetItemsForExtraction(ctx context.Context, source string, limit int) ([]ItemForExtraction, error)
	UpdateExtractionStatus(ctx context.Context, itemID string, status string, extractedAt *time.Time, errorMsg string) error
	UpdateExtractedContentAndStatus(ctx context.Context, itemID string, content string, status string, extractedAt *time.Time, errorMsg string) error
}
