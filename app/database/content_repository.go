package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var _ ContentRepository = (*contentRepository)(nil)

type contentRepository struct {
	db      *DB
	timeout time.Duration
}

// NewContentRepository creates a repository whose every call runs under
// the given per-query timeout.
func NewContentRepository(db *DB, timeout time.Duration) ContentRepository {
	return &contentRepository{db: db, timeout: timeout}
}

const itemColumns = `id, source, guid, COALESCE(link, ''), COALESCE(slug, ''),
	COALESCE(title, ''), COALESCE(summary, ''), COALESCE(content, ''),
	COALESCE(image_url, ''), COALESCE(category, ''), COALESCE(category_slug, ''),
	COALESCE(tags, ''), COALESCE(author, ''), priority, published, published_at,
	COALESCE(content_hash, ''), content_extracted_at,
	COALESCE(content_extraction_status, 'pending'), COALESCE(content_extraction_error, ''),
	created_at, updated_at`

// buildFilterClause turns an ItemFilter into a WHERE clause and its
// arguments. Only published items with a known publish time are ever
// visible to readers.
func buildFilterClause(filter ItemFilter) (string, []interface{}) {
	conds := []string{"published = 1", "published_at IS NOT NULL"}
	var args []interface{}

	if len(filter.Categories) > 0 {
		ph := placeholders(len(filter.Categories))
		conds = append(conds, fmt.Sprintf("(category IN (%s) OR category_slug IN (%s))", ph, ph))
		for i := 0; i < 2; i++ {
			for _, c := range filter.Categories {
				args = append(args, c)
			}
		}
	}

	if len(filter.Tags) > 0 {
		// Tags are stored comma-joined; match each as a whole token.
		ors := make([]string, 0, len(filter.Tags))
		for _, tag := range filter.Tags {
			ors = append(ors, "(',' || tags || ',') LIKE ?")
			args = append(args, "%,"+tag+",%")
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}

	if filter.PublishedAfter != nil {
		conds = append(conds, "published_at >= ?")
		args = append(args, filter.PublishedAfter.UTC())
	}

	if len(filter.IncludeIDs) > 0 {
		conds = append(conds, fmt.Sprintf("id IN (%s)", placeholders(len(filter.IncludeIDs))))
		for _, id := range filter.IncludeIDs {
			args = append(args, id)
		}
	}

	if len(filter.ExcludeIDs) > 0 {
		conds = append(conds, fmt.Sprintf("id NOT IN (%s)", placeholders(len(filter.ExcludeIDs))))
		for _, id := range filter.ExcludeIDs {
			args = append(args, id)
		}
	}

	return strings.Join(conds, " AND "), args
}

// sortClause maps a SortMode to a deterministic ORDER BY. The id
// tiebreaker keeps repeated builds byte-identical when publish times
// collide.
func sortClause(sort SortMode) string {
	switch sort {
	case SortOldest:
		return "published_at ASC, id ASC"
	case SortPriority:
		return "priority DESC, published_at DESC, id ASC"
	default:
		return "published_at DESC, id ASC"
	}
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func (r *contentRepository) FindItems(ctx context.Context, filter ItemFilter, sort SortMode, offset, limit int) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	where, args := buildFilterClause(filter)
	query := fmt.Sprintf(`SELECT %s FROM content_items WHERE %s ORDER BY %s LIMIT ? OFFSET ?`,
		itemColumns, where, sortClause(sort))
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError("find items", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func (r *contentRepository) FindByIDs(ctx context.Context, ids []string) ([]Item, error) {
	if len(ids) == 0 {
		return []Item{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	where, args := buildFilterClause(ItemFilter{IncludeIDs: ids})
	query := fmt.Sprintf(`SELECT %s FROM content_items WHERE %s`, itemColumns, where)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError("find by ids", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func (r *contentRepository) CountItems(ctx context.Context, filter ItemFilter) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	where, args := buildFilterClause(filter)
	var count int
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM content_items WHERE %s", where), args...).Scan(&count)
	if err != nil {
		return 0, storeError("count items", err)
	}
	return count, nil
}

func (r *contentRepository) GetItemStats(ctx context.Context) (int, int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var total, published int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       SUM(CASE WHEN published = 1 AND published_at IS NOT NULL THEN 1 ELSE 0 END)
		FROM content_items
	`).Scan(&total, &published)
	if err != nil {
		return 0, 0, storeError("item stats", err)
	}
	return total, published, nil
}

func (r *contentRepository) UpsertItem(ctx context.Context, source string, item IngestedItem) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO content_items (
			id, source, guid, link, slug, title, summary, content, image_url,
			category, category_slug, tags, author, published_at, content_hash
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (source, guid) DO UPDATE SET
			link = excluded.link,
			slug = excluded.slug,
			title = excluded.title,
			summary = excluded.summary,
			image_url = excluded.image_url,
			category = excluded.category,
			category_slug = excluded.category_slug,
			tags = excluded.tags,
			author = excluded.author,
			published_at = excluded.published_at,
			content_hash = excluded.content_hash,
			updated_at = CURRENT_TIMESTAMP
	`, uuid.NewString(), source, item.GUID, item.Link, item.Slug, item.Title,
		item.Summary, item.Content, item.ImageURL, item.Category, item.CategorySlug,
		strings.Join(item.Tags, ","), item.Author, item.PublishedAt, item.ContentHash)

	if err != nil {
		return storeError("upsert item", err)
	}
	return nil
}

func (r *contentRepository) GetItemsForExtraction(ctx context.Context, source string, limit int) ([]ItemForExtraction, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, COALESCE(link, '')
		FROM content_items
		WHERE source = ? AND content_extraction_status = 'pending' AND link != ''
		ORDER BY published_at DESC
		LIMIT ?
	`, source, limit)
	if err != nil {
		return nil, storeError("items for extraction", err)
	}
	defer rows.Close()

	var items []ItemForExtraction
	for rows.Next() {
		var item ItemForExtraction
		if err := rows.Scan(&item.ID, &item.Link); err != nil {
			return nil, fmt.Errorf("failed to scan extraction row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("items for extraction", err)
	}
	return items, nil
}

func (r *contentRepository) UpdateExtractionStatus(ctx context.Context, itemID string, status string, extractedAt *time.Time, errorMsg string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		UPDATE content_items
		SET content_extraction_status = ?, content_extracted_at = ?, content_extraction_error = ?
		WHERE id = ?
	`, status, extractedAt, errorMsg, itemID)
	if err != nil {
		return storeError("update extraction status", err)
	}
	return nil
}

func (r *contentRepository) UpdateExtractedContentAndStatus(ctx context.Context, itemID string, content string, status string, extractedAt *time.Time, errorMsg string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		UPDATE content_items
		SET content = ?, content_extraction_status = ?, content_extracted_at = ?, content_extraction_error = ?
		WHERE id = ?
	`, content, status, extractedAt, errorMsg, itemID)
	if err != nil {
		return storeError("update extracted content", err)
	}
	return nil
}

func scanItems(rows *sql.Rows) ([]Item, error) {
	var items []Item
	for rows.Next() {
		var item Item
		var tags string
		var publishedAt, extractedAt sql.NullTime
		err := rows.Scan(
			&item.ID, &item.Source, &item.GUID, &item.Link, &item.Slug,
			&item.Title, &item.Summary, &item.Content,
			&item.ImageURL, &item.Category, &item.CategorySlug,
			&tags, &item.Author, &item.Priority, &item.Published, &publishedAt,
			&item.ContentHash, &extractedAt,
			&item.ContentExtractionStatus, &item.ContentExtractionError,
			&item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		if tags != "" {
			item.Tags = strings.Split(tags, ",")
		}
		if publishedAt.Valid {
			t := publishedAt.Time
			item.PublishedAt = &t
		}
		if extractedAt.Valid {
			t := extractedAt.Time
			item.ContentExtractedAt = &t
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate item rows", err)
	}
	return items, nil
}

// storeError maps a low-level failure onto the store error taxonomy so
// callers can distinguish a timeout from an outage with errors.Is.
func storeError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, ErrStoreTimeout)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %v: %w", op, err, ErrStoreUnavailable)
}
