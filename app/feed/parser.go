package feed

import (
	"bytes"
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"github.com/mmcdole/gofeed"

	"github.com/lysyi3m/page-comb/app/database"
)

// Parser turns a fetched feed document into store-ready content items,
// stamped with the source's category.
type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *Parser) Run(data []byte, source *Source) ([]database.IngestedItem, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]database.IngestedItem, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		normalized := p.normalizeItem(item, source)
		normalized.ContentHash = p.generateContentHash(normalized)
		items = append(items, normalized)
	}

	return items, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item, source *Source) database.IngestedItem {
	normalized := database.IngestedItem{
		GUID:         cmp.Or(item.GUID, item.Link),
		Link:         item.Link,
		Slug:         Slugify(item.Title),
		Title:        item.Title,
		Summary:      item.Description,
		Content:      item.Content,
		Category:     source.Category,
		CategorySlug: source.CategorySlug,
		Author:       cmp.Or(p.extractAuthor(item), source.Author),
	}

	if item.PublishedParsed != nil {
		normalized.PublishedAt = item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		normalized.PublishedAt = item.UpdatedParsed
	}

	if item.Image != nil {
		normalized.ImageURL = item.Image.URL
	} else if len(item.Enclosures) > 0 && item.Enclosures[0] != nil &&
		strings.HasPrefix(item.Enclosures[0].Type, "image/") {
		normalized.ImageURL = item.Enclosures[0].URL
	}

	for _, category := range item.Categories {
		if tag := strings.TrimSpace(category); tag != "" {
			normalized.Tags = append(normalized.Tags, tag)
		}
	}

	return normalized
}

func (p *Parser) generateContentHash(item database.IngestedItem) string {
	content := fmt.Sprintf("%s|%s", item.Title, item.Link)

	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

func (p *Parser) extractAuthor(item *gofeed.Item) string {
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		if name := strings.TrimSpace(item.Authors[0].Name); name != "" {
			return name
		}
		return strings.TrimSpace(item.Authors[0].Email)
	}
	if item.Author != nil {
		if name := strings.TrimSpace(item.Author.Name); name != "" {
			return name
		}
		return strings.TrimSpace(item.Author.Email)
	}
	return ""
}

// Slugify lowercases a title and reduces it to hyphen-separated
// alphanumeric runs, suitable for URLs.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
