package feed

// Configuration types for external content sources. One YAML file per
// source in the sources directory; the filename is the source identity.

type Source struct {
	Name         string         // Derived from filename (without .yml extension)
	URL          string         `yaml:"url"`
	Category     string         `yaml:"category"`      // Display name stamped on ingested items
	CategorySlug string         `yaml:"category_slug"` // Defaults to a slugified category
	Author       string         `yaml:"author"`        // Fallback when the feed entry names no author
	Settings     SourceSettings `yaml:"settings"`
}

type SourceSettings struct {
	Enabled         bool `yaml:"enabled"`
	RefreshInterval int  `yaml:"refresh_interval"` // seconds
	MaxItems        int  `yaml:"max_items"`
	Timeout         int  `yaml:"timeout"`         // seconds, per fetch
	ExtractContent  bool `yaml:"extract_content"` // fetch article pages for full text
}
