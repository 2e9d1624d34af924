package section

import (
	"time"
)

// Template selects how a section's pins and auto-selected items are
// merged and shaped. Any value outside the known set resolves through
// the generic feed+pins behavior.
type Template string

const (
	TemplatePromoImage  Template = "promo-image"
	TemplatePromoCard   Template = "promo-card"
	TemplateGrid        Template = "grid"
	TemplateFrontPage   Template = "front-page"
	TemplateFrontPageV2 Template = "front-page-v2"
	TemplateGeneric     Template = ""
)

// Feed selection modes.
const (
	ModeAuto   = "auto"
	ModeManual = "manual"
	ModeMixed  = "mixed"
)

// Config is one admin-configured layout slot, loaded from a YAML file
// in the sections directory. The engine treats it as read-only.
type Config struct {
	Name      string   // Derived from filename (without .yml extension)
	Title     string   `yaml:"title"`
	Template  Template `yaml:"template"`
	Capacity  int      `yaml:"capacity"`
	Placement int      `yaml:"placement"`
	Enabled   bool     `yaml:"enabled"`
	Target    Target   `yaml:"target"`
	Feed      Feed     `yaml:"feed"`
	Pins      []Pin    `yaml:"pins"`
	Custom    Custom   `yaml:"custom"`
}

// Target identifies the page a section belongs to.
type Target struct {
	Type  string `yaml:"type"`  // homepage, category, tag
	Value string `yaml:"value"` // e.g. category name; matched case-insensitively
}

// Feed defines how auto-selection queries the content store.
type Feed struct {
	Mode       string   `yaml:"mode"` // auto, manual, mixed (empty = auto)
	Categories []string `yaml:"categories"`
	Tags       []string `yaml:"tags"`
	SinceHours int      `yaml:"since_hours"`
	Sort       string   `yaml:"sort"` // newest, oldest, priority (empty = newest)
	SliceFrom  int      `yaml:"slice_from"`
	SliceTo    int      `yaml:"slice_to"`
}

// Pin is an ordered, optionally time-bounded reference to a content
// item. List order is authoritative display order.
type Pin struct {
	ItemID   string     `yaml:"item_id"`
	StartsAt *time.Time `yaml:"starts_at"`
	EndsAt   *time.Time `yaml:"ends_at"`
}

// Custom carries template-specific configuration: the fixed payload of
// the promo templates and the zone definitions of the composite ones.
type Custom struct {
	Title    string `yaml:"title"`
	ImageURL string `yaml:"image_url"`
	LinkURL  string `yaml:"link_url"`
	Dedup    bool   `yaml:"dedup"` // cross-zone deduplication for composite templates
	Zones    []Zone `yaml:"zones"`
}

// Zone is a named sub-region of a composite template with its own limit
// and optional query override.
type Zone struct {
	Name       string   `yaml:"name"`
	Limit      int      `yaml:"limit"`
	Categories []string `yaml:"categories"`
	Tags       []string `yaml:"tags"`
	SinceHours int      `yaml:"since_hours"`
	Sort       string   `yaml:"sort"`
}

// Modes and sorts accepted by validation.
var validModes = map[string]bool{
	"":         true,
	ModeAuto:   true,
	ModeManual: true,
	ModeMixed:  true,
}

var validSorts = map[string]bool{
	"":         true,
	"newest":   true,
	"oldest":   true,
	"priority": true,
}
