package section

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ConfigCache loads section configurations from a directory of YAML
// files and serves them to the plan builder. Files are named
// <section>.yml; the filename becomes the section identity.
type ConfigCache struct {
	sectionsDir string
	cache       map[string]*Config
	mu          sync.RWMutex
}

func NewConfigCache(sectionsDir string) *ConfigCache {
	return &ConfigCache{
		sectionsDir: sectionsDir,
		cache:       make(map[string]*Config),
	}
}

// Run loads every section configuration found in the sections
// directory. A missing directory is not an error; a malformed file is.
func (cc *ConfigCache) Run() error {
	if _, err := os.Stat(cc.sectionsDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(cc.sectionsDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		fileName := filepath.Base(file)
		sectionName := strings.TrimSuffix(fileName, ".yml")

		config, err := cc.LoadConfig(sectionName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Section configuration loaded", "section", sectionName,
			"template", string(config.Template), "target", config.Target.Type,
			"enabled", config.Enabled)
	}

	return nil
}

// Reload re-reads every configuration file, replacing the cache.
// Malformed files are skipped with a warning so one bad edit does not
// take down the sections that still parse.
func (cc *ConfigCache) Reload() (int, error) {
	if _, err := os.Stat(cc.sectionsDir); os.IsNotExist(err) {
		return 0, nil
	}

	files, err := filepath.Glob(filepath.Join(cc.sectionsDir, "*.yml"))
	if err != nil {
		return 0, fmt.Errorf("failed to find YML files: %w", err)
	}

	loaded := 0
	fresh := make(map[string]*Config)
	for _, file := range files {
		sectionName := strings.TrimSuffix(filepath.Base(file), ".yml")

		config, err := cc.parseConfig(file)
		if err != nil {
			slog.Warn("Skipping malformed section configuration", "file", file, "error", err)
			continue
		}
		config.Name = sectionName
		if err := cc.validateConfig(config); err != nil {
			slog.Warn("Skipping invalid section configuration", "file", file, "error", err)
			continue
		}

		fresh[sectionName] = config
		loaded++
	}

	cc.mu.Lock()
	cc.cache = fresh
	cc.mu.Unlock()

	return loaded, nil
}

func (cc *ConfigCache) LoadConfig(sectionName string) (*Config, error) {
	configFile := cc.getConfigFilePath(sectionName)
	config, err := cc.parseConfig(configFile)
	if err != nil {
		return nil, err
	}

	config.Name = sectionName

	if err := cc.validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache[config.Name] = config

	return config, nil
}

func (cc *ConfigCache) GetConfig(sectionName string) (*Config, error) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	config, ok := cc.cache[sectionName]
	if !ok {
		return nil, fmt.Errorf("section config with name '%s' not found", sectionName)
	}
	return config, nil
}

func (cc *ConfigCache) GetConfigs() map[string]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	configsCopy := make(map[string]*Config, len(cc.cache))
	for k, v := range cc.cache {
		configsCopy[k] = v
	}
	return configsCopy
}

// GetEnabledSections returns the enabled sections targeting the given
// page, ordered by placement. The target value comparison is
// case-insensitive to tolerate admin input like "business" vs
// "Business".
func (cc *ConfigCache) GetEnabledSections(targetType, targetValue string) []*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	var sections []*Config
	for _, config := range cc.cache {
		if !config.Enabled {
			continue
		}
		if config.Target.Type != targetType {
			continue
		}
		if !strings.EqualFold(config.Target.Value, targetValue) {
			continue
		}
		sections = append(sections, config)
	}

	sort.Slice(sections, func(i, j int) bool {
		if sections[i].Placement != sections[j].Placement {
			return sections[i].Placement < sections[j].Placement
		}
		return sections[i].Name < sections[j].Name
	})

	return sections
}

func (cc *ConfigCache) GetConfigCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.cache)
}

func (cc *ConfigCache) parseConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if config.Target.Type == "" {
		config.Target.Type = "homepage"
	}

	return &config, nil
}

func (cc *ConfigCache) validateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("config is nil")
	}

	if config.Capacity < 0 {
		return fmt.Errorf("capacity must be non-negative")
	}
	if config.Feed.SliceFrom < 0 || config.Feed.SliceTo < 0 {
		return fmt.Errorf("slice bounds must be non-negative")
	}
	if config.Feed.SliceTo > 0 && config.Feed.SliceFrom > config.Feed.SliceTo {
		return fmt.Errorf("slice_from must not exceed slice_to")
	}
	if config.Feed.SinceHours < 0 {
		return fmt.Errorf("since_hours must be non-negative")
	}
	if !validModes[config.Feed.Mode] {
		return fmt.Errorf("invalid feed mode: %s", config.Feed.Mode)
	}
	if !validSorts[config.Feed.Sort] {
		return fmt.Errorf("invalid sort: %s", config.Feed.Sort)
	}

	for i, pin := range config.Pins {
		if pin.ItemID == "" {
			return fmt.Errorf("pin at index %d has no item_id", i)
		}
		if pin.StartsAt != nil && pin.EndsAt != nil && pin.EndsAt.Before(*pin.StartsAt) {
			return fmt.Errorf("pin at index %d ends before it starts", i)
		}
	}

	seen := make(map[string]bool)
	for i, zone := range config.Custom.Zones {
		if zone.Name == "" {
			return fmt.Errorf("zone at index %d has no name", i)
		}
		if seen[zone.Name] {
			return fmt.Errorf("duplicate zone name: %s", zone.Name)
		}
		seen[zone.Name] = true
		if zone.Limit <= 0 {
			return fmt.Errorf("zone %s must have a positive limit", zone.Name)
		}
		if !validSorts[zone.Sort] {
			return fmt.Errorf("zone %s has invalid sort: %s", zone.Name, zone.Sort)
		}
	}

	return nil
}

func (cc *ConfigCache) getConfigFilePath(sectionName string) string {
	return filepath.Join(cc.sectionsDir, sectionName+".yml")
}
