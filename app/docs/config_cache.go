package docs

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/hanulkim/blog-discovery/app/content"
)

// ConfigCache loads and caches per-document YAML configurations from the
// documents directory. One file per document kind, named <kind>.yml.
type ConfigCache struct {
	docsDir string
	cache   map[string]*Config
	mu      sync.RWMutex
}

func NewConfigCache(docsDir string) *ConfigCache {
	return &ConfigCache{
		docsDir: docsDir,
		cache:   make(map[string]*Config),
	}
}

func (cc *ConfigCache) Run() error {
	if _, err := os.Stat(cc.docsDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(cc.docsDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		fileName := filepath.Base(file)
		kind := fileName[:len(fileName)-4] // Remove .yml extension

		config, err := cc.LoadConfig(kind)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Document configuration loaded", "kind", kind, "enabled", config.Settings.Enabled, "sections", len(config.Sections))
	}

	return nil
}

func (cc *ConfigCache) LoadConfig(kind string) (*Config, error) {
	configFile := cc.getConfigFilePath(kind)
	docConfig, err := cc.parseConfig(configFile)
	if err != nil {
		return nil, err
	}

	// Set kind from parameter
	docConfig.Kind = kind

	if err := cc.validateConfig(docConfig); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	// Store in cache
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache[docConfig.Kind] = docConfig

	return docConfig, nil
}

func (cc *ConfigCache) GetConfig(kind string) (*Config, error) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	docConfig, ok := cc.cache[kind]
	if !ok {
		return nil, fmt.Errorf("document config with kind '%s' not found", kind)
	}
	return docConfig, nil
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

func (cc *ConfigCache) GetEnabledConfigs() map[string]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	enabledConfigs := make(map[string]*Config)
	for k, v := range cc.cache {
		if v.Settings.Enabled {
			enabledConfigs[k] = v
		}
	}
	return enabledConfigs
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

	var docConfig Config
	if err := yaml.Unmarshal(data, &docConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if docConfig.Settings.RefreshInterval == 0 {
		docConfig.Settings.RefreshInterval = 3600
	}
	if docConfig.Settings.SnippetLength == 0 {
		docConfig.Settings.SnippetLength = 100
	}
	for i := range docConfig.Sections {
		if docConfig.Sections[i].Limit == 0 {
			docConfig.Sections[i].Limit = 10
		}
		if docConfig.Sections[i].Order == "" {
			docConfig.Sections[i].Order = OrderPopular
		}
		if docConfig.Sections[i].WindowDays == 0 {
			docConfig.Sections[i].WindowDays = 28
		}
	}

	return &docConfig, nil
}

func (cc *ConfigCache) validateConfig(docConfig *Config) error {
	if docConfig == nil {
		return fmt.Errorf("docConfig is nil")
	}

	if docConfig.Title == "" {
		return fmt.Errorf("document title is required")
	}
	if len(docConfig.Sections) == 0 {
		return fmt.Errorf("at least one section is required")
	}

	nonNegativeFields := map[string]int{
		"refresh interval": docConfig.Settings.RefreshInterval,
		"snippet length":   docConfig.Settings.SnippetLength,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	for i, section := range docConfig.Sections {
		if section.Heading == "" {
			return fmt.Errorf("section at index %d is missing a heading", i)
		}
		if _, err := content.ParseType(section.Type); err != nil {
			return fmt.Errorf("invalid section type at index %d: %s", i, section.Type)
		}
		if section.Order != OrderPopular && section.Order != OrderRecent {
			return fmt.Errorf("invalid section order at index %d: %s", i, section.Order)
		}
		if section.Limit < 0 || section.WindowDays < 0 {
			return fmt.Errorf("section at index %d has negative limit or window", i)
		}
	}

	return nil
}

func (cc *ConfigCache) getConfigFilePath(kind string) string {
	return filepath.Join(cc.docsDir, kind+".yml")
}
