package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/blognav/internal/dom"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// nested keys: BLOGNAV_SEARCH__DEBOUNCE sets search.debounce.
const EnvPrefix = "BLOGNAV_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (BLOGNAV_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: BLOGNAV_SITE_DIR -> site_dir, etc.
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validLogFormats is the set of recognized log_format values.
var validLogFormats = map[LogFormat]bool{
	LogText: true,
	LogJSON: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.SiteDir == "" {
		return fmt.Errorf("site_dir is required")
	}
	if c.PostsDir == "" {
		return fmt.Errorf("posts_dir is required")
	}
	if c.IndexFile == "" {
		return fmt.Errorf("index_file is required")
	}
	if !validLogFormats[c.LogFormat] {
		return fmt.Errorf("invalid log_format %q: must be one of text, json", c.LogFormat)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	if c.Search.MinQueryLength < 1 {
		return fmt.Errorf("search.min_query_length must be at least 1")
	}
	if c.Search.MaxResults < 1 {
		return fmt.Errorf("search.max_results must be at least 1")
	}
	if c.Search.ExcerptRadius < 0 {
		return fmt.Errorf("search.excerpt_radius must be non-negative")
	}
	if c.Search.Debounce <= 0 {
		return fmt.Errorf("search.debounce must be positive")
	}

	for key, sel := range map[string]string{
		"toc.content_selector":   c.TOC.ContentSelector,
		"toc.container_selector": c.TOC.ContainerSelector,
		"toc.sidebar_selector":   c.TOC.SidebarSelector,
		"toc.heading_selector":   c.TOC.HeadingSelector,
	} {
		if _, err := dom.Compile(sel); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
	}
	if c.TOC.MinHeadings < 1 {
		return fmt.Errorf("toc.min_headings must be at least 1")
	}
	if c.TOC.FrameInterval <= 0 {
		return fmt.Errorf("toc.frame_interval must be positive")
	}

	if c.Tree.StateKey == "" {
		return fmt.Errorf("tree.state_key is required")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	return nil
}

// IndexPath returns the location of the built content index.
func (c *Config) IndexPath() string {
	return filepath.Join(c.SiteDir, c.IndexFile)
}

// ParseLevel maps a log_level value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return l, nil
}
