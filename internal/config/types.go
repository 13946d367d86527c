package config

import "time"

// LogFormat selects the log handler.
type LogFormat string

const (
	LogText LogFormat = "text"
	LogJSON LogFormat = "json"
)

// Config is the top-level blognav configuration, corresponding to
// .blognav.yml.
type Config struct {
	SiteDir   string       `yaml:"site_dir" koanf:"site_dir"`
	PostsDir  string       `yaml:"posts_dir" koanf:"posts_dir"`
	IndexFile string       `yaml:"index_file" koanf:"index_file"`
	IndexURL  string       `yaml:"index_url" koanf:"index_url"`
	StateDB   string       `yaml:"state_db" koanf:"state_db"`
	LogFormat LogFormat    `yaml:"log_format" koanf:"log_format"`
	LogLevel  string       `yaml:"log_level" koanf:"log_level"`
	Include   []string     `yaml:"include" koanf:"include"`
	Exclude   []string     `yaml:"exclude" koanf:"exclude"`
	Permalink string       `yaml:"permalink" koanf:"permalink"`
	Search    SearchConfig `yaml:"search" koanf:"search"`
	TOC       TOCConfig    `yaml:"toc" koanf:"toc"`
	Tree      TreeConfig   `yaml:"tree" koanf:"tree"`
	Server    ServerConfig `yaml:"server" koanf:"server"`
}

// SearchConfig holds search engine and results panel settings.
type SearchConfig struct {
	MinQueryLength int           `yaml:"min_query_length" koanf:"min_query_length"`
	MaxResults     int           `yaml:"max_results" koanf:"max_results"`
	ExcerptRadius  int           `yaml:"excerpt_radius" koanf:"excerpt_radius"`
	Debounce       time.Duration `yaml:"debounce" koanf:"debounce"`
	NoResultsText  string        `yaml:"no_results_text" koanf:"no_results_text"`
}

// TOCConfig holds the table of contents anchors and scroll-spy tuning.
type TOCConfig struct {
	ContentSelector   string        `yaml:"content_selector" koanf:"content_selector"`
	ContainerSelector string        `yaml:"container_selector" koanf:"container_selector"`
	SidebarSelector   string        `yaml:"sidebar_selector" koanf:"sidebar_selector"`
	HeadingSelector   string        `yaml:"heading_selector" koanf:"heading_selector"`
	ActiveClass       string        `yaml:"active_class" koanf:"active_class"`
	ScrollOffset      float64       `yaml:"scroll_offset" koanf:"scroll_offset"`
	MinHeadings       int           `yaml:"min_headings" koanf:"min_headings"`
	FrameInterval     time.Duration `yaml:"frame_interval" koanf:"frame_interval"`
}

// TreeConfig holds category tree settings.
type TreeConfig struct {
	StateKey string `yaml:"state_key" koanf:"state_key"`
}

// ServerConfig holds the preview server settings.
type ServerConfig struct {
	Port           int      `yaml:"port" koanf:"port"`
	AllowAll       bool     `yaml:"allow_all" koanf:"allow_all"`
	AllowedOrigins []string `yaml:"allowed_origins" koanf:"allowed_origins"`
}
