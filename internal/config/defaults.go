package config

import "time"

// DefaultPath is the configuration file looked up by default.
const DefaultPath = ".blognav.yml"

// DefaultExcludes are glob patterns excluded from post discovery by default.
var DefaultExcludes = []string{
	"_drafts/**",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SiteDir:   "_site",
		PostsDir:  "_posts",
		IndexFile: "search.json",
		StateDB:   ".blognav/state.db",
		LogFormat: LogText,
		LogLevel:  "info",
		Include:   []string{"**/*.md", "**/*.markdown"},
		Exclude:   append([]string(nil), DefaultExcludes...),
		Permalink: "/:categories/:year/:month/:day/:title/",
		Search: SearchConfig{
			MinQueryLength: 2,
			MaxResults:     10,
			ExcerptRadius:  75,
			Debounce:       300 * time.Millisecond,
			NoResultsText:  "검색 결과가 없습니다.",
		},
		TOC: TOCConfig{
			ContentSelector:   ".post-content, .cv-content",
			ContainerSelector: "#toc-content",
			SidebarSelector:   "#post-toc, #cv-toc",
			HeadingSelector:   "h2, h3",
			ActiveClass:       "active",
			ScrollOffset:      100,
			MinHeadings:       2,
			FrameInterval:     16 * time.Millisecond,
		},
		Tree: TreeConfig{
			StateKey: "categoryTreeState",
		},
		Server: ServerConfig{
			Port: 4000,
		},
	}
}
