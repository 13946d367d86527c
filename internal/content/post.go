package content

import (
	"bytes"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPermalink is Jekyll's "pretty" permalink style.
const DefaultPermalink = "/:categories/:year/:month/:day/:title/"

// DateLayout is the format of Record.Date.
const DateLayout = "2006-01-02"

// Post is a parsed source post: the record published to the index plus the
// taxonomy metadata the tag, category and series pages are derived from.
type Post struct {
	Record
	Slug       string
	Time       time.Time
	Categories []string
	Series     string
	Source     string
}

// stringList accepts either a YAML sequence or a whitespace-separated
// scalar, the two spellings Jekyll allows for tags and categories.
type stringList []string

func (l *stringList) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		*l = strings.Fields(n.Value)
	case yaml.SequenceNode:
		out := make([]string, 0, len(n.Content))
		for _, c := range n.Content {
			if c.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: expected a string", c.Line)
			}
			if v := strings.TrimSpace(c.Value); v != "" {
				out = append(out, v)
			}
		}
		*l = out
	default:
		return fmt.Errorf("line %d: expected a string or list", n.Line)
	}
	return nil
}

type frontMatter struct {
	Title      string     `yaml:"title"`
	Date       yaml.Node  `yaml:"date"`
	Tags       stringList `yaml:"tags"`
	Categories stringList `yaml:"categories"`
	Category   string     `yaml:"category"`
	Series     string     `yaml:"series"`
	Published  *bool      `yaml:"published"`
	Permalink  string     `yaml:"permalink"`
}

var filenamePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+?)(\.[^.]+)?$`)

var dateLayouts = []string{
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 -07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	DateLayout,
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// splitFrontMatter separates a leading "---" delimited YAML block from the
// body. Sources without front matter return a nil header.
func splitFrontMatter(src []byte) (header, body []byte) {
	src = bytes.TrimPrefix(src, []byte("\ufeff"))
	if !bytes.HasPrefix(src, []byte("---")) {
		return nil, src
	}
	rest := src[3:]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 || strings.TrimSpace(string(rest[:nl])) != "" {
		return nil, src
	}
	rest = rest[nl+1:]

	for off := 0; off <= len(rest); {
		end := bytes.IndexByte(rest[off:], '\n')
		line := rest[off:]
		if end >= 0 {
			line = rest[off : off+end]
		}
		if t := strings.TrimRight(string(line), "\r \t"); t == "---" || t == "..." {
			if end < 0 {
				return rest[:off], nil
			}
			return rest[:off], rest[off+end+1:]
		}
		if end < 0 {
			break
		}
		off += end + 1
	}
	return nil, src
}

// expandPermalink fills a Jekyll-style permalink pattern.
func expandPermalink(pattern string, p Post) string {
	cats := make([]string, 0, len(p.Categories))
	seen := make(map[string]bool)
	for _, c := range p.Categories {
		c = strings.ToLower(c)
		if !seen[c] {
			seen[c] = true
			cats = append(cats, c)
		}
	}

	r := strings.NewReplacer(
		":categories", strings.Join(cats, "/"),
		":year", p.Time.Format("2006"),
		":month", p.Time.Format("01"),
		":day", p.Time.Format("02"),
		":title", p.Slug,
	)
	url := r.Replace(pattern)

	trailing := strings.HasSuffix(url, "/")
	url = path.Clean("/" + url)
	if trailing && url != "/" {
		url += "/"
	}
	return url
}
