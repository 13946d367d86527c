// Package taxonomy derives the category, tag and series pages of the blog
// from post metadata.
package taxonomy

import (
	"path"
	"sort"
	"strings"
	"unicode"

	"github.com/ziadkadry99/blognav/internal/content"
)

// Kind is a taxonomy dimension.
type Kind string

const (
	KindCategory Kind = "category"
	KindTag      Kind = "tag"
	KindSeries   Kind = "series"
)

// Default page directories.
const (
	CategoryDir = "categories"
	TagDir      = "tags"
	SeriesDir   = "series"
)

// Page is one generated taxonomy page. Dir is site-relative; the page is
// written to Dir/index.html.
type Page struct {
	Kind  Kind           `json:"kind"`
	Name  string         `json:"name"`
	Slug  string         `json:"slug"`
	Dir   string         `json:"dir"`
	Title string         `json:"title"`
	Posts []content.Post `json:"-"`
}

// URL returns the page's site-relative URL.
func (p Page) URL() string { return "/" + p.Dir + "/" }

// Slugify lower-cases s and replaces every run of runes that are neither
// letters nor digits with a single '-', trimming '-' at both ends.
func Slugify(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

// Categories returns one page per category, named as written, in name
// order. Posts keep their input order.
func Categories(posts []content.Post) []Page {
	return group(posts, KindCategory, func(p content.Post) []string { return p.Categories })
}

// Tags returns one page per tag. The directory uses the tag's slug.
func Tags(posts []content.Post) []Page {
	return group(posts, KindTag, func(p content.Post) []string { return p.Tags })
}

// Series returns one page per series. Its posts are in reading order,
// oldest first.
func Series(posts []content.Post) []Page {
	pages := group(posts, KindSeries, func(p content.Post) []string {
		if p.Series == "" {
			return nil
		}
		return []string{p.Series}
	})
	for _, pg := range pages {
		sort.SliceStable(pg.Posts, func(i, j int) bool { return pg.Posts[i].Time.Before(pg.Posts[j].Time) })
	}
	return pages
}

// All returns the category, tag and series pages, in that order.
func All(posts []content.Post) []Page {
	var out []Page
	out = append(out, Categories(posts)...)
	out = append(out, Tags(posts)...)
	out = append(out, Series(posts)...)
	return out
}

func group(posts []content.Post, kind Kind, keys func(content.Post) []string) []Page {
	byName := make(map[string]*Page)
	var names []string
	for _, p := range posts {
		seen := make(map[string]bool)
		for _, name := range keys(p) {
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			pg, ok := byName[name]
			if !ok {
				pg = newPage(kind, name)
				byName[name] = pg
				if pg != nil {
					names = append(names, name)
				}
			}
			if pg != nil {
				pg.Posts = append(pg.Posts, p)
			}
		}
	}

	sort.Strings(names)
	out := make([]Page, 0, len(names))
	for _, n := range names {
		out = append(out, *byName[n])
	}
	return out
}

// CategorySegment returns the directory name of a category page: the name
// as written when it is a single plain path segment, its slug otherwise.
// It returns "" when neither is usable.
func CategorySegment(name string) string {
	if name != "." && name != ".." && !strings.ContainsAny(name, "/\\\x00") {
		return name
	}
	return Slugify(name)
}

func newPage(kind Kind, name string) *Page {
	pg := &Page{Kind: kind, Name: name, Slug: Slugify(name)}
	seg := pg.Slug
	if kind == KindCategory {
		seg = CategorySegment(name)
	}
	if seg == "" {
		return nil
	}
	switch kind {
	case KindCategory:
		pg.Dir = path.Join(CategoryDir, seg)
		pg.Title = "카테고리: " + name
	case KindTag:
		pg.Dir = path.Join(TagDir, pg.Slug)
		pg.Title = "태그: " + name
	case KindSeries:
		pg.Dir = path.Join(SeriesDir, pg.Slug)
		pg.Title = "시리즈: " + name
	}
	return pg
}
