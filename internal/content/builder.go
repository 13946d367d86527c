package content

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"os"
	"path"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/ziadkadry99/blognav/internal/progress"
	"github.com/ziadkadry99/blognav/internal/walker"
)

// BuilderOptions configures a Builder.
type BuilderOptions struct {
	PostsDir  string
	Include   []string
	Exclude   []string
	Permalink string
	Reporter  progress.Reporter
}

// Builder turns a directory of markdown posts into index records. It is the
// build step that publishes search.json for the in-page search.
type Builder struct {
	opts   BuilderOptions
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewBuilder creates a Builder with GFM markdown rendering.
func NewBuilder(opts BuilderOptions) *Builder {
	if opts.Permalink == "" {
		opts.Permalink = DefaultPermalink
	}
	if opts.Reporter == nil {
		opts.Reporter = progress.Nop{}
	}
	return &Builder{
		opts:   opts,
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.StrictPolicy(),
	}
}

// Build parses every post under PostsDir and returns the published ones,
// newest first.
func (b *Builder) Build(ctx context.Context) ([]Post, error) {
	files, err := walker.Walk(walker.WalkerConfig{
		RootDir: b.opts.PostsDir,
		Include: b.opts.Include,
		Exclude: b.opts.Exclude,
	})
	if err != nil {
		return nil, fmt.Errorf("discovering posts: %w", err)
	}

	b.opts.Reporter.Start(len(files))
	defer b.opts.Reporter.Finish()

	posts := make([]Post, 0, len(files))
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b.opts.Reporter.Update(i+1, f.RelPath)

		src, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.RelPath, err)
		}
		post, ok, err := b.ParsePost(f.RelPath, src)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", f.RelPath, err)
		}
		if ok {
			posts = append(posts, post)
		}
	}

	SortNewestFirst(posts)
	return posts, nil
}

// ParsePost parses one post source. The boolean is false for posts marked
// `published: false`.
func (b *Builder) ParsePost(relPath string, src []byte) (Post, bool, error) {
	header, body := splitFrontMatter(src)

	var fm frontMatter
	if header != nil {
		if err := yaml.Unmarshal(header, &fm); err != nil {
			return Post{}, false, fmt.Errorf("front matter: %w", err)
		}
	}
	if fm.Published != nil && !*fm.Published {
		return Post{}, false, nil
	}

	base := path.Base(relPath)
	p := Post{Source: relPath}

	name := strings.TrimSuffix(base, path.Ext(base))
	if m := filenamePattern.FindStringSubmatch(base); m != nil {
		name = m[2]
		if t, err := parseDate(m[1]); err == nil {
			p.Time = t
		}
	}
	p.Slug = name

	if fm.Date.Value != "" {
		t, err := parseDate(fm.Date.Value)
		if err != nil {
			return Post{}, false, err
		}
		p.Time = t
	}

	p.Title = strings.TrimSpace(fm.Title)
	if p.Title == "" {
		p.Title = titleFromSlug(p.Slug)
	}

	p.Categories = append([]string{}, fm.Categories...)
	if fm.Category != "" {
		p.Categories = append(p.Categories, fm.Category)
	}
	p.Series = strings.TrimSpace(fm.Series)

	p.Tags = append([]string{}, fm.Tags...)
	if !p.Time.IsZero() {
		p.Date = p.Time.Format(DateLayout)
	}

	text, err := b.plainText(body)
	if err != nil {
		return Post{}, false, err
	}
	p.Content = text

	if fm.Permalink != "" {
		p.URL = expandPermalink(fm.Permalink, p)
	} else {
		p.URL = expandPermalink(b.opts.Permalink, p)
	}
	return p, true, nil
}

// plainText renders markdown and strips every tag, leaving single-spaced
// text suitable for substring search.
func (b *Builder) plainText(body []byte) (string, error) {
	var buf bytes.Buffer
	if err := b.md.Convert(body, &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	stripped := html.UnescapeString(b.policy.Sanitize(buf.String()))
	return strings.Join(strings.Fields(stripped), " "), nil
}

func titleFromSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// SortNewestFirst orders posts by date descending; ties keep source order.
func SortNewestFirst(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].Time.After(posts[j].Time) })
}

// Records projects posts onto the published index records.
func Records(posts []Post) []Record {
	out := make([]Record, len(posts))
	for i, p := range posts {
		out[i] = p.Record
		if out[i].Tags == nil {
			out[i].Tags = []string{}
		}
	}
	return out
}
