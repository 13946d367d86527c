// Package search is the in-page search engine: case-insensitive substring
// filtering over the Content Index, excerpt windows around the first hit and
// <mark> highlighting.
package search

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/ziadkadry99/blognav/internal/content"
)

// Defaults for Options.
const (
	DefaultMinQueryLength = 2
	DefaultMaxResults     = 10
	DefaultExcerptRadius  = 75
	DefaultFallbackLength = 150
	Ellipsis              = "..."
)

// Field identifies which part of a record matched.
type Field uint8

const (
	FieldTitle Field = 1 << iota
	FieldContent
	FieldTag
)

// FieldSet is a set of Fields.
type FieldSet uint8

// Has reports whether f is in the set.
func (s FieldSet) Has(f Field) bool { return s&FieldSet(f) != 0 }

// State distinguishes a hidden panel from an empty search.
type State int

const (
	// StateIdle means the query is too short to search; the panel is hidden.
	StateIdle State = iota
	// StateNoResults means a search ran and matched nothing.
	StateNoResults
	// StateResults means at least one record matched.
	StateResults
)

func (s State) String() string {
	switch s {
	case StateNoResults:
		return "no_results"
	case StateResults:
		return "results"
	default:
		return "idle"
	}
}

// Result is one matched record prepared for display.
type Result struct {
	Record      *content.Record `json:"-"`
	Title       string          `json:"title"`
	URL         string          `json:"url"`
	Date        string          `json:"date"`
	Tags        []string        `json:"tags"`
	Excerpt     string          `json:"excerpt"`
	TitleHTML   string          `json:"title_html"`
	ExcerptHTML string          `json:"excerpt_html"`
	Matched     FieldSet        `json:"-"`
}

// Response is the outcome of one search. Total counts every match; Results
// holds at most MaxResults of them, in index order.
type Response struct {
	Query   string   `json:"query"`
	State   State    `json:"-"`
	Total   int      `json:"total"`
	Results []Result `json:"results"`
}

// Options tunes an Engine. Zero fields take the defaults.
type Options struct {
	MinQueryLength int
	MaxResults     int
	ExcerptRadius  int
	FallbackLength int
}

func (o *Options) defaults() {
	if o.MinQueryLength <= 0 {
		o.MinQueryLength = DefaultMinQueryLength
	}
	if o.MaxResults <= 0 {
		o.MaxResults = DefaultMaxResults
	}
	if o.ExcerptRadius <= 0 {
		o.ExcerptRadius = DefaultExcerptRadius
	}
	if o.FallbackLength <= 0 {
		o.FallbackLength = DefaultFallbackLength
	}
}

// Engine runs queries. It holds no per-query state and is safe to share.
type Engine struct {
	opts Options
}

// NewEngine creates an Engine.
func NewEngine(opts Options) *Engine {
	opts.defaults()
	return &Engine{opts: opts}
}

// Options returns the effective options.
func (e *Engine) Options() Options { return e.opts }

var defaultEngine = NewEngine(Options{})

// Search runs query against records with the default options.
func Search(query string, records []content.Record) Response {
	return defaultEngine.Search(query, records)
}

// Match returns every matching record with the default options.
func Match(query string, records []content.Record) []Result {
	return defaultEngine.Match(query, records)
}

// Excerpt returns the display excerpt of text around query with the default
// options, without highlighting.
func Excerpt(text, query string) string {
	return defaultEngine.Excerpt(text, query)
}

// Search matches query against records and prepares at most MaxResults of
// the matches for display.
func (e *Engine) Search(query string, records []content.Record) Response {
	resp := Response{Query: query, Results: []Result{}}
	if runeLen(query) < e.opts.MinQueryLength {
		resp.State = StateIdle
		return resp
	}

	matches := e.Match(query, records)
	resp.Total = len(matches)
	if len(matches) == 0 {
		resp.State = StateNoResults
		return resp
	}

	if len(matches) > e.opts.MaxResults {
		matches = matches[:e.opts.MaxResults]
	}
	hl := NewHighlighter(query)
	for i := range matches {
		r := &matches[i]
		r.Excerpt = e.Excerpt(r.Record.Content, query)
		r.TitleHTML = hl.Highlight(r.Title)
		r.ExcerptHTML = hl.Highlight(r.Excerpt)
	}
	resp.State = StateResults
	resp.Results = matches
	return resp
}

// Match returns every record matching query, in index order, with Matched
// set. Excerpts are not computed. Queries shorter than MinQueryLength match
// nothing.
func (e *Engine) Match(query string, records []content.Record) []Result {
	if runeLen(query) < e.opts.MinQueryLength {
		return nil
	}
	q := fold(query)

	var out []Result
	for i := range records {
		rec := &records[i]
		var set FieldSet
		if strings.Contains(fold(rec.Title), q) {
			set |= FieldSet(FieldTitle)
		}
		if strings.Contains(fold(rec.Content), q) {
			set |= FieldSet(FieldContent)
		}
		for _, tag := range rec.Tags {
			if strings.Contains(fold(tag), q) {
				set |= FieldSet(FieldTag)
				break
			}
		}
		if set == 0 {
			continue
		}
		tags := rec.Tags
		if tags == nil {
			tags = []string{}
		}
		out = append(out, Result{
			Record:  rec,
			Title:   rec.Title,
			URL:     rec.URL,
			Date:    rec.Date,
			Tags:    tags,
			Matched: set,
		})
	}
	return out
}

// Excerpt windows text around the first case-insensitive occurrence of
// query: ExcerptRadius runes either side, clamped, with an ellipsis on each
// truncated end. Without an occurrence it returns the first FallbackLength
// runes followed by an ellipsis.
func (e *Engine) Excerpt(text, query string) string {
	runes := []rune(text)
	idx := indexRunes(foldRunes(runes), foldRunes([]rune(query)))
	if idx < 0 || query == "" {
		end := min(len(runes), e.opts.FallbackLength)
		return string(runes[:end]) + Ellipsis
	}

	qlen := runeLen(query)
	start := max(0, idx-e.opts.ExcerptRadius)
	end := min(len(runes), idx+qlen+e.opts.ExcerptRadius)

	var b strings.Builder
	if start > 0 {
		b.WriteString(Ellipsis)
	}
	b.WriteString(string(runes[start:end]))
	if end < len(runes) {
		b.WriteString(Ellipsis)
	}
	return b.String()
}

// Highlighter wraps occurrences of one query in <mark>.
type Highlighter struct {
	re *regexp.Regexp
}

// NewHighlighter compiles a literal, case-insensitive pattern for query.
// Regex metacharacters in the query are escaped, so any input is safe.
func NewHighlighter(query string) *Highlighter {
	if query == "" {
		return &Highlighter{}
	}
	return &Highlighter{re: regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))}
}

// Highlight HTML-escapes text and wraps every occurrence of the query in
// <mark></mark>.
func (h *Highlighter) Highlight(text string) string {
	if h.re == nil {
		return html.EscapeString(text)
	}
	var b strings.Builder
	last := 0
	for _, loc := range h.re.FindAllStringIndex(text, -1) {
		b.WriteString(html.EscapeString(text[last:loc[0]]))
		b.WriteString("<mark>")
		b.WriteString(html.EscapeString(text[loc[0]:loc[1]]))
		b.WriteString("</mark>")
		last = loc[1]
	}
	b.WriteString(html.EscapeString(text[last:]))
	return b.String()
}

// Highlight is a one-shot helper around NewHighlighter.
func Highlight(text, query string) string {
	return NewHighlighter(query).Highlight(text)
}

// fold maps every rune to the smallest member of its simple case-folding
// orbit, the equivalence the highlighter's (?i) pattern uses. Folded and
// original strings have the same rune count, so offsets carry over.
func fold(s string) string {
	return strings.Map(foldRune, s)
}

func foldRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = foldRune(r)
	}
	return out
}

func foldRune(r rune) rune {
	m := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < m {
			m = f
		}
	}
	return m
}

func indexRunes(haystack, needle []rune) int {
	if len(needle) == 0 {
		return 0
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j, r := range needle {
			if haystack[i+j] != r {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func runeLen(s string) int { return len([]rune(s)) }
