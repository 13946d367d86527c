package toc

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/ziadkadry99/blognav/internal/dom"
)

// Default selectors of the post layout.
const (
	DefaultContentSelector   = ".post-content, .cv-content"
	DefaultContainerSelector = "#toc-content"
	DefaultSidebarSelector   = "#post-toc, #cv-toc"
	DefaultHeadingSelector   = "h2, h3"
	DefaultActiveClass       = "active"
)

// ErrNoAnchors means the page lacks the content, TOC container or sidebar
// element. Pages without a TOC widget are expected; callers should skip them.
var ErrNoAnchors = errors.New("toc: page has no toc anchors")

// Link is one TOC entry.
type Link struct {
	HeadingID string
	Href      string
	Text      string
	Level     Level
	Active    bool
}

// TOC is the link model. It implements Links: at most one link is active.
type TOC struct {
	Links []Link
}

// NewTOC builds one link per heading.
func NewTOC(headings []Heading) *TOC {
	t := &TOC{Links: make([]Link, len(headings))}
	for i, h := range headings {
		t.Links[i] = Link{HeadingID: h.ID, Href: "#" + h.ID, Text: h.Text, Level: h.Level}
	}
	return t
}

// Activate marks the link for id active and clears every other one.
func (t *TOC) Activate(id string) {
	for i := range t.Links {
		t.Links[i].Active = id != "" && t.Links[i].HeadingID == id
	}
}

// ActiveID returns the active link's heading id, or "".
func (t *TOC) ActiveID() string {
	for _, l := range t.Links {
		if l.Active {
			return l.HeadingID
		}
	}
	return ""
}

// PageOptions selects the DOM anchors of a page. Empty fields take the
// defaults.
type PageOptions struct {
	ContentSelector   string
	ContainerSelector string
	SidebarSelector   string
	HeadingSelector   string
	ActiveClass       string
	MinHeadings       int
}

func (o *PageOptions) defaults() {
	if o.ContentSelector == "" {
		o.ContentSelector = DefaultContentSelector
	}
	if o.ContainerSelector == "" {
		o.ContainerSelector = DefaultContainerSelector
	}
	if o.SidebarSelector == "" {
		o.SidebarSelector = DefaultSidebarSelector
	}
	if o.HeadingSelector == "" {
		o.HeadingSelector = DefaultHeadingSelector
	}
	if o.ActiveClass == "" {
		o.ActiveClass = DefaultActiveClass
	}
	if o.MinHeadings <= 0 {
		o.MinHeadings = DefaultMinHeadings
	}
}

// Page is a parsed post with its TOC injected. It implements Links by
// mirroring the active state onto the rendered a.toc-link elements.
type Page struct {
	Doc      *html.Node
	Headings []Heading
	TOC      *TOC

	elems       []*html.Node
	links       []*html.Node
	activeClass string
}

// NewPage finds the anchors of doc, assigns heading ids in the DOM and
// appends the TOC list to the container. With fewer than MinHeadings
// headings it hides the sidebar and returns ErrTooFewHeadings alongside the
// page; with missing anchors it leaves doc untouched and returns
// ErrNoAnchors.
func NewPage(doc *html.Node, opts PageOptions) (*Page, error) {
	opts.defaults()
	sels := make([]dom.Selector, 4)
	for i, s := range []string{opts.ContentSelector, opts.ContainerSelector, opts.SidebarSelector, opts.HeadingSelector} {
		sel, err := dom.Compile(s)
		if err != nil {
			return nil, fmt.Errorf("toc: %w", err)
		}
		sels[i] = sel
	}

	contentEl := dom.Query(doc, sels[0])
	container := dom.Query(doc, sels[1])
	sidebar := dom.Query(doc, sels[2])
	if contentEl == nil || container == nil || sidebar == nil {
		return nil, ErrNoAnchors
	}

	p := &Page{Doc: doc, activeClass: opts.ActiveClass}
	for i, el := range dom.QueryAll(contentEl, sels[3]) {
		lvl, err := ParseLevel(el.Data)
		if err != nil {
			continue
		}
		id, _ := dom.Attr(el, "id")
		p.Headings = append(p.Headings, Heading{ID: id, Level: lvl, Text: dom.Text(el), Index: i})
		p.elems = append(p.elems, el)
	}

	if len(p.Headings) < opts.MinHeadings {
		dom.Hide(sidebar)
		return p, fmt.Errorf("%w: have %d, need %d", ErrTooFewHeadings, len(p.Headings), opts.MinHeadings)
	}

	AssignIDs(p.Headings)
	for i, h := range p.Headings {
		dom.SetAttr(p.elems[i], "id", h.ID)
	}

	p.TOC = NewTOC(p.Headings)
	list := dom.Element("ul", "class", "toc-list")
	for _, l := range p.TOC.Links {
		li := dom.Element("li", "class", "toc-item toc-"+l.Level.String())
		a := dom.Element("a", "href", l.Href, "class", "toc-link", "data-heading-id", l.HeadingID)
		dom.AppendText(a, l.Text)
		li.AppendChild(a)
		list.AppendChild(li)
		p.links = append(p.links, a)
	}
	container.AppendChild(list)
	return p, nil
}

// Activate sets the active class on the link for id only.
func (p *Page) Activate(id string) {
	if p.TOC == nil {
		return
	}
	p.TOC.Activate(id)
	for i, a := range p.links {
		dom.SetClass(a, p.activeClass, p.TOC.Links[i].Active)
	}
}

// StaticLayout is a fixed Layout, used for previews and tests.
type StaticLayout struct {
	Y    float64
	Tops map[string]float64
}

func (l *StaticLayout) ScrollY() float64 { return l.Y }

func (l *StaticLayout) HeadingTop(id string) (float64, bool) {
	top, ok := l.Tops[id]
	return top, ok
}

func (l *StaticLayout) ScrollTo(y float64) { l.Y = y }

// EstimateLayout approximates heading tops for a page without a renderer:
// each heading sits lineHeight below the text that precedes it, wrapped at
// lineRunes runes per line.
func EstimateLayout(p *Page, lineHeight float64, lineRunes int) *StaticLayout {
	if lineRunes <= 0 {
		lineRunes = 80
	}
	l := &StaticLayout{Tops: make(map[string]float64, len(p.Headings))}
	if len(p.elems) == 0 {
		return l
	}

	i := 0
	lines := 0
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if i < len(p.elems) && n == p.elems[i] {
			l.Tops[p.Headings[i].ID] = float64(lines) * lineHeight
			i++
		}
		if n.Type == html.TextNode {
			if runes := len([]rune(strings.TrimSpace(n.Data))); runes > 0 {
				lines += (runes + lineRunes - 1) / lineRunes
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(p.Doc)
	return l
}
