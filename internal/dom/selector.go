package dom

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Selector is a compiled CSS selector group, e.g.
// ".post-content, .cv-content" or `.tree-node[data-parent="Go"]`.
type Selector cascadia.SelectorGroup

// Compile parses a selector group.
func Compile(sel string) (Selector, error) {
	if strings.TrimSpace(sel) == "" {
		return nil, fmt.Errorf("selector %q: empty", sel)
	}
	group, err := cascadia.ParseGroup(sel)
	if err != nil {
		return nil, fmt.Errorf("selector %q: %w", sel, err)
	}
	return Selector(group), nil
}

// MustCompile is like Compile but panics on error. Use it for constants.
func MustCompile(sel string) Selector {
	s, err := Compile(sel)
	if err != nil {
		panic(err)
	}
	return s
}

// Match reports whether n matches any selector of the group.
func (s Selector) Match(n *html.Node) bool {
	return cascadia.SelectorGroup(s).Match(n)
}

// idMatcher matches the element whose id attribute equals the string.
// Ids are compared verbatim, so generated heading ids need no escaping.
type idMatcher string

func (m idMatcher) Match(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	id, ok := Attr(n, "id")
	return ok && id == string(m)
}
