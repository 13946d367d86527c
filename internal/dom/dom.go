// Package dom is the small slice of the browser DOM the navigation widgets
// rely on, implemented over golang.org/x/net/html with cascadia selectors.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse reads an HTML document.
func Parse(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// ParseString is Parse for in-memory markup.
func ParseString(s string) (*html.Node, error) {
	return Parse(strings.NewReader(s))
}

// Render writes n and its subtree.
func Render(w io.Writer, n *html.Node) error {
	return html.Render(w, n)
}

// RenderString renders n to a string.
func RenderString(n *html.Node) string {
	var buf bytes.Buffer
	_ = html.Render(&buf, n)
	return buf.String()
}

// QueryAll returns the descendants of root matching m, in document order.
func QueryAll(root *html.Node, m cascadia.Matcher) []*html.Node {
	if root == nil {
		return nil
	}
	return cascadia.QueryAll(root, m)
}

// Query returns the first descendant of root matching m, or nil.
func Query(root *html.Node, m cascadia.Matcher) *html.Node {
	if root == nil {
		return nil
	}
	return cascadia.Query(root, m)
}

// Closest returns n or its nearest ancestor matching m.
func Closest(n *html.Node, m cascadia.Matcher) *html.Node {
	for ; n != nil; n = n.Parent {
		if m.Match(n) {
			return n
		}
	}
	return nil
}

// ByID returns the element whose id attribute equals id.
func ByID(root *html.Node, id string) *html.Node {
	return Query(root, idMatcher(id))
}

// Attr returns the value of the attribute key.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes an attribute if present.
func RemoveAttr(n *html.Node, key string) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		attrs = append(attrs, a)
	}
	n.Attr = attrs
}

// Classes returns the element's class list.
func Classes(n *html.Node) []string {
	v, _ := Attr(n, "class")
	return strings.Fields(v)
}

// HasClass reports whether cls is in the element's class list.
func HasClass(n *html.Node, cls string) bool {
	for _, c := range Classes(n) {
		if c == cls {
			return true
		}
	}
	return false
}

// AddClass adds cls if missing.
func AddClass(n *html.Node, cls string) {
	if HasClass(n, cls) {
		return
	}
	SetAttr(n, "class", strings.Join(append(Classes(n), cls), " "))
}

// RemoveClass removes cls if present. The class attribute is dropped when it
// becomes empty.
func RemoveClass(n *html.Node, cls string) {
	var kept []string
	for _, c := range Classes(n) {
		if c != cls {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		RemoveAttr(n, "class")
		return
	}
	SetAttr(n, "class", strings.Join(kept, " "))
}

// ToggleClass flips cls and reports whether it is now present.
func ToggleClass(n *html.Node, cls string) bool {
	if HasClass(n, cls) {
		RemoveClass(n, cls)
		return false
	}
	AddClass(n, cls)
	return true
}

// SetClass adds or removes cls.
func SetClass(n *html.Node, cls string, on bool) {
	if on {
		AddClass(n, cls)
	} else {
		RemoveClass(n, cls)
	}
}

// Text returns the concatenated text content of n, untrimmed.
func Text(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

// Hide sets an inline display:none.
func Hide(n *html.Node) {
	SetAttr(n, "style", "display: none")
}

// Element creates a detached element with the given attributes as key/value
// pairs.
func Element(tag string, kv ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for i := 0; i+1 < len(kv); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return n
}

// AppendText appends a text node to n.
func AppendText(n *html.Node, text string) {
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}
