package tree

import (
	"golang.org/x/net/html"

	"github.com/ziadkadry99/blognav/internal/dom"
)

// CollapsedClass marks a collapsed .tree-node.
const CollapsedClass = "collapsed"

var (
	nodeSelector   = dom.MustCompile(".tree-node")
	headerSelector = dom.MustCompile(".tree-node-header")
)

// Document binds a Tree to the .tree-node elements of a parsed page. Each
// node's id is its data-parent attribute; the collapsed class follows the
// node state.
type Document struct {
	*Tree
	elems []*html.Node
}

// FromDocument collects the tree nodes of doc and makes their headers
// focusable. A page without tree nodes yields an empty Document.
func FromDocument(doc *html.Node, store KeyValueStore, opts Options) *Document {
	d := &Document{}
	var nodes []Node
	for _, el := range dom.QueryAll(doc, nodeSelector) {
		id, _ := dom.Attr(el, "data-parent")
		nodes = append(nodes, Node{ID: id, Collapsed: dom.HasClass(el, CollapsedClass)})
		d.elems = append(d.elems, el)
	}
	for _, h := range dom.QueryAll(doc, headerSelector) {
		dom.SetAttr(h, "tabindex", "0")
	}

	user := opts.OnChange
	opts.OnChange = func(i int, n Node) {
		dom.SetClass(d.elems[i], CollapsedClass, n.Collapsed)
		if user != nil {
			user(i, n)
		}
	}
	d.Tree = New(nodes, store, opts)
	return d
}

// Sync writes every node's state back to its element.
func (d *Document) Sync() {
	for i, n := range d.Tree.Nodes() {
		dom.SetClass(d.elems[i], CollapsedClass, n.Collapsed)
	}
}

// ToggleHeader toggles the node owning header, as a click on it would.
func (d *Document) ToggleHeader(header *html.Node) (bool, error) {
	el := dom.Closest(header, nodeSelector)
	for i, e := range d.elems {
		if e == el {
			return d.ToggleAt(i)
		}
	}
	return false, ErrUnknownNode
}
