package taxonomy

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/ziadkadry99/blognav/internal/content"
)

// CategoryNode is a node of the category hierarchy. A post with categories
// [Programming, Go] sits under Programming > Go.
type CategoryNode struct {
	Name     string
	Path     string // slash-joined names from the root, e.g. "Programming/Go"
	Posts    []content.Post
	Children []*CategoryNode
}

// Count returns the number of posts at and below n.
func (n *CategoryNode) Count() int {
	c := len(n.Posts)
	for _, ch := range n.Children {
		c += ch.Count()
	}
	return c
}

// Names returns the names of the nodes below n in rendered order, parents
// before their children. These are the tree node ids RenderTree emits.
func (n *CategoryNode) Names() []string {
	var out []string
	for _, ch := range n.Children {
		out = append(out, ch.Name)
		out = append(out, ch.Names()...)
	}
	return out
}

// BuildCategoryTree constructs the hierarchy from each post's category
// path. Posts without categories are not placed in the tree.
func BuildCategoryTree(posts []content.Post) *CategoryNode {
	root := &CategoryNode{}

	for _, p := range posts {
		if len(p.Categories) == 0 {
			continue
		}
		current := root
		for i, part := range p.Categories {
			var next *CategoryNode
			for _, child := range current.Children {
				if child.Name == part {
					next = child
					break
				}
			}
			if next == nil {
				next = &CategoryNode{Name: part, Path: strings.Join(p.Categories[:i+1], "/")}
				current.Children = append(current.Children, next)
			}
			current = next
		}
		current.Posts = append(current.Posts, p)
	}

	sortTree(root)
	return root
}

// sortTree recursively sorts children by name.
func sortTree(node *CategoryNode) {
	sort.Slice(node.Children, func(i, j int) bool {
		return node.Children[i].Name < node.Children[j].Name
	})
	for _, child := range node.Children {
		sortTree(child)
	}
}

// RenderTree renders the hierarchy as the collapsible markup the tree
// state store binds to: each category is a .tree-node keyed by its
// data-parent name with a .tree-node-header toggle and its children and
// posts below.
func RenderTree(root *CategoryNode) string {
	var b strings.Builder
	b.WriteString(`<div class="category-tree">` + "\n")
	for _, child := range root.Children {
		renderNode(&b, child, 1)
	}
	b.WriteString("</div>\n")
	return b.String()
}

func renderNode(b *strings.Builder, n *CategoryNode, depth int) {
	indent := strings.Repeat("  ", depth)
	name := html.EscapeString(n.Name)
	fmt.Fprintf(b, `%s<div class="tree-node" data-parent="%s">`+"\n", indent, name)
	href := ""
	if seg := CategorySegment(n.Name); seg != "" {
		href = fmt.Sprintf(` href="/%s/%s/"`, CategoryDir, html.EscapeString(seg))
	}
	fmt.Fprintf(b, `%s  <div class="tree-node-header"><span class="tree-toggle"></span><a%s>%s</a> <span class="tree-count">(%d)</span></div>`+"\n",
		indent, href, name, n.Count())
	fmt.Fprintf(b, `%s  <div class="tree-node-children">`+"\n", indent)
	for _, child := range n.Children {
		renderNode(b, child, depth+2)
	}
	if len(n.Posts) > 0 {
		fmt.Fprintf(b, "%s    <ul class=\"tree-posts\">\n", indent)
		for _, p := range n.Posts {
			fmt.Fprintf(b, "%s      <li><a href=\"%s\">%s</a></li>\n", indent, html.EscapeString(p.URL), html.EscapeString(p.Title))
		}
		fmt.Fprintf(b, "%s    </ul>\n", indent)
	}
	fmt.Fprintf(b, "%s  </div>\n", indent)
	fmt.Fprintf(b, "%s</div>\n", indent)
}
