package dom

import (
	"strings"
	"testing"
)

const page = `<!DOCTYPE html><html><body>
<nav id="post-toc"><div id="toc-content"></div></nav>
<article class="post-content main">
  <h2 id="intro">Intro</h2><p>text</p>
  <h3>Details <em>here</em></h3>
  <h4>skip</h4>
</article>
<ul>
  <li class="tree-node" data-parent="Programming"><span class="tree-node-header">Programming</span></li>
  <li class="tree-node collapsed" data-parent="Life"><span class="tree-node-header">Life</span></li>
</ul>
</body></html>`

func TestCompile(t *testing.T) {
	tests := []struct {
		sel     string
		wantErr bool
	}{
		{"h2, h3", false},
		{".post-content, .cv-content", false},
		{"#toc-content", false},
		{`.tree-node[data-parent="Go"]`, false},
		{"li.tree-node.collapsed", false},
		{"*[data-heading-id]", false},
		{"", true},
		{"a, ", true},
		{"nav > #toc-content", false},
		{"article h2 + p", false},
		{"div >", true},
		{"[data-x", true},
	}
	for _, tt := range tests {
		_, err := Compile(tt.sel)
		if (err != nil) != tt.wantErr {
			t.Errorf("Compile(%q) err = %v, wantErr %v", tt.sel, err, tt.wantErr)
		}
	}
}

func TestQueryAllDocumentOrder(t *testing.T) {
	doc, err := ParseString(page)
	if err != nil {
		t.Fatal(err)
	}
	content := Query(doc, MustCompile(".post-content, .cv-content"))
	if content == nil {
		t.Fatal("content container not found")
	}
	headings := QueryAll(content, MustCompile("h2, h3"))
	if len(headings) != 2 {
		t.Fatalf("headings = %d, want 2", len(headings))
	}
	if headings[0].Data != "h2" || headings[1].Data != "h3" {
		t.Errorf("order = %s, %s", headings[0].Data, headings[1].Data)
	}
	if got := strings.TrimSpace(Text(headings[1])); got != "Details here" {
		t.Errorf("Text = %q", got)
	}
}

func TestAttributeSelector(t *testing.T) {
	doc, _ := ParseString(page)
	n := Query(doc, MustCompile(`.tree-node[data-parent="Life"]`))
	if n == nil {
		t.Fatal("node not found")
	}
	if !HasClass(n, "collapsed") {
		t.Error("expected collapsed class")
	}
	if got := QueryAll(doc, MustCompile(".tree-node[data-parent]")); len(got) != 2 {
		t.Errorf("nodes with data-parent = %d, want 2", len(got))
	}
}

func TestCombinatorSelectors(t *testing.T) {
	doc, _ := ParseString(page)
	if Query(doc, MustCompile("nav > #toc-content")) == nil {
		t.Error("child combinator: #toc-content not found under nav")
	}
	if Query(doc, MustCompile("article > #toc-content")) != nil {
		t.Error("child combinator matched outside its parent")
	}
	p := Query(doc, MustCompile("article.post-content h2 + p"))
	if p == nil || Text(p) != "text" {
		t.Errorf("sibling combinator = %v", p)
	}
	if got := QueryAll(doc, MustCompile("ul .tree-node-header")); len(got) != 2 {
		t.Errorf("descendant combinator matched %d, want 2", len(got))
	}
}

func TestClassHelpers(t *testing.T) {
	n := Element("li", "class", "tree-node")
	AddClass(n, "collapsed")
	AddClass(n, "collapsed")
	if v, _ := Attr(n, "class"); v != "tree-node collapsed" {
		t.Errorf("class = %q", v)
	}
	if ToggleClass(n, "collapsed") {
		t.Error("toggle should remove collapsed")
	}
	RemoveClass(n, "tree-node")
	if _, ok := Attr(n, "class"); ok {
		t.Error("empty class attribute should be removed")
	}
}

func TestClosestAndByID(t *testing.T) {
	doc, _ := ParseString(page)
	header := Query(doc, MustCompile(".tree-node-header"))
	node := Closest(header, MustCompile(".tree-node"))
	if node == nil {
		t.Fatal("Closest returned nil")
	}
	if v, _ := Attr(node, "data-parent"); v != "Programming" {
		t.Errorf("data-parent = %q", v)
	}
	if ByID(doc, "toc-content") == nil {
		t.Error("ByID(toc-content) = nil")
	}
	if ByID(doc, "missing") != nil {
		t.Error("ByID(missing) should be nil")
	}
}

func TestElementRender(t *testing.T) {
	a := Element("a", "href", "#intro", "class", "toc-link")
	AppendText(a, "Intro & more")
	got := RenderString(a)
	want := `<a href="#intro" class="toc-link">Intro &amp; more</a>`
	if got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
}
