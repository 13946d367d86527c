package taxonomy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ziadkadry99/blognav/internal/content"
	"github.com/ziadkadry99/blognav/internal/dom"
	"github.com/ziadkadry99/blognav/internal/tree"
)

func post(title, date string, categories, tags []string, series string) content.Post {
	tm, _ := time.Parse(content.DateLayout, date)
	return content.Post{
		Record:     content.Record{Title: title, URL: "/" + strings.ToLower(title) + "/", Date: date, Tags: tags},
		Time:       tm,
		Categories: categories,
		Series:     series,
	}
}

func samplePosts() []content.Post {
	return []content.Post{
		post("Generics", "2024-02-03", []string{"Programming", "Go"}, []string{"go", "Go Tips"}, "Go 101"),
		post("Modules", "2024-01-10", []string{"Programming", "Go"}, []string{"go"}, "Go 101"),
		post("Rust", "2023-12-01", []string{"Programming", "Rust"}, nil, ""),
		post("Walk", "2023-05-06", []string{"Life"}, []string{"일상"}, ""),
		post("Orphan", "2023-01-01", nil, nil, ""),
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Go Tips", "go-tips"},
		{"  C++ & Rust!! ", "c-rust"},
		{"제네릭 입문", "제네릭-입문"},
		{"already-slug", "already-slug"},
		{"---", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCategories(t *testing.T) {
	pages := Categories(samplePosts())
	var names []string
	for _, p := range pages {
		names = append(names, p.Name)
	}
	if got := strings.Join(names, ","); got != "Go,Life,Programming,Rust" {
		t.Fatalf("categories = %s", got)
	}
	prog := pages[2]
	if prog.Dir != "categories/Programming" || prog.Title != "카테고리: Programming" {
		t.Errorf("page = %+v", prog)
	}
	if len(prog.Posts) != 3 {
		t.Errorf("Programming posts = %d, want 3", len(prog.Posts))
	}
	if prog.URL() != "/categories/Programming/" {
		t.Errorf("url = %q", prog.URL())
	}
}

func TestTags(t *testing.T) {
	pages := Tags(samplePosts())
	byName := make(map[string]Page)
	for _, p := range pages {
		byName[p.Name] = p
	}
	tips := byName["Go Tips"]
	if tips.Dir != "tags/go-tips" || tips.Title != "태그: Go Tips" {
		t.Errorf("Go Tips page = %+v", tips)
	}
	if len(byName["go"].Posts) != 2 {
		t.Errorf("go posts = %d, want 2", len(byName["go"].Posts))
	}
	if byName["일상"].Dir != "tags/일상" {
		t.Errorf("korean tag dir = %q", byName["일상"].Dir)
	}
}

func TestSeriesOldestFirst(t *testing.T) {
	pages := Series(samplePosts())
	if len(pages) != 1 {
		t.Fatalf("series = %d, want 1", len(pages))
	}
	s := pages[0]
	if s.Dir != "series/go-101" || s.Title != "시리즈: Go 101" {
		t.Errorf("series page = %+v", s)
	}
	if s.Posts[0].Title != "Modules" || s.Posts[1].Title != "Generics" {
		t.Errorf("series order = %s, %s", s.Posts[0].Title, s.Posts[1].Title)
	}
}

func TestBuildCategoryTree(t *testing.T) {
	root := BuildCategoryTree(samplePosts())
	if len(root.Children) != 2 {
		t.Fatalf("top-level = %d, want 2", len(root.Children))
	}
	life, prog := root.Children[0], root.Children[1]
	if life.Name != "Life" || prog.Name != "Programming" {
		t.Errorf("order = %s, %s", life.Name, prog.Name)
	}
	if prog.Count() != 3 || len(prog.Posts) != 0 {
		t.Errorf("Programming count = %d, direct = %d", prog.Count(), len(prog.Posts))
	}
	if prog.Children[0].Path != "Programming/Go" || len(prog.Children[0].Posts) != 2 {
		t.Errorf("Go node = %+v", prog.Children[0])
	}
}

func TestRenderTreeBindsToTreeStore(t *testing.T) {
	out := RenderTree(BuildCategoryTree(samplePosts()))
	doc, err := dom.ParseString(out)
	if err != nil {
		t.Fatal(err)
	}

	store := tree.NewMemoryStore()
	d := tree.FromDocument(doc, store, tree.Options{})
	var ids []string
	for _, n := range d.Nodes() {
		ids = append(ids, n.ID)
	}
	if got := strings.Join(ids, ","); got != "Life,Programming,Go,Rust" {
		t.Fatalf("tree nodes = %s", got)
	}
	if got := strings.Join(BuildCategoryTree(samplePosts()).Names(), ","); got != strings.Join(ids, ",") {
		t.Errorf("Names() = %s, want the rendered order", got)
	}
	if _, err := d.Toggle("Programming"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dom.RenderString(doc), `<div class="tree-node collapsed" data-parent="Programming">`) {
		t.Error("toggled node should carry the collapsed class")
	}
}

func TestWritePages(t *testing.T) {
	dir := t.TempDir()
	posts := samplePosts()
	pages := All(posts)
	n, err := WritePages(dir, pages, BuildCategoryTree(posts))
	if err != nil {
		t.Fatalf("WritePages: %v", err)
	}
	if n != len(pages) {
		t.Errorf("wrote %d, want %d", n, len(pages))
	}

	data, err := os.ReadFile(filepath.Join(dir, "series", "go-101", "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	page := string(data)
	if !strings.Contains(page, "<title>시리즈: Go 101</title>") || !strings.Contains(page, `<a href="/generics/">Generics</a>`) {
		t.Errorf("series page:\n%s", page)
	}
	if strings.Contains(page, "category-tree") {
		t.Error("series pages should not carry the category tree")
	}

	data, err = os.ReadFile(filepath.Join(dir, "categories", "Life", "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `class="category-tree"`) {
		t.Error("category pages should carry the category tree")
	}
}

func TestCategoryNamesStayInsideSite(t *testing.T) {
	posts := []content.Post{
		{Record: content.Record{Title: "Escape", URL: "/escape/"}, Categories: []string{"../../escaped"}},
		{Record: content.Record{Title: "Dots", URL: "/dots/"}, Categories: []string{".."}},
		{Record: content.Record{Title: "Plain", URL: "/plain/"}, Categories: []string{"C++"}},
	}

	var dirs []string
	for _, pg := range Categories(posts) {
		dirs = append(dirs, pg.Dir)
	}
	want := []string{"categories/escaped", "categories/C++"}
	if strings.Join(dirs, ",") != strings.Join(want, ",") {
		t.Errorf("dirs = %q, want %q", dirs, want)
	}

	html := RenderTree(BuildCategoryTree(posts))
	if strings.Contains(html, `href="/categories/../`) {
		t.Errorf("tree links outside categories:\n%s", html)
	}
	if !strings.Contains(html, `href="/categories/escaped/"`) {
		t.Errorf("tree link for sanitised name missing:\n%s", html)
	}

	root := t.TempDir()
	site := filepath.Join(root, "a", "_site")
	if _, err := WritePages(site, Categories(posts), nil); err != nil {
		t.Fatalf("WritePages: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "escaped")); !os.IsNotExist(err) {
		t.Errorf("page written outside the site dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(site, "categories", "escaped", "index.html")); err != nil {
		t.Errorf("sanitised page missing: %v", err)
	}
}

func TestWritePagesRejectsEscapingDir(t *testing.T) {
	root := t.TempDir()
	site := filepath.Join(root, "_site")
	for _, dir := range []string{"../x", "categories/../../x", ".", ""} {
		pages := []Page{{Kind: KindCategory, Name: "x", Dir: dir}}
		n, err := WritePages(site, pages, nil)
		if err == nil || n != 0 {
			t.Errorf("WritePages(Dir=%q) = %d, %v; want error", dir, n, err)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "x")); !os.IsNotExist(err) {
		t.Errorf("page written outside the site dir: %v", err)
	}
}
