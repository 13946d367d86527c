package taxonomy

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
)

// pageTemplate is the html/template for generated taxonomy pages.
const pageTemplate = `<!DOCTYPE html>
<html lang="ko">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Page.Title}}</title>
</head>
<body>
  <main class="taxonomy-page taxonomy-{{.Page.Kind}}">
    <h1 class="page-title">{{.Page.Title}}</h1>
    <ul class="post-list">
    {{- range .Page.Posts}}
      <li class="post-item">
        <a href="{{.URL}}">{{.Title}}</a>
        <span class="post-date">{{.Date}}</span>
      </li>
    {{- end}}
    </ul>
    {{- if .TreeHTML}}
    <aside class="category-sidebar">
      {{.TreeHTML}}
    </aside>
    {{- end}}
  </main>
</body>
</html>
`

var pageTmpl = template.Must(template.New("taxonomy").Parse(pageTemplate))

type pageData struct {
	Page     Page
	TreeHTML template.HTML
}

// WritePages renders every page to siteDir/<Dir>/index.html. Category pages
// carry the category tree sidebar. It returns the number of pages written.
func WritePages(siteDir string, pages []Page, tree *CategoryNode) (int, error) {
	var treeHTML template.HTML
	if tree != nil {
		treeHTML = template.HTML(RenderTree(tree))
	}

	for i, pg := range pages {
		outPath := filepath.Join(siteDir, filepath.FromSlash(pg.Dir), "index.html")
		if !within(siteDir, filepath.Dir(outPath)) {
			return i, fmt.Errorf("%s page %q: directory %q is outside %s", pg.Kind, pg.Name, pg.Dir, siteDir)
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return i, fmt.Errorf("creating %s: %w", filepath.Dir(outPath), err)
		}

		data := pageData{Page: pg}
		if pg.Kind == KindCategory {
			data.TreeHTML = treeHTML
		}
		if err := writePage(outPath, data); err != nil {
			return i, err
		}
	}
	return len(pages), nil
}

// within reports whether dir is strictly below root.
func within(root, dir string) bool {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

func writePage(outPath string, data pageData) error {
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := pageTmpl.Execute(f, data); err != nil {
		f.Close()
		return fmt.Errorf("rendering %s: %w", outPath, err)
	}
	return f.Close()
}
