package search

import (
	"bytes"
	"html/template"
)

// DefaultNoResultsText is the site's "no results" message.
const DefaultNoResultsText = "검색 결과가 없습니다."

// RenderOptions tunes RenderPanel.
type RenderOptions struct {
	NoResultsText string
}

type panelData struct {
	State     State
	NoResults string
	Results   []resultView
}

type resultView struct {
	URL     string
	Title   template.HTML
	Date    string
	Tags    []string
	Excerpt template.HTML
}

var panelTemplate = template.Must(template.New("panel").Parse(`
{{- if eq .State 1 -}}
<div class="search-no-results">{{.NoResults}}</div>
{{- else -}}
{{- range .Results}}
<div class="search-result-item">
  <h3><a href="{{.URL}}">{{.Title}}</a></h3>
  <div class="search-result-date">{{.Date}}</div>
  {{- if .Tags}}
  <div class="search-result-tags">{{range .Tags}}<span class="tag">{{.}}</span>{{end}}</div>
  {{- end}}
  <p class="search-result-excerpt">{{.Excerpt}}</p>
</div>
{{- end}}
{{- end}}`))

// RenderPanel renders the results panel markup for resp. An idle response
// renders empty; a search with no matches renders the no-results block.
func RenderPanel(resp Response, opts RenderOptions) (string, error) {
	if opts.NoResultsText == "" {
		opts.NoResultsText = DefaultNoResultsText
	}

	data := panelData{State: resp.State, NoResults: opts.NoResultsText}
	if resp.State == StateIdle {
		return "", nil
	}
	for _, r := range resp.Results {
		data.Results = append(data.Results, resultView{
			URL: r.URL,
			// TitleHTML and ExcerptHTML are escaped by Highlight.
			Title:   template.HTML(r.TitleHTML),
			Date:    r.Date,
			Tags:    r.Tags,
			Excerpt: template.HTML(r.ExcerptHTML),
		})
	}

	var buf bytes.Buffer
	if err := panelTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
