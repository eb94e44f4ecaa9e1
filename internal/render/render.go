// Package render turns curated selections into the digest HTML. All
// user-supplied text (titles, summaries, source names, links) goes through
// html/template so markup in article fields never becomes structure.
package render

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"dailydigest/internal/curator"
	"dailydigest/internal/news"
	"dailydigest/internal/trending"
)

const summaryLen = 300

var sectionsTmpl = template.Must(template.New("sections").Parse(`{{range .Blocks}}<h2>{{.Name}}</h2>
<ul>
{{range .Items}}<li><strong>{{.Title}}</strong>: {{.Summary}} <a href="{{.URL}}">[{{.Source}}]</a></li>
{{end}}</ul>
{{end}}{{if .Empty}}<p class="empty-note">No items found for: {{.Empty}}.</p>
{{end}}`))

var documentTmpl = template.Must(template.New("document").Parse(`<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<style>
body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f4f4; color: #333; line-height: 1.6; }
.container { max-width: 800px; margin: 0 auto; background-color: #ffffff; padding: 30px; border-radius: 8px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
h1 { color: #2c3e50; font-size: 28px; margin-bottom: 30px; text-align: center; border-bottom: 3px solid #3498db; padding-bottom: 10px; }
h2 { color: #34495e; font-size: 22px; margin-top: 40px; margin-bottom: 15px; border-left: 4px solid #3498db; padding-left: 15px; }
ul { list-style-type: none; padding-left: 0; }
li { margin-bottom: 15px; padding: 10px; background-color: #ecf0f1; border-radius: 5px; border-left: 4px solid #bdc3c7; }
li strong { color: #2c3e50; font-weight: bold; }
a { color: #3498db; text-decoration: none; font-weight: 500; }
a:hover { text-decoration: underline; }
.overview { background-color: #e8f4f8; padding: 20px; margin-bottom: 30px; border-radius: 8px; }
.footer { margin-top: 40px; padding-top: 20px; border-top: 1px solid #ecf0f1; text-align: center; color: #7f8c8d; font-size: 12px; }
</style>
</head>
<body>
<div class="container">
<h1>Daily News Digest</h1>
<div class="overview">
<h2 style="margin-top: 0;">Today's Overview</h2>
<p><strong>Weather:</strong> {{.Weather}}</p>
{{if .Trending}}<p><strong>Trending (Top Today):</strong></p>
<ul style="margin: 0; padding-left: 20px;">
{{range .Trending}}<li><a href="{{.URL}}">{{.Title}}</a></li>
{{end}}</ul>
{{end}}</div>
{{.Body}}
<div class="footer">
<p>{{.Date}}</p>
</div>
</div>
</body>
</html>
`))

type sectionBlock struct {
	Name  string
	Items []sectionItem
}

type sectionItem struct {
	Title   string
	Summary string
	URL     string
	Source  string
}

// Sections renders one grouped block per non-empty selection, in canonical
// section order, followed by a note listing the sections that came up
// empty.
func Sections(selections map[news.Section]curator.Selection, empty []news.Section) (string, error) {
	var blocks []sectionBlock
	for _, s := range news.SectionOrder {
		sel, ok := selections[s]
		if !ok || len(sel.Articles) == 0 {
			continue
		}

		block := sectionBlock{Name: string(s)}
		for _, a := range sel.Articles {
			block.Items = append(block.Items, sectionItem{
				Title:   a.Title,
				Summary: truncate(a.Content, summaryLen),
				URL:     a.URL,
				Source:  a.Source,
			})
		}
		blocks = append(blocks, block)
	}

	emptyNames := make([]string, 0, len(empty))
	for _, s := range empty {
		emptyNames = append(emptyNames, string(s))
	}

	var b strings.Builder
	err := sectionsTmpl.Execute(&b, struct {
		Blocks []sectionBlock
		Empty  string
	}{blocks, strings.Join(emptyNames, ", ")})
	if err != nil {
		return "", fmt.Errorf("render sections: %w", err)
	}
	return b.String(), nil
}

// Document wraps the rendered section body with the overview block and the
// outer email chrome. The body is trusted (produced by Sections); weather
// and trending text are escaped here.
func Document(body, weatherSummary string, links []trending.Link, date time.Time) (string, error) {
	var b strings.Builder
	err := documentTmpl.Execute(&b, struct {
		Weather  string
		Trending []trending.Link
		Body     template.HTML
		Date     string
	}{weatherSummary, links, template.HTML(body), date.Format("2006-01-02")})
	if err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}
	return b.String(), nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
