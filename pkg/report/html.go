package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	g "maragu.dev/gomponents"
)

const htmlStyle = `body{font-family:sans-serif;margin:2em}
table{border-collapse:collapse;width:100%;margin-bottom:2em}
th,td{border:1px solid #ccc;padding:.3em .6em;text-align:left;vertical-align:top}
.FATAL,.ERROR{color:#b00020}.WARNING{color:#8a6d00}.INFO,.USAGE{color:#555}`

// WriteHTML writes the reports of several files as one standalone page.
func WriteHTML(w io.Writer, reports []*Report) error {
	var errs, warns, fatal int
	for _, r := range reports {
		errs += r.ErrorCount()
		warns += r.WarningCount()
		fatal += r.FatalCount()
	}

	files := make(g.Group, 0, len(reports))
	for _, r := range reports {
		files = append(files, fileSection(r))
	}

	page := g.Group{
		g.Raw("<!DOCTYPE html>"),
		g.El("html", g.Attr("lang", "en"),
			g.El("head",
				g.El("meta", g.Attr("charset", "utf-8")),
				g.El("title", g.Text("htmlverify report")),
				g.El("style", g.Raw(htmlStyle)),
			),
			g.El("body",
				g.El("h1", g.Text("htmlverify report")),
				g.El("p", g.Textf("%d files, %d errors, %d warnings, %d fatal", len(reports), errs, warns, fatal)),
				files,
			),
		),
	}
	return page.Render(w)
}

func fileSection(r *Report) g.Node {
	rows := make(g.Group, 0, len(r.Messages))
	for _, m := range r.Messages {
		loc := ""
		if m.Line > 0 {
			loc = fmt.Sprint(m.Line)
			if m.Column > 0 {
				loc += fmt.Sprintf(":%d", m.Column)
			}
		}
		rows = append(rows, g.El("tr",
			g.El("td", g.Attr("class", string(m.Severity)), g.Text(string(m.Severity))),
			g.El("td", g.Text(m.CheckID)),
			g.El("td", g.Text(loc)),
			g.El("td", g.Text(m.Message)),
		))
	}

	return g.El("section",
		g.El("h2", g.Text(r.File)),
		g.If(len(r.Messages) == 0, g.El("p", g.Text("No findings."))),
		g.If(len(r.Messages) > 0, g.El("table",
			g.El("tr", g.El("th", g.Text("Severity")), g.El("th", g.Text("Rule")), g.El("th", g.Text("Line")), g.El("th", g.Text("Message"))),
			rows,
		)),
		g.If(len(r.Measures) > 0, g.El("p", g.Text(measureLine(r.Measures)))),
	)
}

func measureLine(measures map[string]int) string {
	keys := make([]string, 0, len(measures))
	for k := range measures {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, measures[k])
	}
	return strings.Join(parts, " ")
}
