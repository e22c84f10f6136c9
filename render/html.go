package render

import (
	"html/template"
	"io"

	"github.com/mudrockdev/mudrockreportdiff/compare"
)

var htmlReport = template.Must(template.New("report").Funcs(template.FuncMap{
	"describe": describe,
	"value":    formatValue,
	"change":   formatChange,
	"title": func(m compare.Mode) string {
		if t, ok := modeTitles[m]; ok {
			return t
		}
		return string(m)
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Report comparison</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; background-color: #f5f5f5; }
.section { background-color: white; padding: 20px; margin: 20px 0; border-radius: 5px; }
table { width: 100%; border-collapse: collapse; margin: 10px 0; }
th, td { padding: 6px 10px; border-bottom: 1px solid #ddd; text-align: left; }
tr.critical { background-color: #f8d7da; }
tr.warning { background-color: #fff3cd; }
</style>
</head>
<body>
<h1>Report comparison</h1>
<div class="section">
<p><strong>Mode:</strong> {{title .Mode}}</p>
<p><strong>Baseline:</strong> {{describe .Baseline}}</p>
<p><strong>Target:</strong> {{describe .Target}}</p>
</div>
<div class="section">
<h2>Summary</h2>
<p>Tables compared: {{.Summary.TotalTables}}</p>
<p>Metrics compared: {{.Summary.TotalMetrics}}</p>
<p>Critical: {{.Summary.CriticalCount}}</p>
<p>Warnings: {{.Summary.WarningCount}}</p>
<p>Thresholds: warning {{.Thresholds.WarningPercent}}%, critical {{.Thresholds.CriticalPercent}}%</p>
</div>
{{range .Tables}}<div class="section">
<h3>{{.Description}}</h3>
<table>
<thead><tr><th>Row</th><th>Metric</th><th>Baseline</th><th>Target</th><th>Change</th></tr></thead>
<tbody>
{{range .Outcomes}}<tr class="{{.Status}}"><td>{{.Row}}</td><td>{{.Metric}}</td><td>{{value .Baseline}}</td><td>{{value .Target}}</td><td>{{change .}}</td></tr>
{{end}}</tbody>
</table>
</div>
{{end}}</body>
</html>
`))

func writeHTML(w io.Writer, result *compare.Result) error {
	return htmlReport.Execute(w, result)
}
