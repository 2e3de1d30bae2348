// internal/report/assembler.go

// Package report renders the printable comparison document from the plans an
// advisor selected. It is a pure downstream sink: layout only, no business
// logic.
package report

import (
	"html/template"
	"io"
	"sort"
	"time"

	"insurance-portal/internal/models"
)

// MemberSection is one member's slice of the document.
type MemberSection struct {
	Member models.FamilyMember
	Age    int
	Plans  []models.ResolvedPlan
}

// Data is everything the document template needs.
type Data struct {
	GeneratedAt time.Time
	Settings    models.SharedSettings
	Sections    []MemberSection
}

// Assembler renders printable HTML comparison documents.
type Assembler struct {
	tmpl *template.Template
}

func NewAssembler() *Assembler {
	return &Assembler{tmpl: template.Must(template.New("report").Parse(reportTemplate))}
}

// Assemble writes the document for the selected plans of each member.
// Unselected plans are filtered out here; members with no selection are
// omitted entirely. Sections appear in ascending member-ID order so the
// same comparison always renders the same document.
func (a *Assembler) Assemble(w io.Writer, results map[int]models.MemberResult, settings models.SharedSettings, generatedAt time.Time) error {
	data := Data{GeneratedAt: generatedAt, Settings: settings}

	ids := make([]int, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		res := results[id]
		var selected []models.ResolvedPlan
		for _, p := range res.Comparison {
			if p.Selected {
				selected = append(selected, p)
			}
		}
		if len(selected) == 0 {
			continue
		}
		data.Sections = append(data.Sections, MemberSection{
			Member: res.Member,
			Age:    res.Age,
			Plans:  selected,
		})
	}

	return a.tmpl.Execute(w, data)
}

const reportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Insurance Plan Comparison</title>
<style>
body { font-family: Arial, sans-serif; margin: 24px; color: #222; }
h1 { font-size: 20px; }
h2 { font-size: 16px; margin-top: 28px; border-bottom: 1px solid #999; }
table { border-collapse: collapse; width: 100%; margin-top: 8px; }
th, td { border: 1px solid #bbb; padding: 6px 8px; font-size: 12px; text-align: left; }
th { background: #f0f0f0; }
.status { text-transform: capitalize; }
.meta { color: #555; font-size: 12px; }
@media print { body { margin: 8px; } }
</style>
</head>
<body>
<h1>Insurance Plan Comparison</h1>
<p class="meta">Generated {{.GeneratedAt.Format "02 Jan 2006 15:04"}} &middot; Location: {{.Settings.Location}}</p>
{{range .Sections}}
<h2>{{.Member.Name}} ({{.Member.Relationship}}, age {{.Age}})</h2>
<table>
<tr><th>Provider</th><th>Plan</th><th>Network</th><th>Copay</th><th>Annual Premium (AED)</th><th>Annual Limit</th><th>Status</th></tr>
{{range .Plans}}
<tr>
<td>{{.Provider}}</td>
<td>{{.PlanName}}</td>
<td>{{.Network}}</td>
<td>{{.Copay}}</td>
<td>{{if .NeedsManualRate}}Manual{{else}}{{printf "%.0f" .Premium}}{{end}}</td>
<td>{{.Benefits.AnnualLimit}}</td>
<td class="status">{{.Status}}</td>
</tr>
{{end}}
</table>
{{end}}
</body>
</html>
`
