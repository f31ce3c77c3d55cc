package templates

import (
	"github.com/JonMunkholm/pmadmin/internal/core"
	"github.com/a-h/templ"
)

// RecordNav links to the neighbors of a record in the list it was opened from.
type RecordNav struct {
	PrevURL  string
	NextURL  string
	Position int64 // 0-based; -1 when the record was not opened from a list
	Total    int64
}

// DetailView is everything a read-only record page renders.
type DetailView struct {
	Title     string
	Fields    []Field
	Values    map[string]string
	Children  *ChildTable
	Nav       RecordNav
	ListURL   string
	EditURL   string
	DeleteURL string
	Audit     []core.AuditEntry
}

// Detail renders a record with its children, neighbor navigation and
// recent audit entries.
func Detail(nav []NavItem, v DetailView) templ.Component {
	body := component(func(h *html) {
		h.raw(`<h1>`)
		h.text(v.Title)
		h.raw(`</h1><div class="actions"><a href="`)
		h.href(v.ListURL)
		h.raw(`">Back to list</a>`)
		if v.Nav.PrevURL != "" {
			h.raw(`<a rel="prev" href="`)
			h.href(v.Nav.PrevURL)
			h.raw(`">Previous</a>`)
		}
		if v.Nav.Position >= 0 && v.Nav.Total > 0 {
			h.raw(`<span>`)
			h.int(v.Nav.Position + 1)
			h.raw(` of `)
			h.int(v.Nav.Total)
			h.raw(`</span>`)
		}
		if v.Nav.NextURL != "" {
			h.raw(`<a rel="next" href="`)
			h.href(v.Nav.NextURL)
			h.raw(`">Next</a>`)
		}
		h.raw(`<a href="`)
		h.href(v.EditURL)
		h.raw(`">Edit</a><form method="post" action="`)
		h.href(v.DeleteURL)
		h.raw(`"><button type="submit">Delete</button></form></div>`)

		h.raw(`<dl>`)
		for _, f := range v.Fields {
			h.raw(`<dt>`)
			h.text(f.Label)
			h.raw(`</dt><dd>`)
			h.text(f.Display(v.Values[f.Name]))
			h.raw(`</dd>`)
		}
		h.raw(`</dl>`)

		if c := v.Children; c != nil {
			h.raw(`<h2>`)
			h.text(c.Title)
			h.raw(`</h2><table><thead><tr>`)
			for _, f := range c.Fields {
				h.raw(`<th>`)
				h.text(f.Label)
				h.raw(`</th>`)
			}
			h.raw(`</tr></thead><tbody>`)
			for _, row := range c.Rows {
				h.raw(`<tr>`)
				for _, f := range c.Fields {
					h.raw(`<td>`)
					h.text(f.Display(row.Values[f.Name]))
					h.raw(`</td>`)
				}
				h.raw(`</tr>`)
			}
			h.raw(`</tbody></table>`)
		}

		if len(v.Audit) > 0 {
			h.raw(`<h2>History</h2><table><thead><tr><th>When</th><th>Action</th><th>Children</th><th>Request</th></tr></thead><tbody>`)
			for _, e := range v.Audit {
				h.raw(`<tr><td>`)
				h.text(e.CreatedAt.Format("2006-01-02 15:04:05"))
				h.raw(`</td><td>`)
				h.text(string(e.Action))
				h.raw(`</td><td>`)
				h.text(e.Changes.String())
				h.raw(`</td><td>`)
				h.text(e.RequestID)
				h.raw(`</td></tr>`)
			}
			h.raw(`</tbody></table>`)
		}
	})
	return Layout(v.Title, nav, body)
}
