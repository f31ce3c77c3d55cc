package templates

import (
	"github.com/a-h/templ"
)

// DashboardCard is one entity kind on the dashboard.
type DashboardCard struct {
	Label string
	URL   string
	Count int64
}

// Dashboard renders the entity counts.
func Dashboard(nav []NavItem, cards []DashboardCard) templ.Component {
	body := component(func(h *html) {
		h.raw(`<h1>Dashboard</h1><table><thead><tr><th>Entity</th><th>Records</th></tr></thead><tbody>`)
		for _, c := range cards {
			h.raw(`<tr><td><a href="`)
			h.href(c.URL)
			h.raw(`">`)
			h.text(c.Label)
			h.raw(`</a></td><td>`)
			h.int(c.Count)
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)
	})
	return Layout("Dashboard", nav, body)
}

// Header is a list column header; URL is set for sortable columns.
type Header struct {
	Label     string
	URL       string
	Active    bool
	Ascending bool
}

// ListRow is one rendered list row linking to its detail view.
type ListRow struct {
	URL   string
	Cells []string
}

// PageLink is one pager entry.
type PageLink struct {
	Number  int
	URL     string
	Current bool
}

// ListView is everything a list page renders.
type ListView struct {
	Title     string
	NewURL    string
	ExportURL string
	FormURL   string // search form target
	Search    string
	Total     int64
	Headers   []Header
	Rows      []ListRow
	Pages     []PageLink
	PrevURL   string
	NextURL   string
}

// List renders one page of an entity list.
func List(nav []NavItem, v ListView) templ.Component {
	body := component(func(h *html) {
		h.raw(`<h1>`)
		h.text(v.Title)
		h.raw(`</h1><div class="actions"><a href="`)
		h.href(v.NewURL)
		h.raw(`">New</a><a href="`)
		h.href(v.ExportURL)
		h.raw(`">Export CSV</a>`)
		h.raw(`<form method="get" action="`)
		h.href(v.FormURL)
		h.raw(`"><input type="search" name="q" value="`)
		h.text(v.Search)
		h.raw(`" placeholder="Search"><button type="submit">Search</button></form></div>`)

		h.raw(`<p>`)
		h.int(v.Total)
		h.raw(` records</p><table><thead><tr>`)
		for _, hd := range v.Headers {
			h.raw(`<th>`)
			if hd.URL == "" {
				h.text(hd.Label)
			} else {
				h.raw(`<a href="`)
				h.href(hd.URL)
				h.raw(`">`)
				h.text(hd.Label)
				if hd.Active {
					if hd.Ascending {
						h.raw(` ▲`)
					} else {
						h.raw(` ▼`)
					}
				}
				h.raw(`</a>`)
			}
			h.raw(`</th>`)
		}
		h.raw(`</tr></thead><tbody>`)
		for _, row := range v.Rows {
			h.raw(`<tr>`)
			for i, cell := range row.Cells {
				h.raw(`<td>`)
				if i == 0 {
					h.raw(`<a href="`)
					h.href(row.URL)
					h.raw(`">`)
					if cell == "" {
						cell = "(untitled)"
					}
					h.text(cell)
					h.raw(`</a>`)
				} else {
					h.text(cell)
				}
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</tbody></table>`)

		if len(v.Pages) > 1 {
			h.raw(`<nav class="pager">`)
			if v.PrevURL != "" {
				h.raw(`<a href="`)
				h.href(v.PrevURL)
				h.raw(`">Previous</a>`)
			}
			for _, p := range v.Pages {
				if p.Current {
					h.raw(`<span class="current">`)
					h.int(int64(p.Number))
					h.raw(`</span>`)
					continue
				}
				h.raw(`<a href="`)
				h.href(p.URL)
				h.raw(`">`)
				h.int(int64(p.Number))
				h.raw(`</a>`)
			}
			if v.NextURL != "" {
				h.raw(`<a href="`)
				h.href(v.NextURL)
				h.raw(`">Next</a>`)
			}
			h.raw(`</nav>`)
		}
	})
	return Layout(v.Title, nav, body)
}
