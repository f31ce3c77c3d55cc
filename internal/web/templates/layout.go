package templates

import (
	"github.com/JonMunkholm/pmadmin/internal/core"
	"github.com/a-h/templ"
)

// NavItem is one entry of the top navigation.
type NavItem struct {
	Label  string
	URL    string
	Active bool
}

// Navigation builds the top navigation from the entity registry.
func Navigation(active core.EntityKind) []NavItem {
	items := []NavItem{{Label: "Dashboard", URL: "/", Active: active == ""}}
	for _, def := range core.All() {
		items = append(items, NavItem{
			Label:  def.Label,
			URL:    "/" + string(def.Kind),
			Active: def.Kind == active,
		})
	}
	return items
}

// Layout wraps body in the page shell.
func Layout(title string, nav []NavItem, body templ.Component) templ.Component {
	return component(func(h *html) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(` · PM Admin</title>`)
		h.raw(`<style>` + stylesheet + `</style></head><body>`)

		h.raw(`<nav class="top">`)
		for _, item := range nav {
			h.raw(`<a href="`)
			h.href(item.URL)
			h.raw(`"`)
			if item.Active {
				h.raw(` class="active"`)
			}
			h.raw(`>`)
			h.text(item.Label)
			h.raw(`</a>`)
		}
		h.raw(`</nav><main>`)
		h.render(body)
		h.raw(`</main></body></html>`)
	})
}

const stylesheet = `
body{font-family:system-ui,sans-serif;margin:0;color:#1f2937}
nav.top{display:flex;gap:1rem;padding:.75rem 1.5rem;background:#111827}
nav.top a{color:#d1d5db;text-decoration:none}
nav.top a.active{color:#fff;font-weight:600}
main{padding:1.5rem}
table{border-collapse:collapse;width:100%}
th,td{border-bottom:1px solid #e5e7eb;padding:.4rem .6rem;text-align:left}
th a{color:inherit}
.alert{border:1px solid #fca5a5;background:#fef2f2;padding:.75rem;margin-bottom:1rem}
.alert code{font-size:.85em}
.pager a,.pager span{margin-right:.4rem}
.pager .current{font-weight:700}
.actions{display:flex;gap:.75rem;margin:1rem 0}
label{display:block;margin-top:.5rem}
.children input,.children select{width:100%}
`
