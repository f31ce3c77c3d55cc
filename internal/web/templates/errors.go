package templates

import (
	"github.com/JonMunkholm/pmadmin/internal/core"
	"github.com/a-h/templ"
)

// ErrorAlert renders the single error banner shown above a form or page.
func ErrorAlert(message, action, code string) templ.Component {
	return component(func(h *html) {
		h.raw(`<div class="alert" role="alert"><strong>`)
		h.text(message)
		h.raw(`</strong>`)
		if action != "" {
			h.raw(` `)
			h.text(action)
		}
		if code != "" {
			h.raw(` <code>`)
			h.text(code)
			h.raw(`</code>`)
		}
		h.raw(`</div>`)
	})
}

// Problems lists per-field validation problems under the banner.
func Problems(problems []core.ValidationError) templ.Component {
	return component(func(h *html) {
		if len(problems) == 0 {
			return
		}
		h.raw(`<ul class="problems">`)
		for _, p := range problems {
			h.raw(`<li>`)
			h.text(p.Error())
			h.raw(`</li>`)
		}
		h.raw(`</ul>`)
	})
}

// ErrorPage is a full page carrying only an error banner.
func ErrorPage(msg core.UserMessage) templ.Component {
	return Layout("Error", Navigation(""), ErrorAlert(msg.Message, msg.Action, msg.Code))
}
