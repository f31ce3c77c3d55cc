// Package templates renders the HTML pages of the admin UI.
//
// Components are templ.Component values so handlers render them the same
// way regardless of how a page is built.
package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// html writes markup, remembering the first write error.
type html struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

// text writes s escaped for element content or a quoted attribute value.
func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

// href writes a sanitized, escaped URL attribute value.
func (h *html) href(u string) {
	h.text(string(templ.URL(u)))
}

func (h *html) int(n int64) {
	h.raw(strconv.FormatInt(n, 10))
}

// render writes a nested component.
func (h *html) render(c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(h.ctx, h.w)
	}
}

// component adapts a render function to templ.Component.
func component(fn func(h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{ctx: ctx, w: w}
		fn(h)
		return h.err
	})
}
