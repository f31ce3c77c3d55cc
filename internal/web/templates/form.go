package templates

import (
	"strconv"

	"github.com/JonMunkholm/pmadmin/internal/core"
	"github.com/a-h/templ"
)

// Input kinds understood by the form renderer.
const (
	InputText     = "text"
	InputTextarea = "textarea"
	InputDate     = "date"
	InputNumber   = "number"
	InputEmail    = "email"
	InputSelect   = "select"
)

// Option is one choice of a select input.
type Option struct {
	Value string
	Label string
}

// Field describes one editable value of a parent or child row.
type Field struct {
	Name    string
	Label   string
	Input   string
	Options []Option
}

// Display returns the option label for value, or value itself.
func (f Field) Display(value string) string {
	for _, o := range f.Options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// Row is one child row. Key is the stored id, or a "new-..." key for rows
// that do not exist yet.
type Row struct {
	Key    string
	Values map[string]string
}

// ChildTable is an in-place editable child collection.
type ChildTable struct {
	Title  string
	Fields []Field
	Rows   []Row
}

// FormView is everything a create or edit form renders.
type FormView struct {
	Title    string
	Action   string
	Cancel   string
	Version  int64
	Fields   []Field
	Values   map[string]string
	Children *ChildTable
	Error    *core.UserMessage
	Problems []core.ValidationError
}

// Form renders a master-detail form. Child rows post as
// children[i].id, children[i].<field> and children[i].remove.
func Form(nav []NavItem, v FormView) templ.Component {
	body := component(func(h *html) {
		h.raw(`<h1>`)
		h.text(v.Title)
		h.raw(`</h1>`)
		if v.Error != nil {
			h.render(ErrorAlert(v.Error.Message, v.Error.Action, v.Error.Code))
			h.render(Problems(v.Problems))
		}

		h.raw(`<form method="post" action="`)
		h.href(v.Action)
		h.raw(`">`)
		if v.Version > 0 {
			h.raw(`<input type="hidden" name="version" value="`)
			h.int(v.Version)
			h.raw(`">`)
		}
		for _, f := range v.Fields {
			h.raw(`<label>`)
			h.text(f.Label)
			h.raw(` `)
			input(h, f, f.Name, v.Values[f.Name])
			h.raw(`</label>`)
		}

		if c := v.Children; c != nil {
			h.raw(`<h2>`)
			h.text(c.Title)
			h.raw(`</h2><table class="children"><thead><tr>`)
			for _, f := range c.Fields {
				h.raw(`<th>`)
				h.text(f.Label)
				h.raw(`</th>`)
			}
			h.raw(`<th>Remove</th></tr></thead><tbody>`)
			for i, row := range c.Rows {
				prefix := "children[" + strconv.Itoa(i) + "]."
				h.raw(`<tr>`)
				for j, f := range c.Fields {
					h.raw(`<td>`)
					if j == 0 {
						h.raw(`<input type="hidden" name="`)
						h.text(prefix + "id")
						h.raw(`" value="`)
						h.text(row.Key)
						h.raw(`">`)
					}
					input(h, f, prefix+f.Name, row.Values[f.Name])
					h.raw(`</td>`)
				}
				h.raw(`<td><input type="checkbox" name="`)
				h.text(prefix + "remove")
				h.raw(`" value="1"></td></tr>`)
			}
			h.raw(`</tbody></table>`)
		}

		h.raw(`<div class="actions"><button type="submit">Save</button><a href="`)
		h.href(v.Cancel)
		h.raw(`">Cancel</a></div></form>`)
	})
	return Layout(v.Title, nav, body)
}

func input(h *html, f Field, name, value string) {
	switch f.Input {
	case InputTextarea:
		h.raw(`<textarea name="`)
		h.text(name)
		h.raw(`">`)
		h.text(value)
		h.raw(`</textarea>`)
	case InputSelect:
		h.raw(`<select name="`)
		h.text(name)
		h.raw(`"><option value=""></option>`)
		for _, o := range f.Options {
			h.raw(`<option value="`)
			h.text(o.Value)
			h.raw(`"`)
			if o.Value == value {
				h.raw(` selected`)
			}
			h.raw(`>`)
			h.text(o.Label)
			h.raw(`</option>`)
		}
		h.raw(`</select>`)
	default:
		typ := f.Input
		if typ == "" {
			typ = InputText
		}
		h.raw(`<input type="`)
		h.text(typ)
		h.raw(`" name="`)
		h.text(name)
		h.raw(`" value="`)
		h.text(value)
		h.raw(`"`)
		if typ == InputNumber {
			h.raw(` step="any"`)
		}
		h.raw(`>`)
	}
}
