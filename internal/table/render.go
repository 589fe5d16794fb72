package table

import (
	"bytes"
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

var tableTemplate = template.Must(template.New("table.html").ParseFS(templateFS, "templates/*.html"))

// Render writes the HTML of view to w.
func Render(w io.Writer, view View) error {
	return tableTemplate.ExecuteTemplate(w, "table", view)
}

// HTML renders view into a fragment that page layouts can embed.
func HTML(view View) (template.HTML, error) {
	var buf bytes.Buffer
	if err := Render(&buf, view); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
