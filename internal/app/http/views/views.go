package views

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// Load parses every page and partial. Pages are addressed by file name,
// e.g. c.HTML(http.StatusOK, "index.html", data).
func Load() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"add": func(a, b int) int { return a + b },
	}).ParseFS(templateFiles, "templates/*.html")
}

// Static is the asset tree served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Nav drives the active state of the header links.
type Nav struct {
	Path string
	Type string
}
