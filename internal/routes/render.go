package routes

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"

	"github.com/gin-contrib/multitemplate"

	"parcelpoint-web/web"
)

// NewRenderer parses every page under pages/ together with the shared
// layouts and partials. Pages are registered under their file name.
func NewRenderer(fsys fs.FS) (multitemplate.Renderer, error) {
	r := multitemplate.NewRenderer()

	pages, err := fs.Glob(fsys, path.Join(web.PageDir, "*.html.tmpl"))
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no page templates found in %s", web.PageDir)
	}

	for _, page := range pages {
		name := path.Base(page)
		tmpl, err := template.New(name).
			Funcs(TemplateFuncs()).
			ParseFS(fsys, web.LayoutGlob, web.PartialGlob, page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.Add(name, tmpl)
	}
	return r, nil
}

// EmailTemplates holds the notification bodies sent to the support inbox.
type EmailTemplates struct {
	tmpl *template.Template
}

func NewEmailTemplates(fsys fs.FS) (*EmailTemplates, error) {
	tmpl, err := template.New("email").Funcs(TemplateFuncs()).ParseFS(fsys, web.EmailGlob)
	if err != nil {
		return nil, err
	}
	return &EmailTemplates{tmpl: tmpl}, nil
}

func (e *EmailTemplates) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := e.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
