// Package web embeds the HTML templates and static assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates
var templatesFS embed.FS

//go:embed assets
var assetsFS embed.FS

const (
	LayoutGlob  = "layouts/*.html.tmpl"
	PartialGlob = "partials/*.html.tmpl"
	PageDir     = "pages"
	EmailGlob   = "email/*.html.tmpl"
)

// Templates is rooted at templates/.
func Templates() fs.FS {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Assets is rooted at assets/ and served under /assets/.
func Assets() fs.FS {
	sub, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}
