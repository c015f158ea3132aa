// Package web embeds the page templates and static assets served by the
// scoreboard.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates static
var files embed.FS

// GetTemplatesFS returns the page templates, rooted at templates/
func GetTemplatesFS() fs.FS {
	return sub("templates")
}

// GetStaticFS returns css and js assets, rooted at static/
func GetStaticFS() fs.FS {
	return sub("static")
}

func sub(dir string) fs.FS {
	f, err := fs.Sub(files, dir)
	if err != nil {
		// dir is a literal embedded above
		panic(err)
	}
	return f
}
