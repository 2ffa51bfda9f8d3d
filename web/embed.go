// Package web holds the static landing page served at "/".
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var static embed.FS

// Site returns the landing page file tree rooted at static/.
func Site() fs.FS {
	site, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return site
}
