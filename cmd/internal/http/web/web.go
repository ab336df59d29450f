package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var assets embed.FS

// Assets is the lookup page, rooted at the static directory.
func Assets() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
