package ui

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed dist
var dist embed.FS

func PublicFS() fs.FS {
	fsys, _ := fs.Sub(dist, "dist")
	return fsys
}

// Handler serves the embedded canvas frontend. Paths that match no embedded
// file fall back to index.html so canvas routes survive a page reload.
func Handler() http.Handler {
	fsys := PublicFS()
	fileH := http.FileServerFS(fsys)

	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		p := strings.TrimPrefix(r.URL.Path, `/`)
		if p != `` && p != `index.html` {
			if _, err := fs.Stat(fsys, p); err == nil {
				fileH.ServeHTTP(rw, r)
				return
			}
		}

		http.ServeFileFS(rw, r, fsys, `index.html`)
	})
}
