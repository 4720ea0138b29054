// Package web bundles the page shell and its components so the client works
// without a components server.
package web

import (
	"embed"
	"io/fs"
)

//go:embed index.html components/*.html
var files embed.FS

// Index returns the page shell with its empty component containers.
func Index() string {
	data, err := files.ReadFile("index.html")
	if err != nil {
		// The file is embedded at build time.
		panic(err)
	}
	return string(data)
}

// Files exposes the bundled files, rooted so that components live under
// "components/".
func Files() fs.FS {
	return files
}
