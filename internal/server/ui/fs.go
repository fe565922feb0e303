// Package ui embeds the static question-answering frontend so the service
// ships as a single binary.
package ui

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var assets embed.FS

// GetHandler serves the embedded frontend rooted at the static directory,
// so index.html answers at "/".
func GetHandler() http.Handler {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
