package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// SPA serves the frontend build. Existing files are served as-is; anything
// else falls back to index.html so the client-side router owns the path.
// API routes never reach this handler; the router sends them to the JSON
// not-found handler instead.
func SPA(dir string) http.Handler {
	fileServer := http.FileServer(http.Dir(dir))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested := strings.TrimPrefix(filepath.Clean(r.URL.Path), "/")
		if requested != "" && requested != "." {
			full := filepath.Join(dir, requested)
			if info, err := os.Stat(full); err == nil && !info.IsDir() {
				fileServer.ServeHTTP(w, r)
				return
			}
		}

		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	})
}
