package webui

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// spaHandler serves the built frontend bundle. Unknown paths fall back to
// index.html so client-side routing works on deep links.
func (webUI *WebUI) spaHandler(w http.ResponseWriter, r *http.Request) {
	staticDir := webUI.Config.StaticDir
	if staticDir == "" {
		http.NotFound(w, r)
		return
	}

	// Ensure no path traversal attempts
	if strings.Contains(r.URL.Path, "..") {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	rootDir, err := filepath.Abs(staticDir)
	if err != nil {
		http.Error(w, "Internal configuration error", http.StatusInternalServerError)
		return
	}

	requested := filepath.Join(rootDir, filepath.FromSlash(strings.TrimPrefix(r.URL.Path, "/")))

	// Verify the resolved path is still within the static directory
	rel, err := filepath.Rel(rootDir, requested)
	if err != nil || strings.HasPrefix(rel, "..") {
		slog.Warn("potential path traversal attempt blocked", "path", r.URL.Path)
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	stat, err := os.Stat(requested)
	if err != nil || stat.IsDir() {
		// SPA fallback: deep links render client-side.
		http.ServeFile(w, r, filepath.Join(rootDir, "index.html"))
		return
	}

	http.ServeFile(w, r, requested)
}
