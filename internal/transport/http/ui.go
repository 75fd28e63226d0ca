package httptransport

import (
	_ "embed"
	"net/http"
	"os"
	"path/filepath"
)

//go:embed ui.html
var embeddedUI []byte

// ServeUI serves the on-disk UI when present, falling back to the
// embedded page so the server is usable without any static assets.
func (h *Handler) ServeUI(w http.ResponseWriter, r *http.Request) {
	if h.staticDir != "" {
		page := filepath.Join(h.staticDir, "index.html")
		if body, err := os.ReadFile(page); err == nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write(body)
			return
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(embeddedUI)
}
