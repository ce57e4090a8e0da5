package api

import (
	"embed"
	"html/template"
	"net/http"
)

//go:embed assets/index.html
var assetsFS embed.FS

var indexTemplate = template.Must(template.ParseFS(assetsFS, "assets/index.html"))

// handleIndex renders the embedded single-page dashboard.
func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct {
		Title string
	}{Title: "Industrial Infrastructure Monitor"}
	if err := indexTemplate.Execute(w, data); err != nil {
		h.logger.Error("render dashboard", "error", err)
	}
}
