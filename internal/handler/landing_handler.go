package handler

import (
	_ "embed"
	"encoding/json"
	"net/http"
)

//go:embed static/index.html
var indexHTML []byte

// Index serves the bundled landing page.
func Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// Health reports liveness only; it does not touch the database.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
